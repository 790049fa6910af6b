package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List returns one page of the user's clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        page     query     int     false  "Page, from 1"
// @Param        limit    query     int     false  "Page size, at most 100"
// @Param        orderBy  query     string  false  "Sort field"
// @Param        order    query     string  false  "asc or desc"
// @Success      200      {object}  clientsResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      502      {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	params, err := bindListParams(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientsResponse{
		Clients:    page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single client.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  clientResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientResponse{Client: client})
}

// Create adds a client.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      clientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := h.service.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, clientResponse{Client: client})
}

// Update replaces the editable fields of a client.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Client ID"
// @Param        body  body      clientRequest  true  "Client"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientResponse{Client: client})
}
