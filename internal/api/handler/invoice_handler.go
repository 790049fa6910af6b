package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoice operations.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// List returns one page of invoices, each paired with its client.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        page     query     int     false  "Page, from 1"
// @Param        limit    query     int     false  "Page size, at most 100"
// @Param        orderBy  query     string  false  "Sort field"
// @Param        order    query     string  false  "asc or desc"
// @Param        filter   query     string  false  "Client ID"
// @Success      200      {object}  invoicesResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      502      {object}  errorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	params, err := bindListParams(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoicesResponse{
		Invoices:   page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single invoice.
//
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoiceResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	invoice, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoiceResponse{Invoice: invoice})
}

// Create issues an invoice. The value is the sum of the item prices.
//
// @Summary      Create invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      invoiceRequest  true  "Invoice"
// @Success      201   {object}  invoiceResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req invoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	invoice, err := h.service.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoiceResponse{Invoice: invoice})
}

// Update replaces the editable fields of an invoice.
//
// @Summary      Update invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Invoice ID"
// @Param        body  body      invoiceRequest  true  "Invoice"
// @Success      200   {object}  invoiceResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	var req invoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	invoice, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoiceResponse{Invoice: invoice})
}
