// Package backend is the typed client for the remote invoicing REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/pkg/metrics"
	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/pkg/validation"
)

const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://localhost:3139"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20

	tokenHeader     = "x-access-token"
	requestIDHeader = "X-Request-ID"
)

// Messages used when a failed response carries no body of its own.
const (
	msgRegisterFailed   = "Could not create user."
	msgLoginFailed      = "Could not login with these credentials."
	msgGetCompanyFailed = "Could not fetch company details."
	msgPutCompanyFailed = "Could not put company details."
	msgClientsFailed    = "Could not fetch clients."
	msgClientFailed     = "Could not fetch client details."
	msgSaveClientFailed = "Could not save client."
	msgInvoicesFailed   = "Could not fetch invoices."
	msgInvoiceFailed    = "Could not fetch invoice details."
	msgSaveInvoiceFail  = "Could not save invoice."
	msgUnreachable      = "Could not reach the server."
	msgBadResponse      = "Unexpected response from the server."
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

// NewClient builds a Client. The base URL defaults to DefaultBaseURL and the
// per-request timeout to ten seconds.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: timeout},
		validate: validation.New(),
		log:      log.With().Str("component", "backend").Logger(),
	}, nil
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, call{
		op:         "login",
		method:     http.MethodPost,
		path:       "/login",
		body:       credentials{Email: email, Password: password},
		out:        &user,
		defaultMsg: msgLoginFailed,
		authFailure: func(msg string) error {
			return &domain.AuthenticationError{Message: msg}
		},
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	return c.do(ctx, call{
		op:         "register",
		method:     http.MethodPost,
		path:       "/register",
		body:       in,
		defaultMsg: msgRegisterFailed,
	})
}

// ── Company details ───────────────────────────────────────────────────────────

type companyEnvelope struct {
	CompanyDetails *domain.CompanyDetails `json:"companyDetails"`
}

type userCompanyEnvelope struct {
	User struct {
		CompanyDetails *domain.CompanyDetails `json:"companyDetails" validate:"required"`
	} `json:"user"`
}

func (c *Client) GetCompanyDetails(ctx context.Context, token string) (*domain.CompanyDetails, error) {
	var env companyEnvelope
	err := c.do(ctx, call{
		op:         "get_company",
		method:     http.MethodGet,
		path:       "/me",
		token:      token,
		out:        &env,
		defaultMsg: msgGetCompanyFailed,
	})
	if err != nil {
		return nil, err
	}
	return env.CompanyDetails, nil
}

func (c *Client) PutCompanyDetails(ctx context.Context, token string, details domain.CompanyDetails) (*domain.CompanyDetails, error) {
	var env userCompanyEnvelope
	err := c.do(ctx, call{
		op:         "put_company",
		method:     http.MethodPut,
		path:       "/me/company",
		token:      token,
		body:       details,
		out:        &env,
		defaultMsg: msgPutCompanyFailed,
	})
	if err != nil {
		return nil, err
	}
	return env.User.CompanyDetails, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

type clientEnvelope struct {
	Client *domain.Client `json:"client" validate:"required"`
}

type clientsEnvelope struct {
	Clients []domain.Client `json:"clients" validate:"dive"`
	Total   int64           `json:"total"`
}

type clientBody struct {
	Client domain.ClientInfo `json:"client"`
}

func (c *Client) ListClients(ctx context.Context, token string, params domain.ListParams) ([]domain.Client, int64, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	if params.OrderBy != "" {
		q.Set("sortBy", params.OrderBy)
		if params.Order != "" {
			q.Set("sort", params.Order)
		}
	}

	var env clientsEnvelope
	err := c.do(ctx, call{
		op:         "list_clients",
		method:     http.MethodGet,
		path:       "/clients",
		query:      q,
		token:      token,
		out:        &env,
		defaultMsg: msgClientsFailed,
	})
	if err != nil {
		return nil, 0, err
	}
	total := env.Total
	if total == 0 {
		total = int64(len(env.Clients))
	}
	return env.Clients, total, nil
}

func (c *Client) GetClient(ctx context.Context, token, id string) (*domain.Client, error) {
	var env clientEnvelope
	err := c.do(ctx, call{
		op:         "get_client",
		method:     http.MethodGet,
		path:       "/clients/" + url.PathEscape(id),
		token:      token,
		out:        &env,
		defaultMsg: msgClientFailed,
	})
	if err != nil {
		return nil, err
	}
	return env.Client, nil
}

func (c *Client) CreateClient(ctx context.Context, token string, client domain.ClientInfo) (*domain.Client, error) {
	return c.saveClient(ctx, "create_client", http.MethodPost, "/clients", token, client)
}

func (c *Client) UpdateClient(ctx context.Context, token, id string, client domain.ClientInfo) (*domain.Client, error) {
	return c.saveClient(ctx, "update_client", http.MethodPut, "/clients/"+url.PathEscape(id), token, client)
}

func (c *Client) saveClient(ctx context.Context, op, method, path, token string, client domain.ClientInfo) (*domain.Client, error) {
	var env clientEnvelope
	err := c.do(ctx, call{
		op:         op,
		method:     method,
		path:       path,
		token:      token,
		body:       clientBody{Client: client},
		out:        &env,
		defaultMsg: msgSaveClientFailed,
	})
	if err != nil {
		return nil, err
	}
	return env.Client, nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type invoiceEnvelope struct {
	Invoice *domain.Invoice `json:"invoice" validate:"required"`
}

type invoicesEnvelope struct {
	Invoices []domain.InvoiceWithClient `json:"invoices" validate:"dive"`
	Total    int64                      `json:"total"`
}

type invoiceBody struct {
	Invoice domain.InvoiceInfo `json:"invoice"`
}

// ListInvoices pages with limit/offset; Filter restricts the listing to one client.
func (c *Client) ListInvoices(ctx context.Context, token string, params domain.ListParams) ([]domain.InvoiceWithClient, int64, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("offset", strconv.Itoa((params.Page-1)*params.Limit))
	if params.Filter != "" {
		q.Set("filter", params.Filter)
	}
	if params.OrderBy != "" {
		q.Set("orderBy", params.OrderBy)
		if params.Order != "" {
			q.Set("order", params.Order)
		}
	}

	var env invoicesEnvelope
	err := c.do(ctx, call{
		op:         "list_invoices",
		method:     http.MethodGet,
		path:       "/invoices",
		query:      q,
		token:      token,
		out:        &env,
		defaultMsg: msgInvoicesFailed,
	})
	if err != nil {
		return nil, 0, err
	}
	return env.Invoices, env.Total, nil
}

func (c *Client) GetInvoice(ctx context.Context, token, id string) (*domain.Invoice, error) {
	var env invoiceEnvelope
	err := c.do(ctx, call{
		op:         "get_invoice",
		method:     http.MethodGet,
		path:       "/invoices/" + url.PathEscape(id),
		token:      token,
		out:        &env,
		defaultMsg: msgInvoiceFailed,
	})
	if err != nil {
		return nil, err
	}
	return env.Invoice, nil
}

func (c *Client) CreateInvoice(ctx context.Context, token string, invoice domain.InvoiceInfo) (*domain.Invoice, error) {
	return c.saveInvoice(ctx, "create_invoice", http.MethodPost, "/invoices", token, invoice)
}

func (c *Client) UpdateInvoice(ctx context.Context, token, id string, invoice domain.InvoiceInfo) (*domain.Invoice, error) {
	return c.saveInvoice(ctx, "update_invoice", http.MethodPut, "/invoices/"+url.PathEscape(id), token, invoice)
}

func (c *Client) saveInvoice(ctx context.Context, op, method, path, token string, invoice domain.InvoiceInfo) (*domain.Invoice, error) {
	var env invoiceEnvelope
	err := c.do(ctx, call{
		op:         op,
		method:     method,
		path:       path,
		token:      token,
		body:       invoiceBody{Invoice: invoice},
		out:        &env,
		defaultMsg: msgSaveInvoiceFail,
	})
	if err != nil {
		return nil, err
	}
	return env.Invoice, nil
}

// ── Transport ─────────────────────────────────────────────────────────────────

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
	// out receives the decoded 2xx body and is validated afterwards. A nil
	// out discards the body.
	out        any
	defaultMsg string
	// authFailure, when set, builds the error for every non-2xx response
	// instead of a ServerError.
	authFailure func(msg string) error
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.BackendRequestsTotal.WithLabelValues(cl.op, outcome).Inc()
		metrics.BackendRequestDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	}()

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		outcome = "transport_error"
		return err
	}
	reqID := req.Header.Get(requestIDHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		c.log.Warn().Err(err).Str("op", cl.op).Str("request_id", reqID).Msg("backend unreachable")
		return &domain.ServerError{Message: msgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "transport_error"
		return &domain.ServerError{Status: resp.StatusCode, Message: msgUnreachable, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = cl.defaultMsg
		}
		c.log.Debug().
			Str("op", cl.op).
			Str("request_id", reqID).
			Int("status", resp.StatusCode).
			Msg("backend rejected request")
		if cl.authFailure != nil {
			outcome = "auth_error"
			return cl.authFailure(msg)
		}
		outcome = "server_error"
		return &domain.ServerError{Status: resp.StatusCode, Message: msg}
	}

	if cl.out == nil {
		return nil
	}
	if err := c.decode(data, cl.out); err != nil {
		outcome = "server_error"
		c.log.Warn().Err(err).Str("op", cl.op).Str("request_id", reqID).Msg("backend response rejected")
		return &domain.ServerError{Status: resp.StatusCode, Message: msgBadResponse, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", cl.op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", cl.op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if cl.token != "" {
		req.Header.Set(tokenHeader, cl.token)
	}
	return req, nil
}

// decode parses a 2xx body into out and checks it carries the fields the
// record requires. An empty body leaves out at its zero value.
func (c *Client) decode(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	if err := validation.Struct(c.validate, out); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("response field %s", ve.Error())
		}
		return err
	}
	return nil
}
