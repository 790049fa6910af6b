package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL.String())
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Empty(t, r.Header.Get("x-access-token"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		_, _ = io.WriteString(w, `{"user_id":"u1","email":"a@b.com","name":"Alice","token":"tok1"}`)
	})

	user, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{UserID: "u1", Email: "a@b.com", Name: "Alice", Token: "tok1"}, user)
}

func TestLogin_RejectedPassesBodyThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "Invalid password")
	})

	_, err := c.Login(context.Background(), "a@b.com", "nope")

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid password", authErr.Message)
}

func TestLogin_RejectedWithEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Login(context.Background(), "a@b.com", "nope")

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Could not login with these credentials.", authErr.Message)
}

func TestLogin_MissingTokenIsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user_id":"u1","email":"a@b.com"}`)
	})

	_, err := c.Login(context.Background(), "a@b.com", "secret")

	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusOK, srvErr.Status)
	assert.Equal(t, msgBadResponse, srvErr.Message)
	assert.Contains(t, srvErr.Err.Error(), "token")
}

func TestLogin_MalformedJSONIsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user_id":`)
	})

	_, err := c.Login(context.Background(), "a@b.com", "secret")

	var srvErr *domain.ServerError
	assert.ErrorAs(t, err, &srvErr)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "created", status: http.StatusCreated},
		{name: "conflict with message", status: http.StatusConflict, body: "User already exists", wantErr: "User already exists"},
		{name: "failure without body", status: http.StatusInternalServerError, wantErr: "Could not create user."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/register", r.URL.Path)
				var in ports.RegisterInput
				require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, "Alice", in.Name)
				assert.Equal(t, "secret1", in.ConfirmPassword)

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.Register(context.Background(), ports.RegisterInput{
				Name: "Alice", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1",
			})

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var srvErr *domain.ServerError
			require.ErrorAs(t, err, &srvErr)
			assert.Equal(t, tt.status, srvErr.Status)
			assert.Equal(t, tt.wantErr, srvErr.Message)
		})
	}
}

func TestGetCompanyDetails(t *testing.T) {
	t.Run("onboarded", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/me", r.URL.Path)
			assert.Equal(t, "tok1", r.Header.Get("x-access-token"))
			_, _ = io.WriteString(w, `{"companyDetails":{"name":"Acme","address":"1 Road","vatNumber":"VAT1","regNumber":"REG1"}}`)
		})

		details, err := c.GetCompanyDetails(context.Background(), "tok1")
		require.NoError(t, err)
		assert.Equal(t, &domain.CompanyDetails{Name: "Acme", Address: "1 Road", VATNumber: "VAT1", RegNumber: "REG1"}, details)
	})

	t.Run("not onboarded", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"companyDetails":null}`)
		})

		details, err := c.GetCompanyDetails(context.Background(), "tok1")
		require.NoError(t, err)
		assert.Nil(t, details)
	})

	t.Run("partial record", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"companyDetails":{"name":"Acme"}}`)
		})

		_, err := c.GetCompanyDetails(context.Background(), "tok1")
		var srvErr *domain.ServerError
		assert.ErrorAs(t, err, &srvErr)
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.GetCompanyDetails(context.Background(), "tok1")
		var srvErr *domain.ServerError
		require.ErrorAs(t, err, &srvErr)
		assert.Equal(t, http.StatusUnauthorized, srvErr.Status)
		assert.Equal(t, "Could not fetch company details.", srvErr.Message)
	})
}

func TestPutCompanyDetails(t *testing.T) {
	acme := domain.CompanyDetails{Name: "Acme", Address: "1 Road", VATNumber: "VAT1", RegNumber: "REG1"}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/me/company", r.URL.Path)
		assert.Equal(t, "tok1", r.Header.Get("x-access-token"))

		var got domain.CompanyDetails
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, acme, got)

		_, _ = io.WriteString(w, `{"user":{"companyDetails":{"name":"Acme","address":"1 Road","vatNumber":"VAT1","regNumber":"REG1"}}}`)
	})

	details, err := c.PutCompanyDetails(context.Background(), "tok1", acme)
	require.NoError(t, err)
	assert.Equal(t, &acme, details)
}

func TestPutCompanyDetails_MissingRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user":{}}`)
	})

	_, err := c.PutCompanyDetails(context.Background(), "tok1", domain.CompanyDetails{})
	var srvErr *domain.ServerError
	assert.ErrorAs(t, err, &srvErr)
}

func TestListClients_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "name", q.Get("sortBy"))
		assert.Equal(t, "desc", q.Get("sort"))
		_, _ = io.WriteString(w, `{"clients":[{"id":"c1","name":"Globex"},{"id":"c2","name":"Initech"}]}`)
	})

	clients, total, err := c.ListClients(context.Background(), "tok1", domain.ListParams{
		Page: 2, Limit: 10, OrderBy: "name", Order: "desc",
	})
	require.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Initech", clients[1].Name)
}

func TestListClients_RejectsIncompleteItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"clients":[{"id":"c1"}],"total":1}`)
	})

	_, _, err := c.ListClients(context.Background(), "tok1", domain.ListParams{Page: 1, Limit: 10})
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Contains(t, srvErr.Err.Error(), "name")
}

func TestCreateClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/clients", r.URL.Path)

		var body struct {
			Client domain.ClientInfo `json:"client"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Globex", body.Client.Name)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"client":{"id":"c1","user_id":"u1","name":"Globex","email":"g@x.com"}}`)
	})

	client, err := c.CreateClient(context.Background(), "tok1", domain.ClientInfo{Name: "Globex", Email: "g@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "c1", client.ID)
}

func TestUpdateClient_EscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/clients/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"client":{"id":"a/b","name":"Globex"}}`)
	})

	client, err := c.UpdateClient(context.Background(), "tok1", "a/b", domain.ClientInfo{Name: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "a/b", client.ID)
}

func TestGetClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients/c9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Client not found")
	})

	_, err := c.GetClient(context.Background(), "tok1", "c9")
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusNotFound, srvErr.Status)
	assert.Equal(t, "Client not found", srvErr.Message)
}

func TestListInvoices_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoices", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "20", q.Get("offset"))
		assert.Equal(t, "c1", q.Get("filter"))
		assert.Equal(t, "dueDate", q.Get("orderBy"))
		assert.Equal(t, "asc", q.Get("order"))
		_, _ = io.WriteString(w, `{"invoices":[{"invoice":{"id":"i1","invoice_number":"INV-1","value":150},"client":{"id":"c1","name":"Globex"}}],"total":21}`)
	})

	items, total, err := c.ListInvoices(context.Background(), "tok1", domain.ListParams{
		Page: 3, Limit: 10, OrderBy: "dueDate", Order: "asc", Filter: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, items, 1)
	assert.Equal(t, "INV-1", items[0].Invoice.InvoiceNumber)
	assert.Equal(t, "Globex", items[0].Client.Name)
}

func TestListInvoices_NoOrderWithoutOrderBy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("order"))
		assert.False(t, q.Has("filter"))
		assert.Equal(t, "0", q.Get("offset"))
		_, _ = io.WriteString(w, `{"invoices":[],"total":0}`)
	})

	items, total, err := c.ListInvoices(context.Background(), "tok1", domain.ListParams{Page: 1, Limit: 10, Order: "asc"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestCreateInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body struct {
			Invoice domain.InvoiceInfo `json:"invoice"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body.Invoice.ClientID)
		assert.Equal(t, 150.0, body.Invoice.Value)

		_, _ = io.WriteString(w, `{"invoice":{"id":"i1","invoice_number":"INV-1","client_id":"c1","value":150}}`)
	})

	inv, err := c.CreateInvoice(context.Background(), "tok1", domain.InvoiceInfo{
		InvoiceNumber: "INV-1", ClientID: "c1", Value: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", inv.ID)
}

func TestGetInvoice_MissingEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoices/i1", r.URL.Path)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.GetInvoice(context.Background(), "tok1", "i1")
	var srvErr *domain.ServerError
	assert.ErrorAs(t, err, &srvErr)
}

func TestUpdateInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/invoices/i1", r.URL.Path)
		_, _ = io.WriteString(w, `{"invoice":{"id":"i1","invoice_number":"INV-2"}}`)
	})

	inv, err := c.UpdateInvoice(context.Background(), "tok1", "i1", domain.InvoiceInfo{InvoiceNumber: "INV-2"})
	require.NoError(t, err)
	assert.Equal(t, "INV-2", inv.InvoiceNumber)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.GetCompanyDetails(context.Background(), "tok1")
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Zero(t, srvErr.Status)
	assert.Equal(t, msgUnreachable, srvErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetClient(ctx, "tok1", "c1")
	assert.ErrorIs(t, err, context.Canceled)
}
