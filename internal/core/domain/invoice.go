package domain

// Invoice is a bill issued to a client. Dates are unix milliseconds, as the
// backend stores them.
type Invoice struct {
	ID            string             `json:"id"             validate:"required"`
	UserID        string             `json:"user_id"`
	ClientID      string             `json:"client_id"`
	InvoiceNumber string             `json:"invoice_number" validate:"required"`
	Date          int64              `json:"date"`
	DueDate       int64              `json:"dueDate"`
	Value         float64            `json:"value"`
	ProjectCode   string             `json:"projectCode"`
	Meta          map[string]float64 `json:"meta,omitempty"`
}

// InvoiceInfo is the editable part of an invoice. Meta maps an item
// description to its price.
type InvoiceInfo struct {
	InvoiceNumber string             `json:"invoice_number" validate:"required"`
	ClientID      string             `json:"client_id"      validate:"required"`
	Date          int64              `json:"date"           validate:"required,gt=0"`
	DueDate       int64              `json:"dueDate"        validate:"required,gtefield=Date"`
	Value         float64            `json:"value"`
	ProjectCode   string             `json:"projectCode"    validate:"required"`
	Meta          map[string]float64 `json:"meta"           validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
}

// Total sums the item prices of an invoice.
func (i InvoiceInfo) Total() float64 {
	var total float64
	for _, price := range i.Meta {
		total += price
	}
	return total
}

// InvoiceWithClient pairs an invoice with the client it was issued to, the
// shape the invoices listing returns.
type InvoiceWithClient struct {
	Invoice Invoice `json:"invoice"`
	Client  Client  `json:"client"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListParams carries the paging and ordering of a listing. Filter narrows
// invoices down to a single client.
type ListParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	OrderBy string `json:"orderBy"`
	Order   string `json:"order"   validate:"omitempty,oneof=asc desc"`
	Filter  string `json:"filter"`
}
