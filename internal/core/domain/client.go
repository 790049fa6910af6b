package domain

// Client is a customer of the logged-in user that invoices are issued to.
type Client struct {
	ID             string         `json:"id"     validate:"required"`
	UserID         string         `json:"user_id"`
	Name           string         `json:"name"   validate:"required"`
	Email          string         `json:"email"`
	CompanyDetails CompanyDetails `json:"companyDetails" validate:"-"`
	TotalBilled    float64        `json:"totalBilled"`
	InvoicesCount  int            `json:"invoicesCount"`
}

// ClientInfo is the editable part of a client.
type ClientInfo struct {
	Name           string         `json:"name"           validate:"required"`
	Email          string         `json:"email"          validate:"required,email"`
	CompanyDetails CompanyDetails `json:"companyDetails"`
}
