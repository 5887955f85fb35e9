package entity

// ClientStatusActive estado inicial de un cliente convertido.
const ClientStatusActive = "active"

// Client cliente derivado de un Lead (una sola vez por orden).
type Client struct {
	ID              string  `json:"id"`
	CreatedAt       string  `json:"created_at"`
	LeadID          string  `json:"lead_id"`
	BusinessName    string  `json:"business_name"`
	BusinessPhone   string  `json:"business_phone"`
	BusinessAddress string  `json:"business_address"`
	RepName         string  `json:"rep_name"`
	RepPhone        string  `json:"rep_phone"`
	RepEmail        string  `json:"rep_email"`
	RepAddress      string  `json:"rep_address"`
	Status          string  `json:"status"`
	Archived        bool    `json:"archived"`
	History         History `json:"history,omitempty"`
}

// NewClientFromLead copia el snapshot de contacto del lead.
func NewClientFromLead(id, createdAt string, lead *Lead) *Client {
	return &Client{
		ID:              id,
		CreatedAt:       createdAt,
		LeadID:          lead.ID,
		BusinessName:    lead.BusinessName,
		BusinessPhone:   lead.BusinessPhone,
		BusinessAddress: lead.BusinessAddress,
		RepName:         lead.RepName,
		RepPhone:        lead.RepPhone,
		RepEmail:        lead.RepEmail,
		RepAddress:      lead.RepAddress,
		Status:          ClientStatusActive,
	}
}
