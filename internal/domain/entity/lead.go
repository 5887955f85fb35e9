package entity

// Estados reconocidos de Lead. El campo es texto libre; estos son los valores que usa el motor.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusFollowup    = "followup"
	LeadStatusInvoiceSent = "invoice_sent"
	LeadStatusPaid        = "paid"
	LeadStatusScheduled   = "scheduled"
	LeadStatusDelivered   = "delivered"
	LeadStatusArchived    = "archived"
)

// Lead prospecto comercial. Se convierte en Client en el primer pago o entrega agendada.
type Lead struct {
	ID              string  `json:"id"`
	CreatedAt       string  `json:"created_at"`
	Status          string  `json:"status"`
	BusinessName    string  `json:"business_name"`
	BusinessPhone   string  `json:"business_phone"`
	BusinessAddress string  `json:"business_address"`
	AssignedTo      string  `json:"assigned_to"` // User ID o vacío
	RepName         string  `json:"rep_name"`
	RepPhone        string  `json:"rep_phone"`
	RepEmail        string  `json:"rep_email"`
	RepAddress      string  `json:"rep_address"`
	Notes           string  `json:"notes"`
	LastTouchAt     string  `json:"last_touch_at"`
	History         History `json:"history"`
}

// HasRepContact indica si el lead tiene nombre, teléfono y email del representante.
func (l *Lead) HasRepContact() bool {
	return l.RepName != "" && l.RepPhone != "" && l.RepEmail != ""
}
