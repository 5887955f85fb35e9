package entity

// Tipos de notificación emitidos por el motor.
const (
	NotificationNewLead           = "new_lead"
	NotificationNewLeads          = "new_leads"
	NotificationOrderPaid         = "order_paid"
	NotificationDeliveryScheduled = "delivery_scheduled"
	NotificationEventCreated      = "event_created"
)

// Notification aviso para un rol, con enlace opcional.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	ForRole   string `json:"for_role"`
	Read      bool   `json:"read"`
	OpenURL   string `json:"open_url"`
}
