package entity

// Tipos de evento conocidos.
const (
	EventTypeEvent    = "event"
	EventTypeDelivery = "delivery"
)

// Límites de duración de un evento, en minutos.
const (
	MinEventDuration     = 5
	MaxEventDuration     = 24 * 60
	DefaultEventDuration = 30
)

// EventRelated referencias no propietarias a la orden, lead y cliente de un evento.
type EventRelated struct {
	OrderID  string `json:"order_id,omitempty"`
	LeadID   string `json:"lead_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// CalendarEvent evento de calendario. VisibleTo mezcla nombres de rol e IDs de usuario.
type CalendarEvent struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	DurationMin int          `json:"duration_min"`
	Notes       string       `json:"notes"`
	CreatedBy   string       `json:"created_by"`
	VisibleTo   []string     `json:"visible_to"`
	Archived    bool         `json:"archived"`
	Related     EventRelated `json:"related"`
	CreatedAt   string       `json:"created_at"`
}

// ClampDuration ajusta minutos al rango [MinEventDuration, MaxEventDuration].
func ClampDuration(minutes int) int {
	return max(MinEventDuration, min(minutes, MaxEventDuration))
}

// References indica si el evento apunta al lead dado o a alguna de las órdenes.
func (e *CalendarEvent) References(leadID string, orderIDs map[string]bool) bool {
	return (leadID != "" && e.Related.LeadID == leadID) || (e.Related.OrderID != "" && orderIDs[e.Related.OrderID])
}
