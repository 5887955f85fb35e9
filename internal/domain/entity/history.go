package entity

// TimeLayout formato ISO-8601 local (sin zona) usado en todos los timestamps persistidos.
const TimeLayout = "2006-01-02T15:04:05"

// HistoryEntry registro inmutable de auditoría embebido en leads, órdenes y clientes.
type HistoryEntry struct {
	At     string `json:"at"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

// History lista de auditoría; solo crece.
type History []HistoryEntry

// Append agrega una entrada al final.
func (h *History) Append(at, actor, action, detail string) {
	*h = append(*h, HistoryEntry{At: at, Actor: actor, Action: action, Detail: detail})
}
