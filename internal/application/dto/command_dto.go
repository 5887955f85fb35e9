package dto

import (
	"encoding/json"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// CommandRequest comando enviado por la UI. El actor sale del token, nunca del cuerpo.
type CommandRequest struct {
	Cmd     string          `json:"cmd"`
	Payload json.RawMessage `json:"payload"`
}

// CommandResponse resultado del procesamiento síncrono del comando.
type CommandResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ImportResponse resultado de una importación de prospectos por lotes.
type ImportResponse struct {
	Rows    int               `json:"rows"`
	Batches []CommandResponse `json:"batches"`
}

// CalendarResponse eventos visibles para el usuario.
type CalendarResponse struct {
	Events []entity.CalendarEvent `json:"events"`
}

// RevenueResponse suma de órdenes en un estado.
type RevenueResponse struct {
	Status string `json:"status"`
	Total  string `json:"total"`
}

// ArchiveLeadsRequest archivado masivo de prospectos.
type ArchiveLeadsRequest struct {
	LeadIDs []string `json:"lead_ids"`
}
