package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// LeadHandler acciones compuestas sobre prospectos.
type LeadHandler struct {
	queue commandSubmitter
	log   *logger.Logger
}

// NewLeadHandler construye el handler de prospectos.
func NewLeadHandler(queue commandSubmitter, log *logger.Logger) *LeadHandler {
	return &LeadHandler{queue: queue, log: log.Component("http.leads")}
}

// ArchiveLeads godoc
// @Summary      Archivar prospectos en bloque
// @Description  Envía un archive_lead por prospecto y cuenta los que se archivaron.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ArchiveLeadsRequest  true  "lead_ids"
// @Success      200   {object}  dto.CommandResponse
// @Router       /api/leads/archive [post]
func (h *LeadHandler) ArchiveLeads(c *fiber.Ctx) error {
	var in dto.ArchiveLeadsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetUserID(c)
	archived := 0
	for _, id := range in.LeadIDs {
		out, err := h.queue.Submit(c.UserContext(), actor, command.ArchiveLead{LeadID: id})
		if err != nil {
			h.log.Error().Err(err).Str("lead", id).Msg("encolar archive_lead")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
		}
		if out.OK {
			archived++
		}
	}
	return c.JSON(dto.CommandResponse{OK: true, Message: fmt.Sprintf("archived %d", archived)})
}
