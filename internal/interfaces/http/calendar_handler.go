package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/policy"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// EventLister lectura del calendario. Lo implementa *engine.Reader.
type EventLister interface {
	Events(ctx context.Context) ([]entity.CalendarEvent, error)
}

// CalendarHandler calendario filtrado por visibilidad.
type CalendarHandler struct {
	events EventLister
	log    *logger.Logger
}

// NewCalendarHandler construye el handler del calendario.
func NewCalendarHandler(events EventLister, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{events: events, log: log.Component("http.calendar")}
}

// List godoc
// @Summary      Eventos visibles para el usuario
// @Tags         calendar
// @Produce      json
// @Success      200   {object}  dto.CalendarResponse
// @Router       /api/calendar [get]
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	u := GetUser(c)
	all, err := h.events.Events(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("leer calendario")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
	}
	visible := make([]entity.CalendarEvent, 0, len(all))
	for i := range all {
		if policy.CanViewEvent(u, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	return c.JSON(dto.CalendarResponse{Events: visible})
}
