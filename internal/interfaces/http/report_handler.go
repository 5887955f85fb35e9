package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// RevenueReporter suma de órdenes por estado. Lo implementan *engine.Reader y
// *postgres.SnapshotStore.
type RevenueReporter interface {
	RevenueByStatus(ctx context.Context, status string) (decimal.Decimal, error)
}

// ReportHandler reportes para administración.
type ReportHandler struct {
	revenue RevenueReporter
	log     *logger.Logger
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(revenue RevenueReporter, log *logger.Logger) *ReportHandler {
	return &ReportHandler{revenue: revenue, log: log.Component("http.reports")}
}

// Revenue godoc
// @Summary      Ingresos por estado de orden
// @Tags         reports
// @Produce      json
// @Param        status  query  string  false  "estado de la orden (default paid)"
// @Success      200   {object}  dto.RevenueResponse
// @Router       /api/reports/revenue [get]
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	status := c.Query("status", entity.OrderStatusPaid)
	total, err := h.revenue.RevenueByStatus(c.UserContext(), status)
	if err != nil {
		h.log.Error().Err(err).Str("status", status).Msg("calcular ingresos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
	}
	return c.JSON(dto.RevenueResponse{Status: status, Total: total.StringFixed(2)})
}
