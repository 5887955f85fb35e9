package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/importer"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// ImportHandler importación de prospectos desde xlsx/csv.
type ImportHandler struct {
	queue commandSubmitter
	log   *logger.Logger
}

// NewImportHandler construye el handler de importación.
func NewImportHandler(queue commandSubmitter, log *logger.Logger) *ImportHandler {
	return &ImportHandler{queue: queue, log: log.Component("http.import")}
}

// ImportLeads godoc
// @Summary      Importar prospectos
// @Description  Lee el archivo (campo "file") y envía un import_leads_batch por cada 250 filas.
// @Tags         leads
// @Accept       mpfd
// @Produce      json
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads/import [post]
func (h *ImportHandler) ImportLeads(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	rows, err := importer.ParseLeads(fh.Filename, f)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFile) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_FILE", Message: err.Error()})
		}
		h.log.Warn().Err(err).Str("file", fh.Filename).Msg("archivo de prospectos ilegible")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "archivo ilegible"})
	}

	leads := importer.MapAll(rows)
	actor := GetUserID(c)
	resp := dto.ImportResponse{Rows: len(leads), Batches: []dto.CommandResponse{}}
	for _, batch := range importer.Batches(leads) {
		out, err := h.queue.Submit(c.UserContext(), actor, batch)
		if err != nil {
			h.log.Error().Err(err).Msg("encolar lote de importación")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
		}
		resp.Batches = append(resp.Batches, dto.CommandResponse{OK: out.OK, Message: out.Message})
	}
	h.log.Info().Str("file", fh.Filename).Int("rows", resp.Rows).Int("batches", len(resp.Batches)).Msg("importación de prospectos")
	return c.JSON(resp)
}
