package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// MsgNoPermission respuesta ante un comando que el actor no puede enviar.
const MsgNoPermission = "no permission"

// commandSubmitter escribe el comando en la cola y lo procesa. Lo implementa *queue.Queue.
type commandSubmitter interface {
	Submit(ctx context.Context, actor string, cmd command.Command) (engine.Outcome, error)
}

// CommandHandler recibe comandos de la UI.
type CommandHandler struct {
	queue  commandSubmitter
	reader resourceReader
	log    *logger.Logger
}

// NewCommandHandler construye el handler de comandos.
func NewCommandHandler(queue commandSubmitter, reader resourceReader, log *logger.Logger) *CommandHandler {
	return &CommandHandler{queue: queue, reader: reader, log: log.Component("http.commands")}
}

// Submit godoc
// @Summary      Enviar comando
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommandRequest  true  "cmd y payload"
// @Success      200   {object}  dto.CommandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.CommandResponse
// @Router       /api/commands [post]
func (h *CommandHandler) Submit(c *fiber.Ctx) error {
	var in dto.CommandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Cmd = strings.TrimSpace(in.Cmd)
	if in.Cmd == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cmd es requerido"})
	}
	cmd, err := command.Decode(in.Cmd, in.Payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_PAYLOAD", Message: domain.ErrBadPayload.Error()})
	}
	return h.submit(c, cmd)
}

func (h *CommandHandler) submit(c *fiber.Ctx, cmd command.Command) error {
	user := GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	authorized, err := authorizeCommand(c.UserContext(), h.reader, user, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: MsgNoPermission})
		}
		h.log.Error().Err(err).Msg("evaluar permisos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
	}

	out, err := h.queue.Submit(c.UserContext(), user.ID, authorized)
	if err != nil {
		h.log.Error().Err(err).Str("cmd", cmd.Name()).Msg("encolar comando")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: engine.MsgInternalError})
	}
	status := fiber.StatusOK
	if !out.OK {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(dto.CommandResponse{OK: out.OK, Message: out.Message})
}
