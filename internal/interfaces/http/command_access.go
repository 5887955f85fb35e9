package http

import (
	"context"
	"errors"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/policy"
)

// resourceReader lecturas necesarias para evaluar permisos. Lo implementa *engine.Reader.
type resourceReader interface {
	Lead(ctx context.Context, id string) (*entity.Lead, error)
	Order(ctx context.Context, id string) (*entity.Order, error)
}

// deliveryCommands comandos que puede enviar un usuario de reparto.
var deliveryCommands = map[string]bool{
	command.NameMarkDelivered: true,
	command.NameCreateEvent:   true,
}

// authorizeCommand evalúa permisos antes de encolar y ajusta el comando al rol del actor.
// Devuelve domain.ErrForbidden si el actor no puede enviarlo. Los comandos sobre un lead u
// orden exigen que el recurso exista y sea visible para el actor, también para admin.
func authorizeCommand(ctx context.Context, rr resourceReader, u *entity.User, cmd command.Command) (command.Command, error) {
	if _, unknown := cmd.(command.Unknown); unknown {
		return cmd, nil
	}
	if !u.IsAdmin() {
		if policy.AdminOnly(cmd.Name()) || cmd.Name() == command.NameImportLeadsBatch {
			return nil, domain.ErrForbidden
		}
		if u.Role == entity.RoleDelivery && !deliveryCommands[cmd.Name()] {
			return nil, domain.ErrForbidden
		}
	}

	switch c := cmd.(type) {
	case command.CreateLead:
		if !u.IsAdmin() {
			c.AssignedTo = u.ID
		}
		return c, nil
	case command.CreateEvent:
		if !u.IsAdmin() {
			c.AssignTo = ""
		}
		return c, nil
	case command.UpdateLeadFields:
		return c, checkLead(ctx, rr, u, c.LeadID)
	case command.CreateOrder:
		return c, checkLead(ctx, rr, u, c.LeadID)
	case command.UpdateOrderFields:
		return c, checkOrder(ctx, rr, u, c.OrderID)
	case command.GenerateInvoicePDF:
		return c, checkOrder(ctx, rr, u, c.OrderID)
	case command.MarkOrderPaid:
		return c, checkOrder(ctx, rr, u, c.OrderID)
	case command.ScheduleDelivery:
		return c, checkOrder(ctx, rr, u, c.OrderID)
	case command.MarkDelivered:
		return c, checkOrder(ctx, rr, u, c.OrderID)
	}
	return cmd, nil
}

func checkLead(ctx context.Context, rr resourceReader, u *entity.User, id string) error {
	l, err := rr.Lead(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if !policy.CanEditLead(u, l) {
		return domain.ErrForbidden
	}
	return nil
}

func checkOrder(ctx context.Context, rr resourceReader, u *entity.User, id string) error {
	o, err := rr.Order(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if !policy.CanViewOrder(u, o) {
		return domain.ErrForbidden
	}
	return nil
}
