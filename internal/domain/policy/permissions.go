// Package policy evalúa permisos por rol y propiedad antes de encolar un comando.
// El motor de comandos no revisa roles; esta capa se consulta desde la entrada HTTP.
package policy

import (
	"slices"

	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// adminOnly comandos reservados al rol admin.
var adminOnly = map[string]struct{}{
	command.NameUpdateSettings:   {},
	command.NameCreateEmployee:   {},
	command.NameDisableUser:      {},
	command.NameResetPassword:    {},
	command.NameAssignLead:       {},
	command.NameAssignLeadsBulk:  {},
	command.NameDeleteLeads:      {},
	command.NameArchiveLead:      {},
	command.NameArchiveOrder:     {},
	command.NameArchiveClient:    {},
	command.NameArchiveEvent:     {},
	command.NameGenerateOrderPDF: {},
}

// AdminOnly indica si el comando requiere rol admin.
func AdminOnly(name string) bool {
	_, ok := adminOnly[name]
	return ok
}

// CanViewLead admin ve todo; employee solo sus leads asignados; delivery nada.
func CanViewLead(u *entity.User, l *entity.Lead) bool {
	if u == nil || l == nil {
		return false
	}
	switch u.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleEmployee:
		return l.AssignedTo == u.ID
	default:
		return false
	}
}

// CanEditLead mismas reglas que CanViewLead.
func CanEditLead(u *entity.User, l *entity.Lead) bool {
	return CanViewLead(u, l)
}

// CanViewOrder employee ve las órdenes que creó; delivery las agendadas o entregadas.
func CanViewOrder(u *entity.User, o *entity.Order) bool {
	if u == nil || o == nil {
		return false
	}
	switch u.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleEmployee:
		return o.CreatedBy == u.ID
	case entity.RoleDelivery:
		return o.Status == entity.OrderStatusScheduled || o.Status == entity.OrderStatusDelivered
	default:
		return false
	}
}

// CanViewEvent visible si el rol o el ID del usuario figura en VisibleTo.
func CanViewEvent(u *entity.User, e *entity.CalendarEvent) bool {
	if u == nil || e == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return slices.Contains(e.VisibleTo, u.Role) || slices.Contains(e.VisibleTo, u.ID)
}
