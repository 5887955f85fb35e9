package engine

import (
	"fmt"
	"strings"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

func (d *Dispatcher) newLead(s *session, name, phone, address, assignedTo, action string) *entity.Lead {
	id := s.nextID(PrefixLead, s.leads.ids())
	l := &entity.Lead{
		ID:              id,
		CreatedAt:       s.now,
		Status:          entity.LeadStatusNew,
		BusinessName:    strings.TrimSpace(name),
		BusinessPhone:   strings.TrimSpace(phone),
		BusinessAddress: strings.TrimSpace(address),
		AssignedTo:      strings.TrimSpace(assignedTo),
		History:         entity.History{},
	}
	l.History.Append(s.now, s.actor, action, "")
	s.leads.put(id, l)
	return l
}

func (d *Dispatcher) importLeadsBatch(s *session, c command.ImportLeadsBatch) (string, error) {
	for _, r := range c.Rows {
		d.newLead(s, r.BusinessName, r.BusinessPhone, r.BusinessAddress, "", "import")
	}
	added := len(c.Rows)
	if added > 0 {
		s.notify(entity.NotificationNewLeads, fmt.Sprintf("%d new leads imported", added), "/admin?tab=leads")
	}
	return fmt.Sprintf("imported %d", added), nil
}

func (d *Dispatcher) createLead(s *session, c command.CreateLead) (string, error) {
	l := d.newLead(s, c.BusinessName, c.BusinessPhone, c.BusinessAddress, c.AssignedTo, "create")
	s.notify(entity.NotificationNewLead, fmt.Sprintf("Lead %s created", l.ID), "/lead?id="+l.ID)
	return "lead created", nil
}

// deleteLeads borra en cascada: órdenes del lead, facturas de esas órdenes y eventos que
// apuntan a cualquiera de ellas o al lead. IDs inexistentes se ignoran.
func (d *Dispatcher) deleteLeads(s *session, c command.DeleteLeads) (string, error) {
	var leads, orders, invoices, events int
	for _, lid := range c.LeadIDs {
		if _, ok := s.leads.get(lid); !ok {
			continue
		}
		s.leads.remove(lid)
		leads++

		deleted := map[string]bool{}
		for _, oid := range s.orders.ids() {
			if s.orders.rows[oid].LeadID == lid {
				s.orders.remove(oid)
				deleted[oid] = true
				orders++
			}
		}
		for _, iid := range s.invoices.ids() {
			if deleted[s.invoices.rows[iid].OrderID] {
				s.invoices.remove(iid)
				invoices++
			}
		}
		for _, eid := range s.calendar.ids() {
			if s.calendar.rows[eid].References(lid, deleted) {
				s.calendar.remove(eid)
				events++
			}
		}
	}
	return fmt.Sprintf("deleted %d leads (%d orders, %d invoices, %d events)", leads, orders, invoices, events), nil
}

func (d *Dispatcher) assignLead(s *session, c command.AssignLead) (string, error) {
	l, ok := s.leads.get(c.LeadID)
	if _, user := s.users.get(c.UserID); !ok || !user {
		return "", domain.ErrBadLeadOrUser
	}
	assign(s, l, c.UserID)
	return "assigned", nil
}

func (d *Dispatcher) assignLeadsBulk(s *session, c command.AssignLeadsBulk) (string, error) {
	if _, ok := s.users.get(c.UserID); !ok {
		return "", domain.ErrBadUser
	}
	n := 0
	for _, lid := range c.LeadIDs {
		if l, ok := s.leads.get(lid); ok {
			assign(s, l, c.UserID)
			n++
		}
	}
	return fmt.Sprintf("assigned %d", n), nil
}

func assign(s *session, l *entity.Lead, userID string) {
	l.AssignedTo = userID
	l.History.Append(s.now, s.actor, "assign", "to "+userID)
	s.leads.touch()
}

func (d *Dispatcher) updateLeadFields(s *session, c command.UpdateLeadFields) (string, error) {
	l, ok := s.leads.get(c.LeadID)
	if !ok {
		return "", domain.ErrLeadNotFound
	}
	f := c.Fields
	setTrimmed(&l.RepName, f.RepName)
	setTrimmed(&l.RepPhone, f.RepPhone)
	setTrimmed(&l.RepEmail, f.RepEmail)
	setTrimmed(&l.RepAddress, f.RepAddress)
	setTrimmed(&l.Notes, f.Notes)
	setTrimmed(&l.Status, f.Status)
	setTrimmed(&l.LastTouchAt, f.LastTouchAt)
	l.History.Append(s.now, s.actor, "update", strings.Join(f.Names(), ","))
	s.leads.touch()
	return "updated", nil
}

func (d *Dispatcher) archiveLead(s *session, c command.ArchiveLead) (string, error) {
	l, ok := s.leads.get(c.LeadID)
	if !ok {
		return "", domain.ErrLeadNotFound
	}
	l.Status = entity.LeadStatusArchived
	l.History.Append(s.now, s.actor, "archive", "")
	s.leads.touch()
	return "archived", nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
