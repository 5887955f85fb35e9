package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/pricing"
)

// ── Órdenes ───────────────────────────────────────────────────────────────────

func (d *Dispatcher) createOrder(s *session, c command.CreateOrder) (string, error) {
	lead, ok := s.leads.get(c.LeadID)
	if !ok {
		return "", domain.ErrLeadNotFound
	}
	peach, cherry := c.PeachCases.IntOr(0), c.CherryCases.IntOr(0)
	if !entity.ValidCases(peach, cherry) {
		return "", domain.ErrMinCases
	}

	id := s.nextID(PrefixOrder, s.orders.ids())
	order := pricing.Recalc(entity.Order{
		ID:        id,
		LeadID:    lead.ID,
		CreatedAt: s.now,
		Items:     entity.NewOrderItems(peach, cherry),
		Status:    entity.OrderStatusDraft,
		CreatedBy: s.actor,
	}, s.settings)
	s.orders.put(id, &order)

	lead.History.Append(s.now, s.actor, "order_create", id)
	s.leads.touch()
	return id, nil
}

func (d *Dispatcher) updateOrderFields(s *session, c command.UpdateOrderFields) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	f := c.Fields
	if f.PeachCases != nil || f.CherryCases != nil {
		if len(o.Items) < 2 {
			return "", domain.ErrBadCases
		}
		peach, err := casesOr(f.PeachCases, o.Items[0].Cases)
		if err != nil {
			return "", err
		}
		cherry, err := casesOr(f.CherryCases, o.Items[1].Cases)
		if err != nil {
			return "", err
		}
		if !entity.ValidCases(peach, cherry) {
			return "", domain.ErrMinCases
		}
		o.Items[0].Cases = peach
		o.Items[1].Cases = cherry
	}
	setTrimmed(&o.DeliveryDate, f.DeliveryDate)
	setTrimmed(&o.DeliveryTime, f.DeliveryTime)

	*o = pricing.Recalc(*o, s.settings)
	o.History.Append(s.now, s.actor, "update", strings.Join(f.Names(), ","))
	s.orders.touch()
	return "order updated", nil
}

// casesOr una cantidad vacía o ausente conserva la actual.
func casesOr(n *command.Number, current int) (int, error) {
	if n == nil || n.Empty() {
		return current, nil
	}
	v, err := n.Int()
	if err != nil {
		return 0, domain.ErrBadCases
	}
	return v, nil
}

func (d *Dispatcher) archiveOrder(s *session, c command.ArchiveOrder) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	o.Status = entity.OrderStatusArchived
	o.History.Append(s.now, s.actor, "archive", "")
	s.orders.touch()
	return "order archived", nil
}

func (d *Dispatcher) markDelivered(s *session, c command.MarkDelivered) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	o.Status = entity.OrderStatusDelivered
	s.orders.touch()
	return "delivered", nil
}

// ── Pago, entrega y clientes ──────────────────────────────────────────────────

func (d *Dispatcher) markOrderPaid(s *session, c command.MarkOrderPaid) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	o.Status = entity.OrderStatusPaid
	if lead, ok := s.leads.get(o.LeadID); ok {
		lead.Status = entity.LeadStatusPaid
		lead.History.Append(s.now, s.actor, "paid", o.ID)
		s.leads.touch()
		ensureClient(s, o, lead)
	}
	*o = pricing.Recalc(*o, s.settings)
	s.orders.touch()

	s.notify(entity.NotificationOrderPaid, o.ID+" marked as paid", "/order?id="+o.ID)
	return "paid", nil
}

func (d *Dispatcher) scheduleDelivery(s *session, c command.ScheduleDelivery) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	if o.Status != entity.OrderStatusPaid {
		return "", domain.ErrMustBePaidFirst
	}
	lead, ok := s.leads.get(o.LeadID)
	if !ok {
		return "", domain.ErrLeadMissing
	}
	date, at := strings.TrimSpace(c.Date), strings.TrimSpace(c.Time)

	o.Status = entity.OrderStatusScheduled
	o.DeliveryDate = date
	o.DeliveryTime = at
	s.orders.touch()

	lead.Status = entity.LeadStatusScheduled
	lead.History.Append(s.now, s.actor, "scheduled", fmt.Sprintf("%s %s %s", o.ID, date, at))
	s.leads.touch()

	clientID := ensureClient(s, o, lead)

	eid := s.nextID(PrefixEvent, s.calendar.ids())
	s.calendar.put(eid, &entity.CalendarEvent{
		ID:          eid,
		Type:        entity.EventTypeDelivery,
		Title:       "Delivery - " + lead.BusinessName,
		Date:        date,
		Time:        at,
		DurationMin: entity.DefaultEventDuration,
		CreatedBy:   s.actor,
		VisibleTo:   visibleTo(entity.RoleAdmin, s.actor, entity.RoleDelivery),
		Related:     entity.EventRelated{OrderID: o.ID, LeadID: lead.ID, ClientID: clientID},
		CreatedAt:   s.now,
	})

	s.notify(entity.NotificationDeliveryScheduled, fmt.Sprintf("%s scheduled for %s %s", o.ID, date, at), "/order?id="+o.ID)
	return "scheduled", nil
}

// ensureClient crea el cliente a partir del lead solo si la orden aún no tiene uno.
func ensureClient(s *session, o *entity.Order, lead *entity.Lead) string {
	if o.ClientID != "" {
		return o.ClientID
	}
	id := s.nextID(PrefixClient, s.clients.ids())
	cl := entity.NewClientFromLead(id, s.now, lead)
	cl.History.Append(s.now, s.actor, "create_from_lead", lead.ID)
	s.clients.put(id, cl)
	o.ClientID = id
	s.orders.touch()
	return id
}

func (d *Dispatcher) archiveClient(s *session, c command.ArchiveClient) (string, error) {
	cl, ok := s.clients.get(c.ClientID)
	if !ok {
		return "", domain.ErrClientNotFound
	}
	cl.Archived = true
	cl.History.Append(s.now, s.actor, "archive", "")
	s.clients.touch()
	return "client archived", nil
}

// ── Documentos ────────────────────────────────────────────────────────────────

func (d *Dispatcher) generateInvoicePDF(ctx context.Context, s *session, c command.GenerateInvoicePDF) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	lead, ok := s.leads.get(o.LeadID)
	if !ok {
		return "", domain.ErrLeadMissing
	}
	if !lead.HasRepContact() {
		return "", domain.ErrMissingRepFields
	}

	id := s.nextID(PrefixInvoice, s.invoices.ids())
	inv := entity.Invoice{
		ID:          id,
		OrderID:     o.ID,
		CreatedAt:   s.now,
		Status:      entity.InvoiceStatusGenerated,
		PDFPath:     "docs/invoices/" + id + ".pdf",
		BillToEmail: lead.RepEmail,
	}
	path, err := d.renderer.RenderInvoice(ctx, inv, *o, *lead, s.settings)
	if err != nil {
		d.log.Error().Err(err).Str("invoice", id).Msg("no se pudo generar la factura")
		return "", domain.ErrDocumentRenderFailed
	}
	inv.PDFPath = path
	s.invoices.put(id, &inv)

	o.Status = entity.OrderStatusInvoiced
	s.orders.touch()
	return id, nil
}

func (d *Dispatcher) generateOrderPDF(ctx context.Context, s *session, c command.GenerateOrderPDF) (string, error) {
	o, ok := s.orders.get(c.OrderID)
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	if !o.IsPrintable() {
		return "", domain.ErrNotScheduled
	}
	var lead entity.Lead
	if l, ok := s.leads.get(o.LeadID); ok {
		lead = *l
	}
	path, err := d.renderer.RenderPickList(ctx, *o, lead, s.settings)
	if err != nil {
		d.log.Error().Err(err).Str("order", o.ID).Msg("no se pudo generar la hoja de preparación")
		return "", domain.ErrDocumentRenderFailed
	}
	o.Printed = true
	s.orders.touch()
	return path, nil
}
