// Package command define los comandos del motor como variante etiquetada: un tipo por
// nombre de comando, cada uno con su payload tipado, más el sobre (Envelope) con que se
// persisten en la cola.
package command

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Nombres de comando (valor de "cmd" en el sobre).
const (
	NameUpdateSettings     = "update_settings"
	NameCreateEmployee     = "create_employee"
	NameDisableUser        = "disable_user"
	NameResetPassword      = "reset_password"
	NameImportLeadsBatch   = "import_leads_batch"
	NameCreateLead         = "create_lead"
	NameDeleteLeads        = "delete_leads"
	NameAssignLead         = "assign_lead"
	NameAssignLeadsBulk    = "assign_leads_bulk"
	NameUpdateLeadFields   = "update_lead_fields"
	NameArchiveLead        = "archive_lead"
	NameCreateOrder        = "create_order"
	NameUpdateOrderFields  = "update_order_fields"
	NameArchiveOrder       = "archive_order"
	NameArchiveClient      = "archive_client"
	NameCreateEvent        = "create_event"
	NameArchiveEvent       = "archive_event"
	NameGenerateInvoicePDF = "generate_invoice_pdf"
	NameMarkOrderPaid      = "mark_order_paid"
	NameScheduleDelivery   = "schedule_delivery"
	NameGenerateOrderPDF   = "generate_order_pdf"
	NameMarkDelivered      = "mark_delivered"
)

// Command es cualquier comando del motor.
type Command interface {
	Name() string
}

// ── Settings / Users ──────────────────────────────────────────────────────────

// UpdateSettings mezcla los campos no vacíos sobre la configuración actual.
type UpdateSettings struct {
	CompanyName  string `json:"company_name"`
	CompanyEmail string `json:"company_email"`
	Currency     string `json:"currency"`
	PricePerCase Number `json:"price_per_case"`
	GSTRate      Number `json:"gst_rate"`
	QSTRate      Number `json:"qst_rate"`
}

type CreateEmployee struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type DisableUser struct {
	UserID string `json:"user_id"`
}

type ResetPassword struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// ── Leads ─────────────────────────────────────────────────────────────────────

// LeadRow fila ya mapeada por el importador.
type LeadRow struct {
	BusinessName    string `json:"business_name"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
}

type ImportLeadsBatch struct {
	Rows []LeadRow `json:"rows"`
}

type CreateLead struct {
	BusinessName    string `json:"business_name"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
	AssignedTo      string `json:"assigned_to"`
}

type DeleteLeads struct {
	LeadIDs []string `json:"lead_ids"`
}

type AssignLead struct {
	LeadID string `json:"lead_id"`
	UserID string `json:"user_id"`
}

type AssignLeadsBulk struct {
	LeadIDs []string `json:"lead_ids"`
	UserID  string   `json:"user_id"`
}

// LeadFields campos editables de un lead; nil significa "no enviado".
type LeadFields struct {
	RepName     *string `json:"rep_name,omitempty"`
	RepPhone    *string `json:"rep_phone,omitempty"`
	RepEmail    *string `json:"rep_email,omitempty"`
	RepAddress  *string `json:"rep_address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Status      *string `json:"status,omitempty"`
	LastTouchAt *string `json:"last_touch_at,omitempty"`
}

// Names nombres JSON de los campos enviados, ordenados.
func (f LeadFields) Names() []string {
	return presentNames(map[string]bool{
		"rep_name":      f.RepName != nil,
		"rep_phone":     f.RepPhone != nil,
		"rep_email":     f.RepEmail != nil,
		"rep_address":   f.RepAddress != nil,
		"notes":         f.Notes != nil,
		"status":        f.Status != nil,
		"last_touch_at": f.LastTouchAt != nil,
	})
}

type UpdateLeadFields struct {
	LeadID string     `json:"lead_id"`
	Fields LeadFields `json:"fields"`
}

type ArchiveLead struct {
	LeadID string `json:"lead_id"`
}

// ── Orders / Clients ──────────────────────────────────────────────────────────

type CreateOrder struct {
	LeadID      string `json:"lead_id"`
	PeachCases  Number `json:"peach_cases"`
	CherryCases Number `json:"cherry_cases"`
}

// OrderFields campos editables de una orden; nil significa "no enviado".
// Una cantidad enviada vacía conserva la actual.
type OrderFields struct {
	PeachCases   *Number `json:"peach_cases,omitempty"`
	CherryCases  *Number `json:"cherry_cases,omitempty"`
	DeliveryDate *string `json:"delivery_date,omitempty"`
	DeliveryTime *string `json:"delivery_time,omitempty"`
}

// Names nombres JSON de los campos enviados, ordenados.
func (f OrderFields) Names() []string {
	return presentNames(map[string]bool{
		"peach_cases":   f.PeachCases != nil,
		"cherry_cases":  f.CherryCases != nil,
		"delivery_date": f.DeliveryDate != nil,
		"delivery_time": f.DeliveryTime != nil,
	})
}

type UpdateOrderFields struct {
	OrderID string      `json:"order_id"`
	Fields  OrderFields `json:"fields"`
}

type ArchiveOrder struct {
	OrderID string `json:"order_id"`
}

type ArchiveClient struct {
	ClientID string `json:"client_id"`
}

type GenerateInvoicePDF struct {
	OrderID string `json:"order_id"`
}

type MarkOrderPaid struct {
	OrderID string `json:"order_id"`
}

type ScheduleDelivery struct {
	OrderID string `json:"order_id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type GenerateOrderPDF struct {
	OrderID string `json:"order_id"`
}

type MarkDelivered struct {
	OrderID string `json:"order_id"`
}

// ── Calendar ──────────────────────────────────────────────────────────────────

type CreateEvent struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Duration Number `json:"duration"`
	Notes    string `json:"notes"`
	AssignTo string `json:"assign_to,omitempty"`
}

type ArchiveEvent struct {
	EventID string `json:"event_id"`
}

// Unknown comando cuyo nombre no está registrado. El dispatcher lo rechaza.
type Unknown struct {
	Cmd string
}

func (c UpdateSettings) Name() string     { return NameUpdateSettings }
func (c CreateEmployee) Name() string     { return NameCreateEmployee }
func (c DisableUser) Name() string        { return NameDisableUser }
func (c ResetPassword) Name() string      { return NameResetPassword }
func (c ImportLeadsBatch) Name() string   { return NameImportLeadsBatch }
func (c CreateLead) Name() string         { return NameCreateLead }
func (c DeleteLeads) Name() string        { return NameDeleteLeads }
func (c AssignLead) Name() string         { return NameAssignLead }
func (c AssignLeadsBulk) Name() string    { return NameAssignLeadsBulk }
func (c UpdateLeadFields) Name() string   { return NameUpdateLeadFields }
func (c ArchiveLead) Name() string        { return NameArchiveLead }
func (c CreateOrder) Name() string        { return NameCreateOrder }
func (c UpdateOrderFields) Name() string  { return NameUpdateOrderFields }
func (c ArchiveOrder) Name() string       { return NameArchiveOrder }
func (c ArchiveClient) Name() string      { return NameArchiveClient }
func (c GenerateInvoicePDF) Name() string { return NameGenerateInvoicePDF }
func (c MarkOrderPaid) Name() string      { return NameMarkOrderPaid }
func (c ScheduleDelivery) Name() string   { return NameScheduleDelivery }
func (c GenerateOrderPDF) Name() string   { return NameGenerateOrderPDF }
func (c MarkDelivered) Name() string      { return NameMarkDelivered }
func (c CreateEvent) Name() string        { return NameCreateEvent }
func (c ArchiveEvent) Name() string       { return NameArchiveEvent }
func (c Unknown) Name() string            { return c.Cmd }

// ── Registro ──────────────────────────────────────────────────────────────────

type decoder func(raw json.RawMessage) (Command, error)

var registry = map[string]decoder{
	NameUpdateSettings:     decodeAs[UpdateSettings],
	NameCreateEmployee:     decodeAs[CreateEmployee],
	NameDisableUser:        decodeAs[DisableUser],
	NameResetPassword:      decodeAs[ResetPassword],
	NameImportLeadsBatch:   decodeAs[ImportLeadsBatch],
	NameCreateLead:         decodeAs[CreateLead],
	NameDeleteLeads:        decodeAs[DeleteLeads],
	NameAssignLead:         decodeAs[AssignLead],
	NameAssignLeadsBulk:    decodeAs[AssignLeadsBulk],
	NameUpdateLeadFields:   decodeAs[UpdateLeadFields],
	NameArchiveLead:        decodeAs[ArchiveLead],
	NameCreateOrder:        decodeAs[CreateOrder],
	NameUpdateOrderFields:  decodeAs[UpdateOrderFields],
	NameArchiveOrder:       decodeAs[ArchiveOrder],
	NameArchiveClient:      decodeAs[ArchiveClient],
	NameGenerateInvoicePDF: decodeAs[GenerateInvoicePDF],
	NameMarkOrderPaid:      decodeAs[MarkOrderPaid],
	NameScheduleDelivery:   decodeAs[ScheduleDelivery],
	NameGenerateOrderPDF:   decodeAs[GenerateOrderPDF],
	NameMarkDelivered:      decodeAs[MarkDelivered],
	NameCreateEvent:        decodeAs[CreateEvent],
	NameArchiveEvent:       decodeAs[ArchiveEvent],
}

// Decode convierte nombre + payload JSON en el comando tipado. Un nombre desconocido
// produce Unknown sin error; un payload que no encaja en el tipo produce error.
func Decode(name string, payload json.RawMessage) (Command, error) {
	dec, ok := registry[name]
	if !ok {
		return Unknown{Cmd: name}, nil
	}
	cmd, err := dec(payload)
	if err != nil {
		return nil, fmt.Errorf("payload de %s: %w", name, err)
	}
	return cmd, nil
}

func decodeAs[T Command](raw json.RawMessage) (Command, error) {
	var c T
	if len(raw) == 0 || string(raw) == "null" {
		return c, nil
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func presentNames(present map[string]bool) []string {
	names := make([]string, 0, len(present))
	for k, ok := range present {
		if ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
