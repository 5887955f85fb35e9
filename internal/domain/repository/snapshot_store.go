package repository

import "context"

// Nombres de los almacenes persistidos. Cada uno es un documento JSON completo:
// objeto id -> registro, salvo settings (un único objeto) y counters (prefijo -> último número).
const (
	StoreUsers         = "users"
	StoreLeads         = "leads"
	StoreClients       = "clients"
	StoreOrders        = "orders"
	StoreInvoices      = "invoices"
	StoreCalendar      = "calendar"
	StoreNotifications = "notifications"
	StoreSettings      = "settings"
	StoreCounters      = "counters"
)

// SnapshotStore puerto de persistencia por documento completo (DIP).
type SnapshotStore interface {
	// Load devuelve el documento o nil si no existe. Solo falla ante errores de E/S.
	Load(ctx context.Context, name string) ([]byte, error)
	// Commit reemplaza todos los documentos del lote. Un lector nunca observa un
	// documento a medio escribir.
	Commit(ctx context.Context, docs map[string][]byte) error
}
