package repository

import (
	"context"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// DocumentRenderer genera documentos imprimibles. Las rutas devueltas son relativas al
// directorio de datos.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, inv entity.Invoice, order entity.Order, lead entity.Lead, s entity.Settings) (string, error)
	RenderPickList(ctx context.Context, order entity.Order, lead entity.Lead, s entity.Settings) (string, error)
}
