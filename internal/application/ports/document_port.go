package ports

import (
	"context"
	"time"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// ReceiptGenerator genera la representación PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *entity.Order) ([]byte, error)
}

// CatalogFeedBuilder serializa el catálogo público a un feed XML.
type CatalogFeedBuilder interface {
	BuildProductFeed(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}
