package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create persiste solo la cabecera; las líneas van por AddLine.
	Create(ctx context.Context, order *entity.Order) error
	// AddLine devuelve domain.ErrDuplicate si el producto ya está en el pedido.
	AddLine(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByUser pedidos hechos por userID.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error)
	// ListByProvider pedidos (sin repetir) con al menos un producto de providerID.
	ListByProvider(ctx context.Context, providerID string, limit, offset int) ([]*entity.Order, error)
}
