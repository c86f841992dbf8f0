package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	OnlyOpenForSale bool
	ProviderID      string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas resuelven CategoryName, ProviderUsername y Characteristics.
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si el proveedor ya tiene un producto con ese nombre.
	Create(ctx context.Context, product *entity.Product) error
	AddCharacteristic(ctx context.Context, pc *entity.ProductCharacteristic) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByProviderAndName(ctx context.Context, providerID, name string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
}
