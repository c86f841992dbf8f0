package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	// Create devuelve domain.ErrDuplicate si el nombre ya existe.
	Create(ctx context.Context, category *entity.Category) error
	// AddCharacteristic asocia la característica; repetir la asociación no hace nada.
	AddCharacteristic(ctx context.Context, categoryID, characteristicID string) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
}
