package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// CharacteristicRepository define el puerto de persistencia para Characteristic.
type CharacteristicRepository interface {
	// GetOrCreate devuelve la característica con ese nombre, creándola si no existe.
	GetOrCreate(ctx context.Context, name string) (*entity.Characteristic, error)
	GetByName(ctx context.Context, name string) (*entity.Characteristic, error)
}
