package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.CharacteristicRepository = (*CharacteristicRepo)(nil)

// CharacteristicRepo implementación del puerto CharacteristicRepository sobre PostgreSQL.
type CharacteristicRepo struct {
	q Querier
}

// NewCharacteristicRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCharacteristicRepository(q Querier) *CharacteristicRepo {
	return &CharacteristicRepo{q: q}
}

// GetOrCreate inserta la característica si no existe y devuelve la fila vigente.
// El UPDATE no-op del ON CONFLICT hace que RETURNING devuelva también la fila existente.
func (r *CharacteristicRepo) GetOrCreate(ctx context.Context, name string) (*entity.Characteristic, error) {
	var ch entity.Characteristic
	err := r.q.QueryRow(ctx, `
		INSERT INTO characteristics (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`, uuid.New().String(), name).Scan(&ch.ID, &ch.Name)
	if err != nil {
		return nil, fmt.Errorf("get or create characteristic: %w", err)
	}
	return &ch, nil
}

// GetByName obtiene una característica por nombre.
func (r *CharacteristicRepo) GetByName(ctx context.Context, name string) (*entity.Characteristic, error) {
	var ch entity.Characteristic
	err := r.q.QueryRow(ctx, `SELECT id, name FROM characteristics WHERE name = $1`, name).Scan(&ch.ID, &ch.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get characteristic: %w", err)
	}
	return &ch, nil
}
