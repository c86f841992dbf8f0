package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría (sin características).
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// AddCharacteristic asocia una característica; si ya estaba asociada no hace nada.
func (r *CategoryRepo) AddCharacteristic(ctx context.Context, categoryID, characteristicID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO category_characteristics (category_id, characteristic_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, categoryID, characteristicID)
	if err != nil {
		return fmt.Errorf("link category characteristic: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría con sus características.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.findOne(ctx, `SELECT id, name, created_at FROM categories WHERE name = $1`, name)
}

// List lista categorías por nombre, con sus características.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadCharacteristics(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CategoryRepo) findOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if err := r.loadCharacteristics(ctx, []*entity.Category{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) loadCharacteristics(ctx context.Context, categories []*entity.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(categories))
	byID := make(map[string]*entity.Category, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
		byID[c.ID] = c
		c.Characteristics = []*entity.Characteristic{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT cc.category_id, ch.id, ch.name
		FROM category_characteristics cc
		JOIN characteristics ch ON ch.id = cc.characteristic_id
		WHERE cc.category_id = ANY($1)
		ORDER BY ch.name`, ids)
	if err != nil {
		return fmt.Errorf("list category characteristics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var categoryID string
		var ch entity.Characteristic
		if err := rows.Scan(&categoryID, &ch.ID, &ch.Name); err != nil {
			return fmt.Errorf("scan category characteristic: %w", err)
		}
		if c, ok := byID[categoryID]; ok {
			c.Characteristics = append(c.Characteristics, &ch)
		}
	}
	return rows.Err()
}
