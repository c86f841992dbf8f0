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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
	SELECT p.id, p.name, p.price, p.open_for_sale, p.category_id, p.provider_id, p.created_at, p.updated_at,
	       c.name, u.username
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.provider_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Nombre repetido para el mismo proveedor -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, price, open_for_sale, category_id, provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.OpenForSale, product.CategoryID, product.ProviderID,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// AddCharacteristic guarda el valor de una característica para el producto.
func (r *ProductRepo) AddCharacteristic(ctx context.Context, pc *entity.ProductCharacteristic) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO product_characteristics (product_id, characteristic_id, value) VALUES ($1, $2, $3)`,
		pc.ProductID, pc.CharacteristicID, pc.Value,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product characteristic: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con categoría, proveedor y características.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetByProviderAndName obtiene el producto del proveedor con ese nombre.
func (r *ProductRepo) GetByProviderAndName(ctx context.Context, providerID, name string) (*entity.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.provider_id = $1 AND p.name = $2`, providerID, name)
}

// List lista productos con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	lim, off := pageArgs(limit, offset)
	query := productSelect + `
		WHERE (NOT $1 OR p.open_for_sale)
		  AND ($2 = '' OR p.provider_id::text = $2)
		ORDER BY p.created_at DESC, p.id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.OnlyOpenForSale, filter.ProviderID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadCharacteristics(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadCharacteristics(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// loadCharacteristics resuelve las características de todos los productos en una sola consulta.
func (r *ProductRepo) loadCharacteristics(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Characteristics = []entity.ProductCharacteristic{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT pc.product_id, pc.characteristic_id, ch.name, pc.value
		FROM product_characteristics pc
		JOIN characteristics ch ON ch.id = pc.characteristic_id
		WHERE pc.product_id = ANY($1)
		ORDER BY ch.name`, ids)
	if err != nil {
		return fmt.Errorf("list product characteristics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc entity.ProductCharacteristic
		if err := rows.Scan(&pc.ProductID, &pc.CharacteristicID, &pc.Name, &pc.Value); err != nil {
			return fmt.Errorf("scan product characteristic: %w", err)
		}
		if p, ok := byID[pc.ProductID]; ok {
			p.Characteristics = append(p.Characteristics, pc)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.OpenForSale, &p.CategoryID, &p.ProviderID, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.ProviderUsername,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
