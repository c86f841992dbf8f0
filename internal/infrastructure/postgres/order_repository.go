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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (id, user_id, comment, created_at) VALUES ($1, $2, $3, $4)`,
		order.ID, order.UserID, order.Comment, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// AddLine agrega un producto al pedido. Producto repetido -> ErrDuplicate.
func (r *OrderRepo) AddLine(ctx context.Context, line *entity.OrderLine) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO order_products (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
		line.OrderID, line.ProductID, line.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT o.id, o.user_id, o.comment, o.created_at, u.username
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, id).Scan(&o.ID, &o.UserID, &o.Comment, &o.CreatedAt, &o.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser pedidos del comprador, más recientes primero.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	lim, off := pageArgs(limit, offset)
	return r.list(ctx, `
		SELECT o.id, o.user_id, o.comment, o.created_at, u.username
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id LIMIT $2 OFFSET $3`, userID, lim, off)
}

// ListByProvider pedidos con algún producto del proveedor; cada pedido aparece una sola vez.
func (r *OrderRepo) ListByProvider(ctx context.Context, providerID string, limit, offset int) ([]*entity.Order, error) {
	lim, off := pageArgs(limit, offset)
	return r.list(ctx, `
		SELECT o.id, o.user_id, o.comment, o.created_at, u.username
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE EXISTS (
			SELECT 1 FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND p.provider_id = $1
		)
		ORDER BY o.created_at DESC, o.id LIMIT $2 OFFSET $3`, providerID, lim, off)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Comment, &o.CreatedAt, &o.Username); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Lines = []entity.OrderLine{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT op.order_id, op.product_id, op.quantity, p.name, p.price, p.provider_id
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = ANY($1)
		ORDER BY p.name`, ids)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.ProductName, &l.Price, &l.ProviderID); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	return rows.Err()
}
