package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineInput línea de pedido: id del producto y cantidad.
type OrderLineInput struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear un pedido. El comprador lo fija el servidor.
type CreateOrderRequest struct {
	Comment  string           `json:"comment"`
	Products []OrderLineInput `json:"products" validate:"required,min=1,dive"`
}

// OrderLineResponse línea de pedido con los datos del producto.
type OrderLineResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID        string              `json:"id"`
	User      string              `json:"user"`
	Comment   string              `json:"comment"`
	CreatedAt time.Time           `json:"created_at"`
	Products  []OrderLineResponse `json:"products"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
