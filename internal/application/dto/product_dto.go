package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El proveedor lo fija el servidor.
type CreateProductRequest struct {
	Name            string                       `json:"name" validate:"required,max=255"`
	Price           *decimal.Decimal             `json:"price" validate:"required"`
	OpenForSale     *bool                        `json:"open_for_sale"`
	CategoryID      string                       `json:"category_id" validate:"required"`
	Characteristics []ProductCharacteristicInput `json:"characteristics" validate:"omitempty,dive"`
}

// ProductCharacteristicInput valor de una característica para el producto.
type ProductCharacteristicInput struct {
	Name  string `json:"name" validate:"required,min=3,max=255"`
	Value string `json:"value" validate:"required,max=255"`
}

// ProductCharacteristicResponse salida de una característica con su valor.
type ProductCharacteristicResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string                          `json:"id"`
	Name            string                          `json:"name"`
	Price           decimal.Decimal                 `json:"price"`
	OpenForSale     bool                            `json:"open_for_sale"`
	Provider        string                          `json:"provider"`
	ProviderID      string                          `json:"provider_id"`
	Category        string                          `json:"category"`
	CategoryID      string                          `json:"category_id"`
	Characteristics []ProductCharacteristicResponse `json:"characteristics"`
	CreatedAt       time.Time                       `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
