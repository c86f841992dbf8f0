package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto publicado por un proveedor.
// El par (Name, ProviderID) es único.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	OpenForSale bool
	CategoryID  string
	ProviderID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Campos de lectura resueltos por el repositorio.
	CategoryName     string
	ProviderUsername string
	Characteristics  []ProductCharacteristic
}

// ProductCharacteristic es el valor de una característica para un producto (ej. color = rojo).
type ProductCharacteristic struct {
	ProductID        string
	CharacteristicID string
	Name             string
	Value            string
}

// FilterOpenForSale devuelve solo los productos disponibles para la venta.
func FilterOpenForSale(products []*Product) []*Product {
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.OpenForSale {
			out = append(out, p)
		}
	}
	return out
}
