package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido de un usuario. Inmutable después de crearse.
type Order struct {
	ID        string
	UserID    string
	Comment   string
	CreatedAt time.Time
	Lines     []OrderLine

	// Resuelto por el repositorio al leer.
	Username string
}

// OrderLine línea de pedido; (OrderID, ProductID) es único.
type OrderLine struct {
	OrderID   string
	ProductID string
	Quantity  int

	// Datos del producto resueltos al leer.
	ProductName string
	Price       decimal.Decimal
	ProviderID  string
}

// ProviderIDs devuelve los proveedores distintos de los productos del pedido.
func (o *Order) ProviderIDs() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	out := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.ProviderID]; ok || l.ProviderID == "" {
			continue
		}
		seen[l.ProviderID] = struct{}{}
		out = append(out, l.ProviderID)
	}
	return out
}

// HasProvider indica si alguna línea pertenece a providerID.
func (o *Order) HasProvider(providerID string) bool {
	for _, l := range o.Lines {
		if l.ProviderID == providerID {
			return true
		}
	}
	return false
}

// Total suma precio × cantidad de todas las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
