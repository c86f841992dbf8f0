package entity

import (
	"strings"
	"time"
)

// Role etiqueta explícita del tipo de cuenta.
type Role string

// Roles válidos para User.
const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// ParseRole interpreta el filtro ?role= (acepta singular y plural). ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "customers":
		return RoleCustomer, true
	case "provider", "providers":
		return RoleProvider, true
	}
	return "", false
}

// RoleFromProviderFlag traduce el flag is_provider del payload a Role.
func RoleFromProviderFlag(isProvider bool) Role {
	if isProvider {
		return RoleProvider
	}
	return RoleCustomer
}

// User representa una cuenta del marketplace (cliente o proveedor).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsProvider indica si la cuenta puede publicar productos.
func (u *User) IsProvider() bool {
	return u != nil && u.Role == RoleProvider
}

// FilterByRole devuelve los usuarios con el rol indicado, conservando el orden.
func FilterByRole(users []*User, role Role) []*User {
	out := make([]*User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// Providers vista de proveedores.
func Providers(users []*User) []*User { return FilterByRole(users, RoleProvider) }

// Customers vista de clientes.
func Customers(users []*User) []*User { return FilterByRole(users, RoleCustomer) }
