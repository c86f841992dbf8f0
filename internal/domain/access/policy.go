// Package access reúne los predicados de autorización por petición.
//
// Cada predicado recibe el método HTTP y el actor (nil si la petición es anónima) y devuelve
// una Decision etiquetada. All los compone con AND: gana la primera denegación.
package access

import (
	"net/http"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// MsgOnlyProvider mensaje fijo cuando un no-proveedor intenta publicar.
const MsgOnlyProvider = "Only provider can add products"

// Outcome resultado de evaluar un predicado.
type Outcome int

const (
	Allow Outcome = iota
	DenyUnauthenticated
	DenyForbidden
)

// Decision resultado etiquetado con mensaje opcional para el cliente.
type Decision struct {
	Outcome Outcome
	Message string
}

// Allowed indica si la petición puede continuar.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Actor identidad autenticada de la petición.
type Actor struct {
	UserID string
	Role   entity.Role
	Staff  bool
}

// IsProvider indica si el actor tiene rol proveedor.
func (a *Actor) IsProvider() bool { return a != nil && a.Role == entity.RoleProvider }

// Predicate función de autorización.
type Predicate func(method string, actor *Actor) Decision

var (
	allowed         = Decision{Outcome: Allow}
	unauthenticated = Decision{Outcome: DenyUnauthenticated, Message: "Authentication credentials were not provided."}
	forbidden       = Decision{Outcome: DenyForbidden, Message: "You do not have permission to perform this action."}
)

// IsSafeMethod GET, HEAD y OPTIONS no modifican estado.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAuthenticated exige actor para cualquier método.
func IsAuthenticated(_ string, actor *Actor) Decision {
	if actor == nil {
		return unauthenticated
	}
	return allowed
}

// AuthenticatedOrReadOnly lectura libre; escritura con actor.
func AuthenticatedOrReadOnly(method string, actor *Actor) Decision {
	if IsSafeMethod(method) {
		return allowed
	}
	return IsAuthenticated(method, actor)
}

// ProviderOrReadOnly lectura libre; escritura solo para proveedores.
func ProviderOrReadOnly(method string, actor *Actor) Decision {
	if IsSafeMethod(method) {
		return allowed
	}
	if actor == nil {
		return unauthenticated
	}
	if !actor.IsProvider() {
		return Decision{Outcome: DenyForbidden, Message: MsgOnlyProvider}
	}
	return allowed
}

// AdminOrReadOnly lectura libre; escritura solo para staff.
func AdminOrReadOnly(method string, actor *Actor) Decision {
	if IsSafeMethod(method) {
		return allowed
	}
	if actor == nil {
		return unauthenticated
	}
	if !actor.Staff {
		return forbidden
	}
	return allowed
}

// OwnerOrReadOnly predicado a nivel de objeto: escritura solo si el actor es uno de los dueños.
func OwnerOrReadOnly(ownerIDs ...string) Predicate {
	return func(method string, actor *Actor) Decision {
		if IsSafeMethod(method) {
			return allowed
		}
		if actor == nil {
			return unauthenticated
		}
		for _, id := range ownerIDs {
			if id != "" && id == actor.UserID {
				return allowed
			}
		}
		return forbidden
	}
}

// All compone predicados con AND.
func All(preds ...Predicate) Predicate {
	return func(method string, actor *Actor) Decision {
		for _, p := range preds {
			if d := p(method, actor); !d.Allowed() {
				return d
			}
		}
		return allowed
	}
}

// DeniedError error que transporta la decisión negativa hasta la capa HTTP.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string { return e.Decision.Message }

// Unwrap permite errors.Is(err, domain.ErrUnauthorized / domain.ErrForbidden).
func (e *DeniedError) Unwrap() error {
	if e.Decision.Outcome == DenyUnauthenticated {
		return domain.ErrUnauthorized
	}
	return domain.ErrForbidden
}

// Err devuelve nil si la decisión permite, o *DeniedError si no.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return &DeniedError{Decision: d}
}

// Forbidden decisión negativa genérica (403).
func Forbidden() Decision { return forbidden }
