package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// UserFilter filtros del listado de usuarios. Role vacío = todos.
type UserFilter struct {
	Role entity.Role
}

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, error)
}
