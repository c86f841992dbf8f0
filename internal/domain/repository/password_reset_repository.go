package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// PasswordResetRepository registro de tokens de restablecimiento emitidos.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByID(ctx context.Context, id string) (*entity.PasswordResetToken, error)
	// MarkUsed marca el token como consumido; devuelve domain.ErrTokenUsed si ya lo estaba.
	MarkUsed(ctx context.Context, id string, at time.Time) error
}
