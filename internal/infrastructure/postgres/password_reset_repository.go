package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.PasswordResetRepository = (*PasswordResetRepo)(nil)

// PasswordResetRepo registro de tokens de reset emitidos.
type PasswordResetRepo struct {
	q Querier
}

// NewPasswordResetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPasswordResetRepository(q Querier) *PasswordResetRepo {
	return &PasswordResetRepo{q: q}
}

// Create persiste el registro del token.
func (r *PasswordResetRepo) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`, t.ID, t.UserID, t.ExpiresAt, t.UsedAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// GetByID obtiene el registro por jti.
func (r *PasswordResetRepo) GetByID(ctx context.Context, id string) (*entity.PasswordResetToken, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var t entity.PasswordResetToken
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, expires_at, used_at, created_at FROM password_reset_tokens WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reset token: %w", err)
	}
	return &t, nil
}

// MarkUsed consume el token. Solo una llamada concurrente gana; el resto recibe ErrTokenUsed.
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE password_reset_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTokenUsed
	}
	return nil
}
