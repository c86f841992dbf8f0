package entity

import "time"

// PasswordResetToken registro de un token de restablecimiento emitido (jti).
// UsedAt != nil invalida el token aunque la firma siga vigente.
type PasswordResetToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Used indica si el token ya se consumió.
func (t *PasswordResetToken) Used() bool {
	return t.UsedAt != nil
}
