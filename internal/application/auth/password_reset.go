package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/pkg/jwt"
)

// Mensajes del flujo de restablecimiento.
const (
	MsgEmailNotProvided = "Email not provided"
	MsgEmailNotFound    = "User with this email does not exist"
	ResetMailSubject    = "Password reset"
)

// TokenError el token de reset no pasó la verificación de firma o expiración.
type TokenError struct {
	Message string
}

func (e *TokenError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *TokenError) Unwrap() error { return domain.ErrInvalidInput }

// PasswordFingerprint huella SHA-256 (hex) del hash bcrypt guardado.
// Viaja en el token en lugar del hash; cambia en cuanto cambia la contraseña.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:])
}

// RequestPasswordReset emite un token de un solo uso y lo envía por correo.
// Devuelve *domain.ValidationError si falta el email y domain.ErrUserNotFound si no existe.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequest) error {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return domain.NewValidationError("email", MsgEmailNotProvided)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	now := time.Now()
	record := &entity.PasswordResetToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Duration(uc.resetCfg.TTLMinutes) * time.Minute),
		CreatedAt: now,
	}
	token, err := jwt.GenerateReset(uc.resetCfg.Secret, record.ID, user.Email, PasswordFingerprint(user.PasswordHash), record.ExpiresAt)
	if err != nil {
		return err
	}
	if err := uc.resetRepo.Create(ctx, record); err != nil {
		return err
	}

	msg := ports.Message{
		From:    uc.resetCfg.From,
		To:      []string{user.Email},
		Subject: ResetMailSubject,
		Body:    resetMailBody(token, uc.resetCfg.Path, uc.resetCfg.TTLMinutes),
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("fallo enviando correo de reset")
		return fmt.Errorf("enviar correo de reset: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("token_id", record.ID).Msg("correo de reset enviado")
	return nil
}

// ConfirmPasswordReset cambia la contraseña si el token es válido, vigente y no se usó.
// El cambio de contraseña y la marca de uso del token van en la misma transacción.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, token string, in dto.PasswordResetConfirmRequest) error {
	claims, err := jwt.ParseReset(uc.resetCfg.Secret, token)
	if err != nil {
		return &TokenError{Message: err.Error()}
	}
	user, err := uc.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if claims.PasswordHash != PasswordFingerprint(user.PasswordHash) {
		return domain.ErrTokenUsed
	}
	if err := dto.Validate(in); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		record, err := repos.ResetTokens.GetByID(ctx, claims.ID)
		if err != nil {
			return err
		}
		if record == nil || record.Used() || record.UserID != user.ID {
			return domain.ErrTokenUsed
		}
		if err := repos.Users.UpdatePassword(ctx, user.ID, string(hash), now); err != nil {
			return err
		}
		return repos.ResetTokens.MarkUsed(ctx, record.ID, now)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Str("token_id", claims.ID).Msg("contraseña restablecida")
	return nil
}

func resetMailBody(token, path string, ttlMinutes int) string {
	var b strings.Builder
	b.WriteString("You requested a password reset.\n\n")
	b.WriteString("Your token: " + token + "\n\n")
	b.WriteString("Send a PATCH request to " + path + " with the header\n")
	b.WriteString("Authorization: Bearer <token>\n")
	b.WriteString("params needed: new_password\n\n")
	b.WriteString(fmt.Sprintf("The token is valid for %s and is one time use only.\n", ttlText(ttlMinutes)))
	return b.String()
}

func ttlText(minutes int) string {
	if minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
