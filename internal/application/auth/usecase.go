package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/pkg/jwt"
	"github.com/jhoicas/retail-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ResetConfig configuración del restablecimiento de contraseña.
type ResetConfig struct {
	Secret     string
	TTLMinutes int
	Path       string // endpoint que se indica en el correo
	From       string
}

// AuthUseCase casos de uso de autenticación: login y restablecimiento de contraseña.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	txRunner  ports.TxRunner
	mailer    ports.Mailer
	jwtCfg    JWTConfig
	resetCfg  ResetConfig
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	txRunner ports.TxRunner,
	mailer ports.Mailer,
	jwtCfg JWTConfig,
	resetCfg ResetConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		txRunner:  txRunner,
		mailer:    mailer,
		jwtCfg:    jwtCfg,
		resetCfg:  resetCfg,
		log:       log,
	}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), user.IsStaff, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		IsProvider: u.IsProvider(),
	}
}
