package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/pkg/logger"
)

// Mensajes de unicidad devueltos al cliente.
const (
	MsgEmailExists    = "User with this email already exists"
	MsgUsernameExists = "A user with that username already exists."
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo        repository.UserRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, productRepo repository.ProductRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, productRepo: productRepo, log: log}
}

// Create registra un usuario: valida unicidad de email y username, hashea con bcrypt y persiste.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		verr.Add("email", MsgEmailExists)
	}
	existing, err = uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		verr.Add("username", MsgUsernameExists)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleFromProviderFlag(in.IsProvider),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		// Carrera entre la comprobación y el insert.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("email", MsgEmailExists)
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// List lista usuarios. role vacío devuelve todos.
func (uc *UserUseCase) List(ctx context.Context, role entity.Role, limit, offset int) (*dto.UserListResponse, error) {
	users, err := uc.repo.List(ctx, repository.UserFilter{Role: role}, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// GetDetail devuelve el usuario con todos sus productos, abiertos o no. Nil si no existe.
func (uc *UserUseCase) GetDetail(ctx context.Context, id string) (*dto.UserDetailResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	out := &dto.UserDetailResponse{UserResponse: *toUserResponse(user), Products: []dto.ProductResponse{}}
	if !user.IsProvider() {
		return out, nil
	}
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{ProviderID: user.ID}, 0, 0)
	if err != nil {
		return nil, err
	}
	out.Products = toProductResponses(products)
	return out, nil
}
