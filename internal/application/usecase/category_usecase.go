package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/pkg/logger"
	"github.com/jhoicas/retail-api/pkg/textnorm"
)

// CategoryUseCase alta y listado de categorías con sus características.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	txRunner ports.TxRunner
	log      *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, txRunner ports.TxRunner, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, txRunner: txRunner, log: log}
}

// Create crea la categoría y asocia sus características, reutilizando las que ya existen por nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = textnorm.Name(in.Name)
	for i := range in.Characteristics {
		in.Characteristics[i].Name = textnorm.Name(in.Characteristics[i].Name)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewValidationError("name", categoryExistsMessage(in.Name))
	}

	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Categories.Create(ctx, category); err != nil {
			return err
		}
		seen := make(map[string]bool, len(in.Characteristics))
		for _, ch := range in.Characteristics {
			if seen[ch.Name] {
				continue
			}
			seen[ch.Name] = true
			characteristic, err := repos.Characteristics.GetOrCreate(ctx, ch.Name)
			if err != nil {
				return err
			}
			if err := repos.Categories.AddCharacteristic(ctx, category.ID, characteristic.ID); err != nil {
				return err
			}
			category.Characteristics = append(category.Characteristics, characteristic)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("name", categoryExistsMessage(in.Name))
		}
		return nil, err
	}
	uc.log.Info().Str("category_id", category.ID).Int("characteristics", len(category.Characteristics)).Msg("categoría creada")
	return toCategoryResponse(category), nil
}

// List lista categorías con sus características.
func (uc *CategoryUseCase) List(ctx context.Context, limit, offset int) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func categoryExistsMessage(name string) string {
	return fmt.Sprintf("Category with name %s already exists", name)
}
