package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/pkg/logger"
	"github.com/jhoicas/retail-api/pkg/textnorm"
)

// FieldDuplicatedProducts campo del error agregado de duplicados en un lote.
const FieldDuplicatedProducts = "duplicated products"

// feedLimit tope de productos en el feed XML público.
const feedLimit = 1000

// ProductUseCase publicación y listado de productos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     ports.TxRunner
	feed         ports.CatalogFeedBuilder
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner ports.TxRunner,
	feed ports.CatalogFeedBuilder,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, txRunner: txRunner, feed: feed, log: log}
}

// Create publica un producto del proveedor. Rechaza nombres que el proveedor ya tiene.
func (uc *ProductUseCase) Create(ctx context.Context, providerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	out, err := uc.create(ctx, providerID, []dto.CreateProductRequest{in}, false)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// CreateBatch publica varios productos de forma atómica: si un ítem falla no se guarda ninguno.
// Los nombres repetidos dentro del lote se informan todos juntos en un único error.
func (uc *ProductUseCase) CreateBatch(ctx context.Context, providerID string, in []dto.CreateProductRequest) ([]dto.ProductResponse, error) {
	return uc.create(ctx, providerID, in, true)
}

func (uc *ProductUseCase) create(ctx context.Context, providerID string, items []dto.CreateProductRequest, batch bool) ([]dto.ProductResponse, error) {
	if len(items) == 0 {
		return []dto.ProductResponse{}, nil
	}
	prefix := func(i int) string {
		if batch {
			return fmt.Sprintf("[%d].", i)
		}
		return ""
	}

	verr := &domain.ValidationError{}
	for i := range items {
		normalizeProduct(&items[i])
		dto.ValidateInto(verr, prefix(i), items[i])
		if items[i].Price != nil && items[i].Price.LessThan(decimal.Zero) {
			verr.Add(prefix(i)+"price", "Ensure this value is greater than or equal to 0.")
		}
		seen := make(map[string]bool, len(items[i].Characteristics))
		for _, ch := range items[i].Characteristics {
			if seen[ch.Name] {
				verr.Add(prefix(i)+"characteristics", fmt.Sprintf("Characteristic %s is duplicated", ch.Name))
			}
			seen[ch.Name] = true
		}
	}
	if batch {
		addBatchDuplicates(verr, items)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// Reglas que dependen del estado persistido.
	for i, item := range items {
		existing, err := uc.repo.GetByProviderAndName(ctx, providerID, item.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.Add(prefix(i)+"name", duplicateNameMessage(item.Name))
		}
		category, err := uc.categoryRepo.GetByID(ctx, item.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			verr.Add(prefix(i)+"category_id", fmt.Sprintf("Category with id %s does not exist", item.CategoryID))
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	now := time.Now()
	ids := make([]string, 0, len(items))
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		for i, item := range items {
			openForSale := true
			if item.OpenForSale != nil {
				openForSale = *item.OpenForSale
			}
			product := &entity.Product{
				ID:          uuid.New().String(),
				Name:        item.Name,
				Price:       *item.Price,
				OpenForSale: openForSale,
				CategoryID:  item.CategoryID,
				ProviderID:  providerID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repos.Products.Create(ctx, product); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return domain.NewValidationError(prefix(i)+"name", duplicateNameMessage(item.Name))
				}
				return err
			}
			for _, ch := range item.Characteristics {
				characteristic, err := repos.Characteristics.GetOrCreate(ctx, ch.Name)
				if err != nil {
					return err
				}
				if err := repos.Products.AddCharacteristic(ctx, &entity.ProductCharacteristic{
					ProductID:        product.ID,
					CharacteristicID: characteristic.ID,
					Name:             characteristic.Name,
					Value:            ch.Value,
				}); err != nil {
					return err
				}
			}
			ids = append(ids, product.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductResponse, 0, len(ids))
	for _, id := range ids {
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s no encontrado tras crear", id)
		}
		out = append(out, *toProductResponse(p))
	}
	uc.log.Info().Str("provider_id", providerID).Int("count", len(out)).Msg("productos publicados")
	return out, nil
}

// List lista productos según quién mira: anónimos y clientes solo ven los abiertos a la venta.
func (uc *ProductUseCase) List(ctx context.Context, viewerRole entity.Role, limit, offset int) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{OnlyOpenForSale: viewerRole != entity.RoleProvider}
	list, err := uc.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Feed devuelve el catálogo público (solo productos abiertos a la venta) en XML.
func (uc *ProductUseCase) Feed(ctx context.Context) ([]byte, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{OnlyOpenForSale: true}, feedLimit, 0)
	if err != nil {
		return nil, err
	}
	return uc.feed.BuildProductFeed(ctx, list, time.Now().UTC())
}

func normalizeProduct(in *dto.CreateProductRequest) {
	in.Name = textnorm.Name(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	for i := range in.Characteristics {
		in.Characteristics[i].Name = textnorm.Name(in.Characteristics[i].Name)
	}
}

// addBatchDuplicates registra los nombres repetidos del lote y marca cada ítem afectado.
func addBatchDuplicates(verr *domain.ValidationError, items []dto.CreateProductRequest) {
	positions := make(map[string][]int)
	for i, item := range items {
		if item.Name == "" {
			continue
		}
		positions[item.Name] = append(positions[item.Name], i)
	}
	var names []string
	for name, idx := range positions {
		if len(idx) > 1 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	verr.Add(FieldDuplicatedProducts, "These products are duplicated in your list: "+strings.Join(names, ", "))
	for _, name := range names {
		for _, i := range positions[name] {
			verr.Add(fmt.Sprintf("[%d].name", i), "Duplicated in this request: "+name)
		}
	}
}

func duplicateNameMessage(name string) string {
	return "You already have a product with this name - " + name
}
