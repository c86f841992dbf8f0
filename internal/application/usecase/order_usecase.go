package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/pkg/logger"
)

// Plantilla fija del aviso de preparación del pedido.
const (
	FulfilmentSubject = "Provider began to fulfill your order!"
	FulfilmentBody    = "Your order has begun to be fulfilled.\nprovider will contact you shortly."
)

// OrderUseCase creación, listado y avisos de pedidos.
type OrderUseCase struct {
	repo     repository.OrderRepository
	userRepo repository.UserRepository
	txRunner ports.TxRunner
	mailer   ports.Mailer
	receipts ports.ReceiptGenerator
	mailFrom string
	log      *logger.Logger
}

// NewOrderUseCase construye el caso de uso. mailFrom es el remitente de los avisos.
func NewOrderUseCase(
	repo repository.OrderRepository,
	userRepo repository.UserRepository,
	txRunner ports.TxRunner,
	mailer ports.Mailer,
	receipts ports.ReceiptGenerator,
	mailFrom string,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		repo:     repo,
		userRepo: userRepo,
		txRunner: txRunner,
		mailer:   mailer,
		receipts: receipts,
		mailFrom: mailFrom,
		log:      log,
	}
}

// Create crea el pedido y sus líneas en una transacción. Cualquier línea inválida deshace todo.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	order := &entity.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Comment:   in.Comment,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, line := range in.Products {
			product, err := repos.Products.GetByID(ctx, line.ID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NewValidationError("products", fmt.Sprintf("Product with id %s does not exist", line.ID))
			}
			if !product.OpenForSale {
				return domain.NewValidationError("products", fmt.Sprintf("Product with id %s is not open for sale", line.ID))
			}
			err = repos.Orders.AddLine(ctx, &entity.OrderLine{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
			})
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.NewValidationError("products", fmt.Sprintf("Product with id %s is duplicated in this order", line.ID))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("pedido %s no encontrado tras crear", order.ID)
	}
	uc.log.Info().Str("order_id", saved.ID).Str("user_id", userID).Int("lines", len(saved.Lines)).Msg("pedido creado")
	return toOrderResponse(saved), nil
}

// List pedidos visibles para el actor: el proveedor ve los que contienen algún producto suyo,
// el resto ve los propios.
func (uc *OrderUseCase) List(ctx context.Context, actor *access.Actor, limit, offset int) (*dto.OrderListResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	var (
		orders []*entity.Order
		err    error
	)
	if actor.IsProvider() {
		orders, err = uc.repo.ListByProvider(ctx, actor.UserID, limit, offset)
	} else {
		orders, err = uc.repo.ListByUser(ctx, actor.UserID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// NotifyFulfilment envía al comprador el aviso de que el proveedor empezó a preparar el pedido.
// Solo un proveedor con algún producto en el pedido puede hacerlo.
func (uc *OrderUseCase) NotifyFulfilment(ctx context.Context, actor *access.Actor, orderID string) error {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	policy := access.All(access.ProviderOrReadOnly, access.OwnerOrReadOnly(order.ProviderIDs()...))
	if err := policy(http.MethodPost, actor).Err(); err != nil {
		return err
	}
	purchaser, err := uc.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	if purchaser == nil {
		return domain.ErrUserNotFound
	}
	msg := ports.Message{
		From:    uc.mailFrom,
		To:      []string{purchaser.Email},
		Subject: FulfilmentSubject,
		Body:    FulfilmentBody,
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).Str("order_id", order.ID).Msg("fallo enviando aviso de pedido")
		return fmt.Errorf("enviar aviso de pedido: %w", err)
	}
	uc.log.Info().Str("order_id", order.ID).Str("provider_id", actor.UserID).Msg("aviso de pedido enviado")
	return nil
}

// Receipt genera el PDF del pedido para el comprador o un proveedor con productos en él.
func (uc *OrderUseCase) Receipt(ctx context.Context, actor *access.Actor, orderID string) ([]byte, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.UserID != actor.UserID && !order.HasProvider(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	return uc.receipts.GenerateOrderReceipt(ctx, order)
}
