package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-api/pkg/logger"
)

type failingMailer struct{ calls int }

func (m *failingMailer) Send(context.Context, ports.Message) error {
	m.calls++
	return errors.New("smtp caído")
}

type stubReceipts struct{}

func (stubReceipts) GenerateOrderReceipt(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF " + o.ID), nil
}

func seedUser(t *testing.T, repos ports.Repositories, name string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{ID: uuid.New().String(), Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role, CreatedAt: time.Now()}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func newOrderScenario(t *testing.T, mailer ports.Mailer) (*usecase.OrderUseCase, ports.Repositories, *entity.User, *entity.User, string) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	provider := seedUser(t, repos, "acme", entity.RoleProvider)
	customer := seedUser(t, repos, "bob", entity.RoleCustomer)

	cat := &entity.Category{ID: uuid.New().String(), Name: "Phones", CreatedAt: time.Now()}
	require.NoError(t, repos.Categories.Create(ctx, cat))
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Phone", Price: decimal.NewFromInt(10), OpenForSale: true,
		CategoryID: cat.ID, ProviderID: provider.ID, CreatedAt: time.Now(),
	}
	require.NoError(t, repos.Products.Create(ctx, p))

	uc := usecase.NewOrderUseCase(repos.Orders, repos.Users, memory.NewTxRunner(store), mailer, stubReceipts{}, "orders@retail.test", logger.Nop())
	return uc, repos, provider, customer, p.ID
}

func TestNotifyFulfilment_ErrorDeCorreoSePropaga(t *testing.T) {
	mailer := &failingMailer{}
	uc, _, provider, customer, productID := newOrderScenario(t, mailer)
	ctx := context.Background()

	order, err := uc.Create(ctx, customer.ID, dto.CreateOrderRequest{Products: []dto.OrderLineInput{{ID: productID, Quantity: 1}}})
	require.NoError(t, err)

	err = uc.NotifyFulfilment(ctx, &access.Actor{UserID: provider.ID, Role: entity.RoleProvider}, order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp caído")
	assert.Equal(t, 1, mailer.calls, "sin reintentos")
}

func TestNotifyFulfilment_AnonimoNoAutenticado(t *testing.T) {
	uc, _, _, customer, productID := newOrderScenario(t, &failingMailer{})
	ctx := context.Background()
	order, err := uc.Create(ctx, customer.ID, dto.CreateOrderRequest{Products: []dto.OrderLineInput{{ID: productID, Quantity: 1}}})
	require.NoError(t, err)

	err = uc.NotifyFulfilment(ctx, nil, order.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOrderCreate_TotalYLineas(t *testing.T) {
	uc, _, _, customer, productID := newOrderScenario(t, &failingMailer{})
	order, err := uc.Create(context.Background(), customer.ID, dto.CreateOrderRequest{
		Comment:  "gracias",
		Products: []dto.OrderLineInput{{ID: productID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, order.Products, 1)
	assert.Equal(t, "Phone", order.Products[0].Name)
	assert.True(t, decimal.NewFromInt(10).Equal(order.Products[0].Price))
	assert.Equal(t, 3, order.Products[0].Quantity)
}

func TestReceipt_Acceso(t *testing.T) {
	uc, repos, provider, customer, productID := newOrderScenario(t, &failingMailer{})
	ctx := context.Background()
	stranger := seedUser(t, repos, "eve", entity.RoleCustomer)
	order, err := uc.Create(ctx, customer.ID, dto.CreateOrderRequest{Products: []dto.OrderLineInput{{ID: productID, Quantity: 1}}})
	require.NoError(t, err)

	pdf, err := uc.Receipt(ctx, &access.Actor{UserID: customer.ID, Role: entity.RoleCustomer}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF "+order.ID, string(pdf))

	_, err = uc.Receipt(ctx, &access.Actor{UserID: provider.ID, Role: entity.RoleProvider}, order.ID)
	assert.NoError(t, err)

	_, err = uc.Receipt(ctx, &access.Actor{UserID: stranger.ID, Role: entity.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Receipt(ctx, nil, order.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
