package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
)

func seed(t *testing.T, repos ports.Repositories) (provider, customer *entity.User, category *entity.Category) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	provider = &entity.User{ID: "u-prov", Username: "prov", Email: "prov@example.com", Role: entity.RoleProvider, CreatedAt: now}
	customer = &entity.User{ID: "u-cust", Username: "cust", Email: "cust@example.com", Role: entity.RoleCustomer, CreatedAt: now.Add(time.Second)}
	require.NoError(t, repos.Users.Create(ctx, provider))
	require.NoError(t, repos.Users.Create(ctx, customer))
	category = &entity.Category{ID: "c-1", Name: "Phones", CreatedAt: now}
	require.NoError(t, repos.Categories.Create(ctx, category))
	return provider, customer, category
}

// ─── Usuarios ─────────────────────────────────────────────────────────────────

func TestUserRepo_EmailDuplicadoSinDistinguirMayusculas(t *testing.T) {
	repos := memory.NewStore().Repositories()
	seed(t, repos)

	err := repos.Users.Create(context.Background(), &entity.User{ID: "u-x", Username: "otro", Email: "PROV@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	u, err := repos.Users.GetByEmail(context.Background(), "Cust@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "cust", u.Username)
}

func TestUserRepo_ListFiltraPorRolYPagina(t *testing.T) {
	repos := memory.NewStore().Repositories()
	seed(t, repos)
	ctx := context.Background()

	all, err := repos.Users.List(ctx, repository.UserFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "prov", all[0].Username, "orden por fecha de alta")

	providers, err := repos.Users.List(ctx, repository.UserFilter{Role: entity.RoleProvider}, 10, 0)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "u-prov", providers[0].ID)

	paged, err := repos.Users.List(ctx, repository.UserFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "cust", paged[0].Username)

	empty, err := repos.Users.List(ctx, repository.UserFilter{}, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// ─── Productos ────────────────────────────────────────────────────────────────

func TestProductRepo_NombreUnicoPorProveedor(t *testing.T) {
	repos := memory.NewStore().Repositories()
	provider, _, category := seed(t, repos)
	ctx := context.Background()
	other := &entity.User{ID: "u-prov2", Username: "prov2", Email: "p2@example.com", Role: entity.RoleProvider}
	require.NoError(t, repos.Users.Create(ctx, other))

	p := &entity.Product{ID: "p-1", Name: "Phone", Price: decimal.NewFromInt(10), CategoryID: category.ID, ProviderID: provider.ID}
	require.NoError(t, repos.Products.Create(ctx, p))

	dup := &entity.Product{ID: "p-2", Name: "Phone", CategoryID: category.ID, ProviderID: provider.ID}
	assert.ErrorIs(t, repos.Products.Create(ctx, dup), domain.ErrDuplicate)

	sameNameOtherProvider := &entity.Product{ID: "p-3", Name: "Phone", CategoryID: category.ID, ProviderID: other.ID}
	assert.NoError(t, repos.Products.Create(ctx, sameNameOtherProvider))
}

func TestProductRepo_LecturaResuelveRelaciones(t *testing.T) {
	repos := memory.NewStore().Repositories()
	provider, _, category := seed(t, repos)
	ctx := context.Background()

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p-1", Name: "Phone", Price: decimal.RequireFromString("99.90"), OpenForSale: true,
		CategoryID: category.ID, ProviderID: provider.ID,
	}))
	color, err := repos.Characteristics.GetOrCreate(ctx, "Color")
	require.NoError(t, err)
	require.NoError(t, repos.Products.AddCharacteristic(ctx, &entity.ProductCharacteristic{ProductID: "p-1", CharacteristicID: color.ID, Value: "black"}))

	p, err := repos.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Phones", p.CategoryName)
	assert.Equal(t, "prov", p.ProviderUsername)
	require.Len(t, p.Characteristics, 1)
	assert.Equal(t, "Color", p.Characteristics[0].Name)
	assert.Equal(t, "black", p.Characteristics[0].Value)

	missing, err := repos.Products.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing, "inexistente devuelve (nil, nil)")
}

func TestProductRepo_ListSoloAbiertos(t *testing.T) {
	repos := memory.NewStore().Repositories()
	provider, _, category := seed(t, repos)
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-open", Name: "A", OpenForSale: true, CategoryID: category.ID, ProviderID: provider.ID}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-closed", Name: "B", OpenForSale: false, CategoryID: category.ID, ProviderID: provider.ID}))

	open, err := repos.Products.List(ctx, repository.ProductFilter{OnlyOpenForSale: true}, 0, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "p-open", open[0].ID)

	all, err := repos.Products.List(ctx, repository.ProductFilter{ProviderID: provider.ID}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ─── Características y categorías ─────────────────────────────────────────────

func TestCharacteristicRepo_GetOrCreateIdempotente(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()

	a, err := repos.Characteristics.GetOrCreate(ctx, "Color")
	require.NoError(t, err)
	b, err := repos.Characteristics.GetOrCreate(ctx, "Color")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestCategoryRepo_AsociacionRepetidaNoDuplica(t *testing.T) {
	repos := memory.NewStore().Repositories()
	_, _, category := seed(t, repos)
	ctx := context.Background()
	color, err := repos.Characteristics.GetOrCreate(ctx, "Color")
	require.NoError(t, err)

	require.NoError(t, repos.Categories.AddCharacteristic(ctx, category.ID, color.ID))
	require.NoError(t, repos.Categories.AddCharacteristic(ctx, category.ID, color.ID))

	c, err := repos.Categories.GetByName(ctx, "Phones")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Characteristics, 1)
}

// ─── Transacciones ────────────────────────────────────────────────────────────

func TestTxRunner_ErrorRestauraFoto(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	_, _, category := seed(t, repos)
	ctx := context.Background()
	boom := errors.New("boom")

	err := memory.NewTxRunner(store).Run(ctx, func(tx ports.Repositories) error {
		require.NoError(t, tx.Categories.Create(ctx, &entity.Category{ID: "c-2", Name: "Laptops"}))
		ch, err := tx.Characteristics.GetOrCreate(ctx, "Weight")
		require.NoError(t, err)
		require.NoError(t, tx.Categories.AddCharacteristic(ctx, category.ID, ch.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := repos.Categories.GetByName(ctx, "Laptops")
	require.NoError(t, err)
	assert.Nil(t, c, "la categoría no debe sobrevivir al rollback")
	ch, err := repos.Characteristics.GetByName(ctx, "Weight")
	require.NoError(t, err)
	assert.Nil(t, ch)
	phones, err := repos.Categories.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Empty(t, phones.Characteristics)
}

func TestTxRunner_CommitConserva(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := memory.NewTxRunner(store).Run(ctx, func(tx ports.Repositories) error {
		return tx.Categories.Create(ctx, &entity.Category{ID: "c-9", Name: "Books"})
	})
	require.NoError(t, err)

	c, err := store.Repositories().Categories.GetByID(ctx, "c-9")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Books", c.Name)
}

// ─── Pedidos y tokens ─────────────────────────────────────────────────────────

func TestOrderRepo_ListByProviderSinRepetidos(t *testing.T) {
	repos := memory.NewStore().Repositories()
	provider, customer, category := seed(t, repos)
	ctx := context.Background()
	for _, id := range []string{"p-1", "p-2"} {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: id, Name: id, OpenForSale: true, CategoryID: category.ID, ProviderID: provider.ID}))
	}
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o-1", UserID: customer.ID, CreatedAt: time.Now()}))
	require.NoError(t, repos.Orders.AddLine(ctx, &entity.OrderLine{OrderID: "o-1", ProductID: "p-1", Quantity: 1}))
	require.NoError(t, repos.Orders.AddLine(ctx, &entity.OrderLine{OrderID: "o-1", ProductID: "p-2", Quantity: 3}))
	assert.ErrorIs(t, repos.Orders.AddLine(ctx, &entity.OrderLine{OrderID: "o-1", ProductID: "p-1", Quantity: 1}), domain.ErrDuplicate)

	orders, err := repos.Orders.ListByProvider(ctx, provider.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1, "un pedido con dos productos del proveedor aparece una vez")
	assert.Equal(t, "cust", orders[0].Username)
	assert.Len(t, orders[0].Lines, 2)
	assert.Equal(t, []string{provider.ID}, orders[0].ProviderIDs())

	mine, err := repos.Orders.ListByUser(ctx, provider.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestPasswordResetRepo_MarkUsedUnaSolaVez(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.ResetTokens.Create(ctx, &entity.PasswordResetToken{ID: "jti-1", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, repos.ResetTokens.MarkUsed(ctx, "jti-1", time.Now()))
	assert.ErrorIs(t, repos.ResetTokens.MarkUsed(ctx, "jti-1", time.Now()), domain.ErrTokenUsed)

	tok, err := repos.ResetTokens.GetByID(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, tok.Used())
}
