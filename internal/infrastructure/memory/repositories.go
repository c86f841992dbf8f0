package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.CategoryRepository       = (*CategoryRepo)(nil)
	_ repository.CharacteristicRepository = (*CharacteristicRepo)(nil)
	_ repository.OrderRepository          = (*OrderRepo)(nil)
	_ repository.PasswordResetRepository  = (*PasswordResetRepo)(nil)
)

// ─── Users ────────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.write(func(t *tables) error {
		for _, u := range t.users {
			if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
				return domain.ErrDuplicate
			}
		}
		t.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string, updatedAt time.Time) error {
	return r.write(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
		t.users[id] = u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	r.read(func(t *tables) {
		for _, u := range t.users {
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			list = append(list, &u)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	var out *entity.User
	r.read(func(t *tables) {
		for _, u := range t.users {
			if match(u) {
				out = &u
				return
			}
		}
	})
	return out
}

// ─── Products ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria; las lecturas resuelven categoría, proveedor y características.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.write(func(t *tables) error {
		for _, p := range t.products {
			if p.ProviderID == product.ProviderID && p.Name == product.Name {
				return domain.ErrDuplicate
			}
		}
		if _, ok := t.categories[product.CategoryID]; !ok {
			return domain.ErrNotFound
		}
		stored := *product
		stored.Characteristics = nil
		t.products[product.ID] = stored
		return nil
	})
}

func (r *ProductRepo) AddCharacteristic(_ context.Context, pc *entity.ProductCharacteristic) error {
	return r.write(func(t *tables) error {
		if _, ok := t.products[pc.ProductID]; !ok {
			return domain.ErrNotFound
		}
		values := t.productChars[pc.ProductID]
		if values == nil {
			values = make(map[string]string)
			t.productChars[pc.ProductID] = values
		}
		if _, ok := values[pc.CharacteristicID]; ok {
			return domain.ErrDuplicate
		}
		values[pc.CharacteristicID] = pc.Value
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(t *tables) {
		if p, ok := t.products[id]; ok {
			out = hydrateProduct(t, p)
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByProviderAndName(_ context.Context, providerID, name string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(t *tables) {
		for _, p := range t.products {
			if p.ProviderID == providerID && p.Name == name {
				out = hydrateProduct(t, p)
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	r.read(func(t *tables) {
		for _, p := range t.products {
			if filter.OnlyOpenForSale && !p.OpenForSale {
				continue
			}
			if filter.ProviderID != "" && p.ProviderID != filter.ProviderID {
				continue
			}
			list = append(list, hydrateProduct(t, p))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func hydrateProduct(t *tables, p entity.Product) *entity.Product {
	p.CategoryName = t.categories[p.CategoryID].Name
	p.ProviderUsername = t.users[p.ProviderID].Username
	p.Characteristics = []entity.ProductCharacteristic{}
	for charID, value := range t.productChars[p.ID] {
		p.Characteristics = append(p.Characteristics, entity.ProductCharacteristic{
			ProductID:        p.ID,
			CharacteristicID: charID,
			Name:             t.characteristics[charID].Name,
			Value:            value,
		})
	}
	sort.Slice(p.Characteristics, func(i, j int) bool { return p.Characteristics[i].Name < p.Characteristics[j].Name })
	return &p
}

// ─── Categories ───────────────────────────────────────────────────────────────

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ base }

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	return r.write(func(t *tables) error {
		for _, c := range t.categories {
			if c.Name == category.Name {
				return domain.ErrDuplicate
			}
		}
		stored := *category
		stored.Characteristics = nil
		t.categories[category.ID] = stored
		return nil
	})
}

func (r *CategoryRepo) AddCharacteristic(_ context.Context, categoryID, characteristicID string) error {
	return r.write(func(t *tables) error {
		if _, ok := t.categories[categoryID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := t.characteristics[characteristicID]; !ok {
			return domain.ErrNotFound
		}
		set := t.categoryChars[categoryID]
		if set == nil {
			set = make(map[string]struct{})
			t.categoryChars[categoryID] = set
		}
		set[characteristicID] = struct{}{}
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	r.read(func(t *tables) {
		if c, ok := t.categories[id]; ok {
			out = hydrateCategory(t, c)
		}
	})
	return out, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	r.read(func(t *tables) {
		for _, c := range t.categories {
			if c.Name == name {
				out = hydrateCategory(t, c)
				return
			}
		}
	})
	return out, nil
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	var list []*entity.Category
	r.read(func(t *tables) {
		for _, c := range t.categories {
			list = append(list, hydrateCategory(t, c))
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func hydrateCategory(t *tables, c entity.Category) *entity.Category {
	c.Characteristics = []*entity.Characteristic{}
	for _, id := range sortedKeys(t.categoryChars[c.ID]) {
		ch := t.characteristics[id]
		c.Characteristics = append(c.Characteristics, &ch)
	}
	sort.Slice(c.Characteristics, func(i, j int) bool { return c.Characteristics[i].Name < c.Characteristics[j].Name })
	return &c
}

// ─── Characteristics ──────────────────────────────────────────────────────────

// CharacteristicRepo características en memoria.
type CharacteristicRepo struct{ base }

func (r *CharacteristicRepo) GetOrCreate(_ context.Context, name string) (*entity.Characteristic, error) {
	var out entity.Characteristic
	err := r.write(func(t *tables) error {
		for _, ch := range t.characteristics {
			if ch.Name == name {
				out = ch
				return nil
			}
		}
		out = entity.Characteristic{ID: uuid.New().String(), Name: name}
		t.characteristics[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CharacteristicRepo) GetByName(_ context.Context, name string) (*entity.Characteristic, error) {
	var out *entity.Characteristic
	r.read(func(t *tables) {
		for _, ch := range t.characteristics {
			if ch.Name == name {
				out = &ch
				return
			}
		}
	})
	return out, nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// OrderRepo pedidos en memoria.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.write(func(t *tables) error {
		if _, ok := t.users[order.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		stored := *order
		stored.Lines = nil
		t.orders[order.ID] = stored
		return nil
	})
}

func (r *OrderRepo) AddLine(_ context.Context, line *entity.OrderLine) error {
	return r.write(func(t *tables) error {
		if _, ok := t.orders[line.OrderID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := t.products[line.ProductID]; !ok {
			return domain.ErrNotFound
		}
		for _, l := range t.orderLines[line.OrderID] {
			if l.ProductID == line.ProductID {
				return domain.ErrDuplicate
			}
		}
		t.orderLines[line.OrderID] = append(t.orderLines[line.OrderID], entity.OrderLine{
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.read(func(t *tables) {
		if o, ok := t.orders[id]; ok {
			out = hydrateOrder(t, o)
		}
	})
	return out, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(func(o *entity.Order) bool { return o.UserID == userID }, limit, offset), nil
}

func (r *OrderRepo) ListByProvider(_ context.Context, providerID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(func(o *entity.Order) bool { return o.HasProvider(providerID) }, limit, offset), nil
}

func (r *OrderRepo) list(match func(*entity.Order) bool, limit, offset int) []*entity.Order {
	var list []*entity.Order
	r.read(func(t *tables) {
		for _, o := range t.orders {
			if h := hydrateOrder(t, o); match(h) {
				list = append(list, h)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset)
}

func hydrateOrder(t *tables, o entity.Order) *entity.Order {
	o.Username = t.users[o.UserID].Username
	o.Lines = make([]entity.OrderLine, 0, len(t.orderLines[o.ID]))
	for _, l := range t.orderLines[o.ID] {
		p := t.products[l.ProductID]
		l.ProductName = p.Name
		l.Price = p.Price
		l.ProviderID = p.ProviderID
		o.Lines = append(o.Lines, l)
	}
	sort.Slice(o.Lines, func(i, j int) bool { return o.Lines[i].ProductName < o.Lines[j].ProductName })
	return &o
}

// ─── Password reset tokens ────────────────────────────────────────────────────

// PasswordResetRepo registro de tokens de reset en memoria.
type PasswordResetRepo struct{ base }

func (r *PasswordResetRepo) Create(_ context.Context, token *entity.PasswordResetToken) error {
	return r.write(func(t *tables) error {
		if _, ok := t.resetTokens[token.ID]; ok {
			return domain.ErrDuplicate
		}
		t.resetTokens[token.ID] = *token
		return nil
	})
}

func (r *PasswordResetRepo) GetByID(_ context.Context, id string) (*entity.PasswordResetToken, error) {
	var out *entity.PasswordResetToken
	r.read(func(t *tables) {
		if tok, ok := t.resetTokens[id]; ok {
			out = &tok
		}
	})
	return out, nil
}

func (r *PasswordResetRepo) MarkUsed(_ context.Context, id string, at time.Time) error {
	return r.write(func(t *tables) error {
		tok, ok := t.resetTokens[id]
		if !ok {
			return domain.ErrNotFound
		}
		if tok.Used() {
			return domain.ErrTokenUsed
		}
		used := at
		tok.UsedAt = &used
		t.resetTokens[id] = tok
		return nil
	})
}
