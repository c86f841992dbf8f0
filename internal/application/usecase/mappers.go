package usecase

import (
	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	chars := make([]dto.ProductCharacteristicResponse, 0, len(p.Characteristics))
	for _, c := range p.Characteristics {
		chars = append(chars, dto.ProductCharacteristicResponse{Name: c.Name, Value: c.Value})
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		OpenForSale:     p.OpenForSale,
		Provider:        p.ProviderUsername,
		ProviderID:      p.ProviderID,
		Category:        p.CategoryName,
		CategoryID:      p.CategoryID,
		Characteristics: chars,
		CreatedAt:       p.CreatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	chars := make([]dto.CharacteristicResponse, 0, len(c.Characteristics))
	for _, ch := range c.Characteristics {
		chars = append(chars, dto.CharacteristicResponse{ID: ch.ID, Name: ch.Name})
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Characteristics: chars}
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

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:       l.ProductID,
			Name:     l.ProductName,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return &dto.OrderResponse{
		ID:        o.ID,
		User:      o.Username,
		Comment:   o.Comment,
		CreatedAt: o.CreatedAt,
		Products:  lines,
	}
}
