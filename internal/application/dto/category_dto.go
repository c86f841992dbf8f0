package dto

// CharacteristicInput característica anidada en la creación de una categoría.
type CharacteristicInput struct {
	Name string `json:"name" validate:"required,min=3,max=255"`
}

// CreateCategoryRequest categoría con sus características (se crean o reutilizan por nombre).
type CreateCategoryRequest struct {
	Name            string                `json:"name" validate:"required,max=255"`
	Characteristics []CharacteristicInput `json:"characteristics" validate:"required,dive"`
}

// CharacteristicResponse salida de una característica.
type CharacteristicResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Characteristics []CharacteristicResponse `json:"characteristics"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
