package dto

// CreateUserRequest entrada para registrar un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,max=150"`
	Password   string `json:"password" validate:"required,min=8"`
	Email      string `json:"email" validate:"required,email"`
	IsProvider bool   `json:"is_provider"`
}

// UserResponse salida de un usuario (sin password ni email).
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	IsProvider bool   `json:"is_provider"`
}

// UserDetailResponse usuario con sus productos publicados.
type UserDetailResponse struct {
	UserResponse
	Products []ProductResponse `json:"products"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
