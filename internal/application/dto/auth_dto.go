package dto

// LoginRequest credenciales para obtener el token de sesión.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token Bearer más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PasswordResetRequest fase 1: pedir el correo con el token.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest fase 2: nueva contraseña (el token va en Authorization).
type PasswordResetConfirmRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
