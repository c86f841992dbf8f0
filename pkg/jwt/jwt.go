package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token. Un token de sesión nunca se acepta como token de reset ni al revés.
const (
	TypeSession = "session"
	TypeReset   = "reset"
)

// ErrWrongType se devuelve cuando el token es válido pero de otro tipo.
var ErrWrongType = errors.New("tipo de token inválido")

// Claims incluye los claims estándar JWT más los campos de sesión de la aplicación.
// Role y Staff viajan en el token para que los predicados de acceso no consulten la DB.
type Claims struct {
	jwt.RegisteredClaims
	Type   string `json:"typ"`
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "customer" | "provider"
	Staff  bool   `json:"staff"`
}

// ResetClaims claims del token de restablecimiento de contraseña.
// PasswordHash es la huella del hash vigente al emitir; si la contraseña cambia el token deja de servir.
type ResetClaims struct {
	jwt.RegisteredClaims
	Type         string `json:"typ"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Generate genera un token de sesión firmado (HS256).
func Generate(secret, userID, role string, staff bool, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Type:   TypeSession,
		UserID: userID,
		Role:   role,
		Staff:  staff,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida un token de sesión y devuelve sus claims.
// Retorna error si el token es inválido, expirado, de otro tipo o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeSession || claims.UserID == "" {
		return nil, ErrWrongType
	}
	return claims, nil
}

// GenerateReset firma un token de restablecimiento con id (jti), email, huella del hash y expiración.
func GenerateReset(secret, tokenID, email, passwordHash string, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type:         TypeReset,
		Email:        email,
		PasswordHash: passwordHash,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseReset verifica firma y expiración de un token de restablecimiento.
func ParseReset(secret, tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeReset || claims.Email == "" {
		return nil, ErrWrongType
	}
	return claims, nil
}

func parseInto(secret, tokenString string, claims jwt.Claims) error {
	if secret == "" {
		return fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("claims inválidos")
	}
	return nil
}
