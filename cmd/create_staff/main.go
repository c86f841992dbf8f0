// create_staff crea una cuenta staff, la única que puede dar de alta categorías.
//
// Uso: go run ./cmd/create_staff <username> <email> <password> [provider]
// Usa la misma configuración que la API (DATABASE_URL / DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-api/pkg/config"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "uso: create_staff <username> <email> <password> [provider]")
		os.Exit(2)
	}
	username, email, password := os.Args[1], os.Args[2], os.Args[3]
	role := entity.RoleCustomer
	if len(os.Args) > 4 && os.Args[4] == "provider" {
		role = entity.RoleProvider
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password debe tener al menos 8 caracteres")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := postgres.NewUserRepository(pool).Create(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Usuario staff %s creado (id %s, rol %s)\n", user.Username, user.ID, user.Role)
}
