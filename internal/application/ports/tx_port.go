package ports

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción (o al pool).
type Repositories struct {
	Users           repository.UserRepository
	Products        repository.ProductRepository
	Categories      repository.CategoryRepository
	Characteristics repository.CharacteristicRepository
	Orders          repository.OrderRepository
	ResetTokens     repository.PasswordResetRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback completo; ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
