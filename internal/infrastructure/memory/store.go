// Package memory implementa los puertos de persistencia en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y como fake en los tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// Store guarda todas las tablas en mapas protegidos por mu.
// txMu serializa las transacciones y las escrituras fuera de ellas, de modo que
// restaurar la foto tras un rollback nunca pisa una escritura ajena.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	t    *tables
}

type tables struct {
	users           map[string]entity.User
	products        map[string]entity.Product
	productChars    map[string]map[string]string // product -> characteristic -> value
	categories      map[string]entity.Category
	categoryChars   map[string]map[string]struct{}
	characteristics map[string]entity.Characteristic
	orders          map[string]entity.Order
	orderLines      map[string][]entity.OrderLine
	resetTokens     map[string]entity.PasswordResetToken
}

func newTables() *tables {
	return &tables{
		users:           make(map[string]entity.User),
		products:        make(map[string]entity.Product),
		productChars:    make(map[string]map[string]string),
		categories:      make(map[string]entity.Category),
		categoryChars:   make(map[string]map[string]struct{}),
		characteristics: make(map[string]entity.Characteristic),
		orders:          make(map[string]entity.Order),
		orderLines:      make(map[string][]entity.OrderLine),
		resetTokens:     make(map[string]entity.PasswordResetToken),
	}
}

// clone copia profunda de las tablas (foto para rollback).
func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, m := range t.productChars {
		cm := make(map[string]string, len(m))
		for ck, cv := range m {
			cm[ck] = cv
		}
		c.productChars[k] = cm
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, m := range t.categoryChars {
		cm := make(map[string]struct{}, len(m))
		for ck := range m {
			cm[ck] = struct{}{}
		}
		c.categoryChars[k] = cm
	}
	for k, v := range t.characteristics {
		c.characteristics[k] = v
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	for k, v := range t.orderLines {
		c.orderLines[k] = append([]entity.OrderLine(nil), v...)
	}
	for k, v := range t.resetTokens {
		c.resetTokens[k] = v
	}
	return c
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{t: newTables()}
}

// Repositories devuelve los adaptadores fuera de transacción.
func (s *Store) Repositories() ports.Repositories {
	return s.repositories(false)
}

func (s *Store) repositories(inTx bool) ports.Repositories {
	b := base{s: s, inTx: inTx}
	return ports.Repositories{
		Users:           &UserRepo{b},
		Products:        &ProductRepo{b},
		Categories:      &CategoryRepo{b},
		Characteristics: &CharacteristicRepo{b},
		Orders:          &OrderRepo{b},
		ResetTokens:     &PasswordResetRepo{b},
	}
}

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el Store: una a la vez, con foto previa que se restaura si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos de transacción. Commit si fn devuelve nil; si no, restaura la foto.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	snapshot := r.s.t.clone()
	r.s.mu.RUnlock()

	if err := fn(r.s.repositories(true)); err != nil {
		r.s.mu.Lock()
		r.s.t = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// base comparte el acceso al Store entre repos.
type base struct {
	s    *Store
	inTx bool
}

func (b base) read(fn func(t *tables)) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	fn(b.s.t)
}

func (b base) write(fn func(t *tables) error) error {
	if !b.inTx {
		b.s.txMu.Lock()
		defer b.s.txMu.Unlock()
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.t)
}

// page aplica limit/offset a una lista ya ordenada. limit <= 0 = sin tope.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
