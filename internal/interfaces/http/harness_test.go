package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/feed"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/retail-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/retail-api/pkg/jwt"
	"github.com/jhoicas/retail-api/pkg/logger"
)

const (
	testJWTSecret   = "test-secret-key-for-unit-tests"
	testResetSecret = "test-reset-secret"
	testIssuer      = "retail-api-test"
	testPassword    = "s3cret-pass"
	testExpMin      = 60
)

// recordingMailer guarda los correos enviados en lugar de mandarlos.
// Con err definido no guarda nada y devuelve ese error.
type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg ports.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *recordingMailer) messages() []ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Message(nil), m.sent...)
}

// testEnv la API completa sobre el almacenamiento en memoria.
type testEnv struct {
	app    *fiber.App
	repos  ports.Repositories
	mailer *recordingMailer
	logs   *bytes.Buffer // salida JSON del RequestLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	txRunner := memory.NewTxRunner(store)
	mailer := &recordingMailer{}
	log := logger.Nop()
	logs := &bytes.Buffer{}

	authUC := auth.NewAuthUseCase(repos.Users, repos.ResetTokens, txRunner, mailer,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		auth.ResetConfig{Secret: testResetSecret, TTLMinutes: 60, Path: "/reset-password/", From: "reset@retail.test"},
		log,
	)
	app := fiber.New(fiber.Config{StrictRouting: false})
	app.Use(apphttp.RequestLogger(logger.New(logger.Config{Env: "production", Level: "info", Out: logs})))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		UserUC:     usecase.NewUserUseCase(repos.Users, repos.Products, log),
		ProductUC:  usecase.NewProductUseCase(repos.Products, repos.Categories, txRunner, feed.NewXMLFeedBuilder("retail-test"), log),
		CategoryUC: usecase.NewCategoryUseCase(repos.Categories, txRunner, log),
		OrderUC:    usecase.NewOrderUseCase(repos.Orders, repos.Users, txRunner, mailer, pdf.NewReceiptGenerator("Retail"), "orders@retail.test", log),
		JWTSecret:  testJWTSecret,
	})
	return &testEnv{app: app, repos: repos, mailer: mailer, logs: logs}
}

// addUser persiste un usuario con testPassword.
func (e *testEnv) addUser(t *testing.T, username string, role entity.Role, staff bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsStaff:      staff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.repos.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) addCategory(t *testing.T, name string) string {
	t.Helper()
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	require.NoError(t, e.repos.Categories.Create(context.Background(), c))
	return c.ID
}

// bearer genera el header Authorization de una sesión del usuario.
func bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, string(u.Role), u.IsStaff, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// do ejecuta la petición; body se serializa a JSON salvo que ya sea string.
func (e *testEnv) do(t *testing.T, method, path, authHeader string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// product cuerpo mínimo válido para publicar un producto.
func product(name, categoryID string, price string, open bool) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"price":         price,
		"open_for_sale": open,
		"category_id":   categoryID,
	}
}
