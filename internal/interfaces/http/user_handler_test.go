package http_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{
		"username":    "ana",
		"password":    "12345678",
		"email":       "ana@example.com",
		"is_provider": true,
	}
	status, raw := env.do(t, http.MethodPost, "/users/", "", body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	out := decodeJSON[dto.UserResponse](t, raw)
	assert.Equal(t, "ana", out.Username)
	assert.True(t, out.IsProvider)
	assert.NotContains(t, string(raw), "password")

	// Con la cuenta recién creada se puede iniciar sesión.
	status, raw = env.do(t, http.MethodPost, "/login/", "", map[string]string{"username": "ana", "password": "12345678"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.NotEmpty(t, decodeJSON[dto.LoginResponse](t, raw).Token)
}

func TestCreateUser_Duplicados(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ana", entity.RoleCustomer, false)

	body := map[string]interface{}{"username": "ana", "password": "12345678", "email": "ana@example.com"}
	status, raw := env.do(t, http.MethodPost, "/users/", "", body)
	require.Equal(t, http.StatusBadRequest, status)
	fields := decodeJSON[dto.ErrorResponse](t, raw).Fields
	assert.Equal(t, []string{usecase.MsgEmailExists}, fields["email"])
	assert.Equal(t, []string{usecase.MsgUsernameExists}, fields["username"])
}

func TestCreateUser_Validacion(t *testing.T) {
	env := newTestEnv(t)
	status, raw := env.do(t, http.MethodPost, "/users/", "", map[string]string{"username": "ana", "password": "123", "email": "x"})
	require.Equal(t, http.StatusBadRequest, status)
	fields := decodeJSON[dto.ErrorResponse](t, raw).Fields
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "email")
}

func TestListUsers_FiltroPorRol(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "acme", entity.RoleProvider, false)
	env.addUser(t, "bob", entity.RoleCustomer, false)

	_, raw := env.do(t, http.MethodGet, "/users/", "", nil)
	assert.Len(t, decodeJSON[dto.UserListResponse](t, raw).Items, 2)

	_, raw = env.do(t, http.MethodGet, "/users/?role=provider", "", nil)
	items := decodeJSON[dto.UserListResponse](t, raw).Items
	require.Len(t, items, 1)
	assert.Equal(t, "acme", items[0].Username)

	_, raw = env.do(t, http.MethodGet, "/users/?role=customer", "", nil)
	items = decodeJSON[dto.UserListResponse](t, raw).Items
	require.Len(t, items, 1)
	assert.Equal(t, "bob", items[0].Username)

	status, _ := env.do(t, http.MethodGet, "/users/?role=admin", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetUser_IncluyeProductosCerrados(t *testing.T) {
	env := newTestEnv(t)
	provider := env.addUser(t, "acme", entity.RoleProvider, false)
	catID := env.addCategory(t, "Phones")
	batch := []map[string]interface{}{
		product("Open", catID, "1", true),
		product("Closed", catID, "1", false),
	}
	status, _ := env.do(t, http.MethodPost, "/products/", bearer(t, provider), batch)
	require.Equal(t, http.StatusCreated, status)

	path := "/users/" + provider.ID + "/"
	status, raw := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	public := decodeJSON[dto.UserDetailResponse](t, raw)
	require.Len(t, public.Products, 2, "anónimo ve abiertos y cerrados")
	names := []string{public.Products[0].Name, public.Products[1].Name}
	assert.ElementsMatch(t, []string{"Open", "Closed"}, names)

	other := env.addUser(t, "bob", entity.RoleCustomer, false)
	_, raw = env.do(t, http.MethodGet, path, bearer(t, other), nil)
	assert.Len(t, decodeJSON[dto.UserDetailResponse](t, raw).Products, 2, "otro usuario ve lo mismo")

	_, raw = env.do(t, http.MethodGet, path, bearer(t, provider), nil)
	assert.Len(t, decodeJSON[dto.UserDetailResponse](t, raw).Products, 2)

	status, _ = env.do(t, http.MethodGet, "/users/"+uuid.NewString()+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/users/no-existe/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
