package http_test

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	apphttp "github.com/jhoicas/retail-api/internal/interfaces/http"
)

// orderFixture dos proveedores con un producto cada uno, más un producto cerrado.
type orderFixture struct {
	env      *testEnv
	acme     *entity.User
	globex   *entity.User
	customer *entity.User
	phone    string
	tablet   string
	closed   string
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	env := newTestEnv(t)
	f := &orderFixture{
		env:      env,
		acme:     env.addUser(t, "acme", entity.RoleProvider, false),
		globex:   env.addUser(t, "globex", entity.RoleProvider, false),
		customer: env.addUser(t, "bob", entity.RoleCustomer, false),
	}
	catID := env.addCategory(t, "Electronics")

	create := func(owner *entity.User, body map[string]interface{}) string {
		status, raw := env.do(t, http.MethodPost, "/products/", bearer(t, owner), body)
		require.Equal(t, http.StatusCreated, status, string(raw))
		return decodeJSON[dto.ProductResponse](t, raw).ID
	}
	f.phone = create(f.acme, product("Phone", catID, "100.50", true))
	f.closed = create(f.acme, product("Prototype", catID, "1", false))
	f.tablet = create(f.globex, product("Tablet", catID, "300", true))
	return f
}

func orderBody(comment string, lines ...dto.OrderLineInput) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{Comment: comment, Products: lines}
}

func (f *orderFixture) placeOrder(t *testing.T, buyer *entity.User, lines ...dto.OrderLineInput) dto.OrderResponse {
	t.Helper()
	status, raw := f.env.do(t, http.MethodPost, "/orders/", bearer(t, buyer), orderBody("", lines...))
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decodeJSON[dto.OrderResponse](t, raw)
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	status, raw := f.env.do(t, http.MethodPost, "/orders/", bearer(t, f.customer), orderBody("ring twice",
		dto.OrderLineInput{ID: f.phone, Quantity: 2},
		dto.OrderLineInput{ID: f.tablet, Quantity: 1},
	))
	require.Equal(t, http.StatusCreated, status, string(raw))

	out := decodeJSON[dto.OrderResponse](t, raw)
	assert.Equal(t, "bob", out.User)
	assert.Equal(t, "ring twice", out.Comment)
	require.Len(t, out.Products, 2)
	quantities := map[string]int{}
	for _, l := range out.Products {
		quantities[l.ID] = l.Quantity
	}
	assert.Equal(t, map[string]int{f.phone: 2, f.tablet: 1}, quantities)
}

func TestCreateOrder_RequiereSesion(t *testing.T) {
	f := newOrderFixture(t)
	status, _ := f.env.do(t, http.MethodPost, "/orders/", "", orderBody("", dto.OrderLineInput{ID: f.phone, Quantity: 1}))
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = f.env.do(t, http.MethodGet, "/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateOrder_LineaInvalidaDeshaceTodo(t *testing.T) {
	f := newOrderFixture(t)
	auth := bearer(t, f.customer)

	cases := []struct {
		name  string
		lines []dto.OrderLineInput
		msg   string
	}{
		{"producto inexistente", []dto.OrderLineInput{{ID: f.phone, Quantity: 1}, {ID: "missing", Quantity: 1}},
			"Product with id missing does not exist"},
		{"producto cerrado", []dto.OrderLineInput{{ID: f.phone, Quantity: 1}, {ID: f.closed, Quantity: 1}},
			"Product with id " + f.closed + " is not open for sale"},
		{"producto repetido", []dto.OrderLineInput{{ID: f.phone, Quantity: 1}, {ID: f.phone, Quantity: 3}},
			"Product with id " + f.phone + " is duplicated in this order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := f.env.do(t, http.MethodPost, "/orders/", auth, orderBody("", tc.lines...))
			require.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, []string{tc.msg}, decodeJSON[dto.ErrorResponse](t, raw).Fields["products"])
		})
	}

	_, raw := f.env.do(t, http.MethodGet, "/orders/", auth, nil)
	assert.Empty(t, decodeJSON[dto.OrderListResponse](t, raw).Items, "ningún pedido parcial queda guardado")
}

func TestCreateOrder_Validacion(t *testing.T) {
	f := newOrderFixture(t)
	auth := bearer(t, f.customer)

	status, raw := f.env.do(t, http.MethodPost, "/orders/", auth, orderBody(""))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeJSON[dto.ErrorResponse](t, raw).Fields, "products")

	status, raw = f.env.do(t, http.MethodPost, "/orders/", auth, orderBody("", dto.OrderLineInput{ID: f.phone, Quantity: 0}))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeJSON[dto.ErrorResponse](t, raw).Fields, "products[0].quantity")
}

func TestListOrders_SegunRol(t *testing.T) {
	f := newOrderFixture(t)
	other := f.env.addUser(t, "carol", entity.RoleCustomer, false)

	onlyPhone := f.placeOrder(t, f.customer, dto.OrderLineInput{ID: f.phone, Quantity: 1})
	onlyTablet := f.placeOrder(t, other, dto.OrderLineInput{ID: f.tablet, Quantity: 1})

	ids := func(authHeader string) []string {
		status, raw := f.env.do(t, http.MethodGet, "/orders/", authHeader, nil)
		require.Equal(t, http.StatusOK, status)
		var out []string
		for _, o := range decodeJSON[dto.OrderListResponse](t, raw).Items {
			out = append(out, o.ID)
		}
		return out
	}

	assert.Equal(t, []string{onlyPhone.ID}, ids(bearer(t, f.customer)), "el cliente ve sus pedidos")
	assert.Equal(t, []string{onlyTablet.ID}, ids(bearer(t, other)))
	assert.Equal(t, []string{onlyPhone.ID}, ids(bearer(t, f.acme)), "el proveedor ve los pedidos con productos suyos")
	assert.Equal(t, []string{onlyTablet.ID}, ids(bearer(t, f.globex)))
}

func TestNotifyFulfilment(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.customer, dto.OrderLineInput{ID: f.phone, Quantity: 1})
	path := "/orders/" + order.ID + "/notify-fulfilment/"

	status, _ := f.env.do(t, http.MethodPost, path, bearer(t, f.customer), nil)
	assert.Equal(t, http.StatusForbidden, status, "un cliente no avisa")

	status, _ = f.env.do(t, http.MethodPost, path, bearer(t, f.globex), nil)
	assert.Equal(t, http.StatusForbidden, status, "proveedor sin productos en el pedido")

	status, _ = f.env.do(t, http.MethodPost, "/orders/missing/notify-fulfilment/", bearer(t, f.acme), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, f.env.mailer.messages())

	status, raw := f.env.do(t, http.MethodPost, path, bearer(t, f.acme), nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "email sent", decodeJSON[dto.MessageResponse](t, raw).Message)

	sent := f.env.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{f.customer.Email}, sent[0].To)
	assert.Equal(t, usecase.FulfilmentSubject, sent[0].Subject)
	assert.Equal(t, usecase.FulfilmentBody, sent[0].Body)
}

func TestNotifyFulfilment_FalloInternoNoExponeDetalle(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.customer, dto.OrderLineInput{ID: f.phone, Quantity: 1})
	f.env.mailer.failWith(errors.New("smtp: conexión rechazada por mail.interno:587"))

	status, raw := f.env.do(t, http.MethodPost, "/orders/"+order.ID+"/notify-fulfilment/", bearer(t, f.acme), nil)
	require.Equal(t, http.StatusInternalServerError, status, string(raw))
	out := decodeJSON[dto.ErrorResponse](t, raw)
	assert.Equal(t, "INTERNAL", out.Code)
	assert.Equal(t, apphttp.MsgInternal, out.Message)
	assert.NotContains(t, string(raw), "smtp")
	assert.NotContains(t, string(raw), "mail.interno")

	logged := f.env.logs.String()
	assert.Contains(t, logged, "smtp: conexión rechazada por mail.interno:587")
	assert.Contains(t, logged, `"status":500`)
}

func TestOrderReceipt(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.customer, dto.OrderLineInput{ID: f.phone, Quantity: 2})
	path := "/orders/" + order.ID + "/receipt/"

	status, raw := f.env.do(t, http.MethodGet, path, bearer(t, f.customer), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, _ = f.env.do(t, http.MethodGet, path, bearer(t, f.acme), nil)
	assert.Equal(t, http.StatusOK, status, "proveedor con productos en el pedido")

	status, _ = f.env.do(t, http.MethodGet, path, bearer(t, f.globex), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.env.do(t, http.MethodGet, "/orders/missing/receipt/", bearer(t, f.customer), nil)
	assert.Equal(t, http.StatusNotFound, status)
}
