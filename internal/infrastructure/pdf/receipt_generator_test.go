package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"12.5":      "12.50",
		"1234":      "1,234.00",
		"1234567.9": "1,234,567.90",
		"-2500":     "-2,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#3F2A9C10", shortID("3f2a9c10-1111-2222-3333-444455556666"))
	assert.Equal(t, "#abc", shortID("abc"))
}

func TestGenerateOrderReceipt_DevuelvePDF(t *testing.T) {
	order := &entity.Order{
		ID:        "3f2a9c10-1111-2222-3333-444455556666",
		UserID:    "u-1",
		Username:  "ana",
		Comment:   "ring twice",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Lines: []entity.OrderLine{
			{ProductID: "p-1", ProductName: "Phone", Price: decimal.RequireFromString("199.99"), Quantity: 2},
			{ProductID: "p-2", ProductName: "Case", Price: decimal.RequireFromString("9.50"), Quantity: 1},
		},
	}

	out, err := NewReceiptGenerator("Retail API").GenerateOrderReceipt(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe empezar con la firma PDF")
}

func TestGenerateOrderReceipt_PedidoNil(t *testing.T) {
	_, err := NewReceiptGenerator("x").GenerateOrderReceipt(context.Background(), nil)
	assert.Error(t, err)
}
