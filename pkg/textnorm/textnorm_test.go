package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-api/pkg/textnorm"
)

func TestName_ComposicionYEspacios(t *testing.T) {
	decomposed := "Cafe\u0301"
	composed := "Caf\u00e9"

	assert.Equal(t, composed, textnorm.Name("  "+decomposed+" "))
	assert.Equal(t, textnorm.Name(composed), textnorm.Name(decomposed))
}

func TestLen_CuentaRunas(t *testing.T) {
	assert.Equal(t, 3, textnorm.Len("ñam"))
	assert.Equal(t, 4, textnorm.Len("Cafe\u0301"), "la tilde combinada no cuenta como carácter extra")
	assert.Equal(t, 2, textnorm.Len("  ab  "))
}
