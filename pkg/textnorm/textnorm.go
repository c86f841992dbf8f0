// Package textnorm normaliza nombres de catálogo antes de compararlos o persistirlos.
package textnorm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Name recorta espacios y lleva el texto a Unicode NFC, para que "Café" compuesto
// y descompuesto sean el mismo nombre en las validaciones de unicidad.
func Name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Len cuenta caracteres (runas) del nombre ya normalizado.
func Len(s string) int {
	return utf8.RuneCountInString(Name(s))
}
