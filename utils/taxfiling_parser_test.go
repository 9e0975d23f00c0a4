package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaxFiling(t *testing.T) {
	data := ParseTaxFiling("DECLARAÇÃO DE AJUSTE ANUAL\nNOME: MARIA SILVA SANTOS      CPF: 123.456.789-00\n")
	assert.True(t, data.Found)
	assert.Equal(t, "MARIA SILVA SANTOS", data.Name)
}

func TestParseTaxFiling_CPFThenName(t *testing.T) {
	data := ParseTaxFiling("CPF: 123.456.789-00 Nome: JOAO PEREIRA\n")
	assert.Equal(t, "JOAO PEREIRA", data.Name)
}

func TestParseTaxFiling_CaseInsensitiveLabel(t *testing.T) {
	data := ParseTaxFiling("Nome: Ana Lima\n")
	assert.Equal(t, "Ana Lima", data.Name)
}

func TestParseTaxFiling_NotFound(t *testing.T) {
	data := ParseTaxFiling("Rendimentos tributáveis 10.000,00")
	assert.False(t, data.Found)
	assert.Empty(t, data.Name)
}
