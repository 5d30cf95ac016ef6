package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefectTypes(t *testing.T) {
	seed := strings.Join([]string{
		"TR-01;Trinca isolada;trincas;0,8",
		"TR-02;Trinca couro de jacare;trincas;2,5",
		"PA-01;Panela;deformacoes;",
	}, "\n")

	result, err := LoadDefectTypes(strings.NewReader(seed))
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, "TR-01", result.Entries[0].ExternalCode)
	require.NotNil(t, result.Entries[0].Weight)
	assert.Equal(t, 0.8, *result.Entries[0].Weight)

	require.NotNil(t, result.Entries[1].Weight)
	assert.Equal(t, 2.5, *result.Entries[1].Weight)

	// Empty weight column is a valid entry with no heat-map signal.
	assert.Nil(t, result.Entries[2].Weight)
}

func TestLoadDefectTypesSkipsBadRows(t *testing.T) {
	seed := strings.Join([]string{
		"TR-01;Trinca isolada;trincas;0,8",
		"TR-99;Peso invalido;trincas;abc",
		"TR-98;Peso negativo;trincas;-1,0",
		"so-uma-coluna",
		";Sem codigo;trincas;1,0",
		"TR-02;Trinca bloco;trincas;1,2",
	}, "\n")

	result, err := LoadDefectTypes(strings.NewReader(seed))
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "TR-01", result.Entries[0].ExternalCode)
	assert.Equal(t, "TR-02", result.Entries[1].ExternalCode)

	require.Len(t, result.Warnings, 4)
	assert.Equal(t, 2, result.Warnings[0].Line)
	assert.Contains(t, result.Warnings[0].Message, "unparseable weight")
	assert.Contains(t, result.Warnings[1].Message, "not positive")
}

func TestLoadOccurrences(t *testing.T) {
	seed := strings.Join([]string{
		"drenagem;Bueiro obstruido",
		"sinalizacao;Placa danificada",
		"faltando-label;",
	}, "\n")

	result, err := LoadOccurrences(strings.NewReader(seed))
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "drenagem", result.Entries[0].Category)
	assert.Equal(t, "Bueiro obstruido", result.Entries[0].Label)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 3, result.Warnings[0].Line)
}

func TestLoadDefectTypesEmptyInput(t *testing.T) {
	result, err := LoadDefectTypes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Warnings)
}
