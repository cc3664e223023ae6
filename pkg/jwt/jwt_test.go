package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SinNegocio(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "", "admin", "invoiceflow", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("s3cret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "b1", "admin", "invoiceflow", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, _, _, err = Parse("", "x.y.z")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestParse_TokenMalformado(t *testing.T) {
	_, _, _, err := Parse("s3cret", "no-es-un-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "b1", "comptable", "invoiceflow", 5)
	require.NoError(t, err)

	userID, businessID, role, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "b1", businessID)
	assert.Equal(t, "comptable", role)

	_, _, _, err = Parse("otro-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "b1", "admin", "invoiceflow", -1)
	require.NoError(t, err)

	_, _, _, err = Parse("s3cret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
