package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochman/visinv-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto-de-prueba", "user-1", "org-1", "visinv", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, orgID, err := jwt.Parse("secreto-de-prueba", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "org-1", orgID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto-a", "user-1", "org-1", "visinv", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto-b", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto-de-prueba", "user-1", "org-1", "visinv", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto-de-prueba", token)
	assert.Error(t, err)
}

func TestParse_BasuraNoEsToken(t *testing.T) {
	_, _, err := jwt.Parse("secreto-de-prueba", "no-es-un-jwt")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "org-1", "visinv", 60)
	assert.Error(t, err)
}
