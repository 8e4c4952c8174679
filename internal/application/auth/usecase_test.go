package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tochman/visinv-api/internal/application/auth"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/pkg/jwt"
)

type memUserRepo struct {
	users map[string]*entity.User // por email
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func testAuthUseCase(t *testing.T, password string) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &memUserRepo{users: map[string]*entity.User{
		"ana@acme.test": {
			ID:             "user-1",
			OrganizationID: "org-1",
			Email:          "ana@acme.test",
			Name:           "Ana",
			PasswordHash:   string(hash),
		},
	}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secreto-de-prueba",
		ExpMinutes: 60,
		Issuer:     "visinv-test",
	})
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc := testAuthUseCase(t, "clave-segura")

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@acme.test",
		Password: "clave-segura",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "org-1", resp.User.OrganizationID)

	// El token debe llevar el contexto de tenant completo.
	userID, orgID, err := jwt.Parse("secreto-de-prueba", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "org-1", orgID)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := testAuthUseCase(t, "clave-segura")

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@acme.test",
		Password: "otra-clave",
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := testAuthUseCase(t, "clave-segura")

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@acme.test",
		Password: "clave-segura",
	})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
