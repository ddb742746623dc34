package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorobev/storefront/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.ID)

	var stored models.User
	require.NoError(t, env.DB.First(&stored, user.ID).Error)
	assert.NotEqual(t, "password", stored.PasswordHash)
	assert.NotContains(t, rec.Body.String(), stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Existing", "dup@example.com", "password", "user")

	rec := env.doJSON(http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Someone Else",
		"email":    "dup@example.com",
		"password": "other",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	env.DB.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegister_NormalizesRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Boss",
		"email":    "boss@example.com",
		"password": "password",
		"role":     "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Test User", "test@example.com", "password", "user")

	rec := env.doJSON(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user", resp.Role)
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Test User", "known@example.com", "password", "user")

	wrongPassword := env.doJSON(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "known@example.com",
		"password": "wrong",
	})
	unknownEmail := env.doJSON(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
