package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorobev/storefront/internal/models"
	"github.com/avorobev/storefront/internal/token"
)

func seedCatalog(env *testEnv) (admin1, admin2, buyer models.User) {
	admin1 = env.createUser("Admin One", "admin1@example.com", "password", "admin")
	admin2 = env.createUser("Admin Two", "admin2@example.com", "password", "admin")
	buyer = env.createUser("Buyer", "buyer@example.com", "password", "user")

	env.DB.Create(&models.Product{Name: "Keyboard", Price: 100, CreatorID: admin1.ID})
	env.DB.Create(&models.Product{Name: "Mouse", Price: 50, CreatorID: admin1.ID})
	env.DB.Create(&models.Product{Name: "Monitor", Price: 300, CreatorID: admin2.ID})
	return admin1, admin2, buyer
}

func TestGetProducts_AdminSeesOnlyOwnProducts(t *testing.T) {
	env := newTestEnv(t)
	admin1, _, _ := seedCatalog(env)

	rec := env.doJSON(http.MethodGet, "/prod", env.tokenFor(admin1), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	for _, p := range items {
		assert.Equal(t, admin1.ID, p.CreatorID)
	}
}

func TestGetProducts_UserSeesFullCatalog(t *testing.T) {
	env := newTestEnv(t)
	_, _, buyer := seedCatalog(env)

	rec := env.doJSON(http.MethodGet, "/prod", env.tokenFor(buyer), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 3)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	_, _, buyer := seedCatalog(env)
	bearer := env.tokenFor(buyer)

	rec := env.doJSON(http.MethodGet, "/prod/1", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Keyboard", p.Name)

	rec = env.doJSON(http.MethodGet, "/prod/999", bearer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_SetsCreator(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin", "admin@example.com", "password", "admin")

	rec := env.doJSON(http.MethodPost, "/prod", env.tokenFor(admin), map[string]any{
		"name":        "Webcam",
		"description": "1080p",
		"price":       79.5,
		"stock":       12,
		"category":    "electronics",
		"image":       "https://img.example.com/webcam.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, admin.ID, p.CreatorID)
	assert.Equal(t, 79.5, p.Price)
}

func TestCreateProduct_RejectsNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("Admin", "admin@example.com", "password", "admin")

	rec := env.doJSON(http.MethodPost, "/prod", env.tokenFor(admin), map[string]any{
		"name":  "Broken",
		"price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductRoutes_Guard(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.createUser("Buyer", "buyer@example.com", "password", "user")

	t.Run("missing token", func(t *testing.T) {
		rec := env.doJSON(http.MethodGet, "/prod", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := token.Sign(buyer.ID, buyer.Role, testSecret, -time.Minute)
		require.NoError(t, err)
		rec := env.doJSON(http.MethodGet, "/prod", expired, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.doJSON(http.MethodGet, "/prod", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin create forbidden", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/prod", env.tokenFor(buyer), map[string]any{
			"name": "X", "price": 1,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role check ignores casing", func(t *testing.T) {
		shouty := env.createUser("Shouty Admin", "shouty@example.com", "password", "ADMIN")
		rec := env.doJSON(http.MethodPost, "/prod", env.tokenFor(shouty), map[string]any{
			"name": "Desk", "price": 150,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
