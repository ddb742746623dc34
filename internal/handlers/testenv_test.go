package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avorobev/storefront/internal/handlers"
	"github.com/avorobev/storefront/internal/hash"
	"github.com/avorobev/storefront/internal/models"
	"github.com/avorobev/storefront/internal/token"
	httpserver "github.com/avorobev/storefront/internal/transport/http"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		DB:             db,
		JWTSecret:      testSecret,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: testSecret, TokenTTL: time.Hour},
		ProductHandler: &handlers.ProductHandler{DB: db},
		OrderHandler:   &handlers.OrderHandler{DB: db},
	})

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) createUser(name, email, password, userRole string) models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{Name: name, Email: email, PasswordHash: pwHash, Role: userRole}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) tokenFor(user models.User) string {
	signed, err := token.Sign(user.ID, user.Role, testSecret, time.Hour)
	require.NoError(env.T, err)
	return signed
}

func (env *testEnv) doJSON(method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}
