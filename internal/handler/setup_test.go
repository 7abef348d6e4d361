package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"license-tracker/internal/crypto"
	"license-tracker/internal/database"
	"license-tracker/internal/middleware"
)

const (
	testJWTSecret = "test-secret"
	testEncKey    = "0123456789abcdef0123456789abcdef"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := database.OpenTest()
	require.NoError(t, err)

	cipher, err := crypto.NewKeyCipher(testEncKey)
	require.NoError(t, err)

	h := New(db, cipher, testJWTSecret, nil)

	app := fiber.New()
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)

	requireAuth := middleware.Auth(testJWTSecret)

	products := api.Group("/products", requireAuth)
	products.Post("/", h.HandleProductCreate)
	products.Get("/", h.HandleProductList)
	products.Put("/:id", h.HandleProductUpdate)
	products.Delete("/:id", h.HandleProductDelete)

	licenses := api.Group("/licenses", requireAuth)
	licenses.Post("/", h.HandleLicenseCreate)
	licenses.Get("/", h.HandleLicenseList)
	licenses.Put("/:id", h.HandleLicenseUpdate)
	licenses.Delete("/:id", h.HandleLicenseDelete)

	notifications := api.Group("/notifications", requireAuth)
	notifications.Get("/", h.HandleNotificationList)
	notifications.Put("/:id/read", h.HandleNotificationRead)

	api.Get("/cost/summary", requireAuth, h.HandleCostSummary)

	return app, db
}

// doJSON performs a request with an optional bearer token and JSON body and
// decodes the response into out when non-nil.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp
}

// registerUser registers a user and returns its token and ID.
func registerUser(t *testing.T, app *fiber.App, email string) (token, userID string) {
	t.Helper()

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":    email,
		"password": "password123",
	}, &result)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, result.Token)
	return result.Token, result.User.ID
}

// createProduct creates a product for the given token and returns its ID.
func createProduct(t *testing.T, app *fiber.App, token, name string, tags []string) string {
	t.Helper()

	var product struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, fiber.Map{
		"name": name,
		"tags": tags,
	}, &product)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, product.ID)
	return product.ID
}
