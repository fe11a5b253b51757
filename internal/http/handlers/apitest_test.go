package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"woolshop/internal/config"
	"woolshop/internal/http/handlers"
	"woolshop/internal/repos"
	"woolshop/internal/services"
)

const (
	testAdminEmail    = "admin@woolshop.test"
	testAdminPassword = "Adm1n-pass!"
)

// newTestApp wires the API the way main does, minus rate limiting, against
// a fresh in-memory store with the sample catalog seeded.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	app, db, _ := newTestAppWithUploads(t)
	return app, db
}

// newTestAppWithUploads also exposes the upload directory for tests that
// check what lands on disk.
func newTestAppWithUploads(t *testing.T) (*fiber.App, *sqlx.DB, string) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.EnsureAdmin(db, testAdminEmail, testAdminPassword))

	uploadDir := t.TempDir()
	cfg := config.Config{UploadDir: uploadDir}
	authSvc := services.NewAuthService(repos.NewUserRepo(db))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "something went wrong, please try again",
			})
		},
	})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, authSvc)
	adminOnly := handlers.RequireAdmin(authSvc)

	api := app.Group("/api")
	api.Get("/products/tags", deps.ProductHandler.Tags)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id/related", deps.ProductHandler.Related)
	api.Get("/products/:slug", deps.ProductHandler.BySlug)
	api.Post("/products", adminOnly, deps.ProductHandler.Create)
	api.Put("/products/:id", adminOnly, deps.ProductHandler.Update)
	api.Delete("/products/:id", adminOnly, deps.ProductHandler.Delete)

	api.Get("/orders/stats", adminOnly, deps.OrderHandler.Stats)
	api.Post("/orders", deps.OrderHandler.Create)
	api.Get("/orders", adminOnly, deps.OrderHandler.List)
	api.Get("/orders/:id", deps.OrderHandler.Get)
	api.Patch("/orders/:id/status", adminOnly, deps.OrderHandler.UpdateStatus)

	api.Get("/contacts/stats", adminOnly, deps.ContactHandler.Stats)
	api.Post("/contacts", deps.ContactHandler.Create)
	api.Get("/contacts", adminOnly, deps.ContactHandler.List)
	api.Get("/contacts/:id", adminOnly, deps.ContactHandler.Get)
	api.Delete("/contacts/:id", adminOnly, deps.ContactHandler.Delete)

	api.Post("/upload/images", adminOnly, deps.UploadHandler.Images)
	api.Post("/upload/image", adminOnly, deps.UploadHandler.Image)

	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/me", deps.AuthHandler.Me)

	return app, db, uploadDir
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page    int  `json:"page"`
		Limit   int  `json:"limit"`
		Total   int  `json:"total"`
		Pages   int  `json:"pages"`
		HasNext bool `json:"hasNext"`
		HasPrev bool `json:"hasPrev"`
	} `json:"pagination"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var e envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func dataInto(t *testing.T, e envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, out))
}

// adminLogin authenticates the seeded admin and returns the session cookie.
func adminLogin(t *testing.T, app *fiber.App) []*http.Cookie {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cookies []*http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	require.NotEmpty(t, cookies, "login must issue a sid cookie")
	return cookies
}

// productIDBySlug grabs a seeded catalog product id for order fixtures.
func productIDBySlug(t *testing.T, db *sqlx.DB, slug string) string {
	t.Helper()
	var id string
	require.NoError(t, db.Get(&id, `SELECT id FROM products WHERE slug = ?`, slug))
	return id
}
