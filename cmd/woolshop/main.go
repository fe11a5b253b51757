package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"woolshop/internal/config"
	"woolshop/internal/http/handlers"
	applog "woolshop/internal/log"
	"woolshop/internal/repos"
	"woolshop/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	authSvc := services.NewAuthService(repos.NewUserRepo(db))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "something went wrong, please try again",
			})
		},
	})
	// Room for five 5MB images plus form overhead
	app.Server().MaxRequestBodySize = 30 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientOrigin,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/uploads/")
		},
	}))

	// ---------- Uploaded images ----------
	uploadDir := cfg.UploadDir
	if !filepath.IsAbs(uploadDir) {
		if abs, err := filepath.Abs(uploadDir); err == nil {
			uploadDir = abs
		}
	}
	log.Printf("[static] /uploads -> %s", uploadDir)

	// Guarded serving to avoid traversal out of the upload dir
	app.Get("/uploads/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadDir, clean), true)
	})

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, authSvc)
	adminOnly := handlers.RequireAdmin(authSvc)

	api := app.Group("/api")

	// Catalog (register the static paths before the :slug catch-all)
	api.Get("/products/tags", deps.ProductHandler.Tags)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id/related", deps.ProductHandler.Related)
	api.Get("/products/:slug", deps.ProductHandler.BySlug)
	api.Post("/products", adminOnly, deps.ProductHandler.Create)
	api.Put("/products/:id", adminOnly, deps.ProductHandler.Update)
	api.Delete("/products/:id", adminOnly, deps.ProductHandler.Delete)

	// Orders
	api.Get("/orders/stats", adminOnly, deps.OrderHandler.Stats)
	api.Post("/orders", deps.OrderHandler.Create)
	api.Get("/orders", adminOnly, deps.OrderHandler.List)
	api.Get("/orders/:id", deps.OrderHandler.Get)
	api.Patch("/orders/:id/status", adminOnly, deps.OrderHandler.UpdateStatus)

	// Contact inbox
	api.Get("/contacts/stats", adminOnly, deps.ContactHandler.Stats)
	api.Post("/contacts", deps.ContactHandler.Create)
	api.Get("/contacts", adminOnly, deps.ContactHandler.List)
	api.Get("/contacts/:id", adminOnly, deps.ContactHandler.Get)
	api.Delete("/contacts/:id", adminOnly, deps.ContactHandler.Delete)

	// Uploads
	api.Post("/upload/images", adminOnly, deps.UploadHandler.Images)
	api.Post("/upload/image", adminOnly, deps.UploadHandler.Image)

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "too many attempts, please try again later",
			})
		},
	}), deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/me", deps.AuthHandler.Me)

	// Health & 404
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	app.Use("/api/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "route " + c.OriginalURL() + " not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
