package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopkart/internal/config"
	"shopkart/internal/http/handlers"
	applog "shopkart/internal/log"
	"shopkart/internal/payment"
	"shopkart/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Gateway client: credentials-bound, constructed once per process.
	gw := payment.NewClient(cfg.GatewayURL, cfg.GatewayMerchantID, cfg.GatewayPublicKey, cfg.GatewayPrivateKey)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong. Please try again.",
				"error":   err.Error(),
			})
		},
	})
	// Global body size guard; also the transport ceiling for photo uploads
	app.Server().MaxRequestBodySize = 2 << 20 // 2 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, gw)
	admin := handlers.RequireAdmin(deps.Auth)
	user := handlers.RequireUser(deps.Auth)

	api := app.Group("/api/v1")

	// Products: specific read paths before the slug catch-all
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/count", deps.ProductHandler.Count)
	api.Get("/products/page/:page", deps.ProductHandler.Paged)
	api.Get("/products/search/:keyword", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.ProductHandler.Search)
	api.Get("/products/related/:pid/:cid", deps.ProductHandler.Related)
	api.Post("/products/filter", deps.ProductHandler.Filter)
	api.Get("/products/:id/photo", deps.ProductHandler.Photo)
	api.Get("/products/:slug", deps.ProductHandler.BySlug)
	api.Post("/products", admin, deps.ProductHandler.Create)
	api.Put("/products/:id", admin, deps.ProductHandler.Update)
	api.Delete("/products/:id", admin, deps.ProductHandler.Delete)

	// Categories
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:slug", deps.CategoryHandler.BySlug)
	api.Get("/categories/:slug/products", deps.CategoryHandler.Products)
	api.Post("/categories", admin, deps.CategoryHandler.Create)
	api.Put("/categories/:id", admin, deps.CategoryHandler.Update)
	api.Delete("/categories/:id", admin, deps.CategoryHandler.Delete)

	// Checkout & orders
	api.Get("/checkout/token", user, deps.CheckoutHandler.Token)
	api.Post("/checkout/payment", user, deps.CheckoutHandler.Payment)
	api.Get("/orders", user, deps.CheckoutHandler.Orders)
	api.Put("/orders/:id/status", admin, deps.CheckoutHandler.UpdateOrderStatus)

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Route not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
