package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sixshop/internal/catalog"
	"sixshop/internal/config"
	"sixshop/internal/http/handlers"
	applog "sixshop/internal/log"
	"sixshop/internal/metrics"
	"sixshop/internal/repos"
	"sixshop/internal/securestore"
	"sixshop/internal/services"
)

const devKey = "sixshop-dev-key"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ---------- Cart persistence ----------
	var kv securestore.KeyValue
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rkv, err := repos.OpenRedisKV(cfg.RedisURL, "sixshop:")
		if err != nil {
			log.Fatalf("[store] redis: %v", err)
		}
		defer rkv.Close()
		kv = rkv
	case config.BackendMemory:
		kv = repos.NewMemoryKV()
	default:
		kv = repos.NewKVRepo(db)
	}

	secret := cfg.EncryptionKey
	if secret == "" {
		applog.Warn(nil, "store.key.default", nil, map[string]any{"hint": "set ENCRYPTION_KEY"})
		secret = devKey
	}
	codec, err := securestore.NewCodec(secret)
	if err != nil {
		log.Fatal(err)
	}
	store := securestore.NewStore(kv, codec, securestore.DefaultSlot, m)

	// ---------- Services ----------
	var src catalog.Source = catalog.NewHTTPSource(cfg.CatalogURL, cfg.CatalogTTL)
	if cfg.CatalogSeed != "" {
		src = &catalog.FileSource{Path: cfg.CatalogSeed}
	}
	catalogSvc := services.NewCatalogService(src, repos.NewProductRepo(db), m)
	// a failed first fetch leaves the catalog in the error state; the
	// refresh endpoint retries
	_ = catalogSvc.Refresh(ctx)

	checkoutSvc := services.NewCheckoutService(repos.NewReceiptRepo(db), m)
	sessions := services.NewSessionRegistry(store, m)
	go sessions.RunSweeper(ctx, 10*time.Minute, cfg.SessionIdle)

	// ---------- Templates & app ----------
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return !strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed, refresh and try again"})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(catalogSvc, checkoutSvc, sessions)
	deps.Mount(app)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "catalog": catalogSvc.Snapshot().Status})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "backend": cfg.StoreBackend})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
