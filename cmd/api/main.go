package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/puntoventa-api/internal/application/offers"
	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/puntoventa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
	"github.com/jhoicas/puntoventa-api/pkg/config"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log)
	reads := postgres.NewRepos(pool)

	var offerOpts []offers.Option
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis no disponible, la cache de ofertas leerá de la base")
		}
		offerOpts = append(offerOpts, offers.WithCache(cache.NewOfferCache(rdb, cfg.Redis.OfferCacheTTL, log)))
	}

	stockLedger := inventory.NewStockLedger(log)
	alertEngine := alerts.NewEngine(cfg.Alerts.LowStockThreshold, log)
	saleLedger := sales.NewLedger(txRunner, reads, stockLedger, alertEngine, sales.Config{TaxRate: cfg.Sales.TaxRate}, log)
	offerSvc := offers.NewService(txRunner, reads, log, offerOpts...)
	inventorySvc := inventory.NewService(txRunner, reads, stockLedger, alertEngine)
	alertSvc := alerts.NewService(txRunner, reads, log)

	// PDF: ticket de venta de 80mm
	ticketGenerator := infrapdf.NewTicketGenerator(cfg.App.Name)
	reportSvc := reports.NewService(reads, ticketGenerator)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Sales:          saleLedger,
		Offers:         offerSvc,
		Inventory:      inventorySvc,
		Alerts:         alertSvc,
		Reports:        reportSvc,
		Policy:         httpRouter.DefaultPolicy(),
		JWTSecret:      cfg.JWT.Secret,
		Logger:         log,
		Production:     cfg.App.IsProduction(),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		ExpiryDays:     cfg.Alerts.ExpiryDays,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Punto de Venta API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrateUp(dsn string) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
