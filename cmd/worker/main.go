package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/puntoventa-api/internal/jobs"
	"github.com/jhoicas/puntoventa-api/pkg/config"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR es requerido para el worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	alertSvc := alerts.NewService(postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log), postgres.NewRepos(pool), log)
	expiryJob := jobs.NewExpiryScanJob(alertSvc, cfg.Alerts.ExpiryDays, log)

	scanTask, err := jobs.NewExpiryScanTask(jobs.ExpiryScanPayload{Days: cfg.Alerts.ExpiryDays})
	if err != nil {
		log.Fatal().Err(err).Msg("tarea de caducidad")
	}

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExpiryScan, Handler: expiryJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Alerts.ExpiryCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Str("cron_caducidad", cfg.Alerts.ExpiryCron).
		Msg("iniciando worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
