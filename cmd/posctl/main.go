package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/puntoventa-api/internal/jobs"
	"github.com/jhoicas/puntoventa-api/pkg/config"
	"github.com/jhoicas/puntoventa-api/pkg/jwt"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "posctl",
		Usage: "operación del punto de venta: migraciones, usuarios, tokens y alertas",
		Commands: []*cli.Command{
			migrateCommand(),
			usersCommand(),
			tokenCommand(),
			alertsCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type env struct {
	cfg *config.Config
	log *logger.Logger
}

func load() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	return &env{cfg: cfg, log: log}, nil
}

func migrateCommand() *cli.Command {
	withMigrator := func(fn func(m *postgres.Migrator) error) error {
		e, err := load()
		if err != nil {
			return err
		}
		m, err := postgres.NewMigrator(e.cfg.DB.ConnectionString())
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m)
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "migraciones de esquema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "aplica las migraciones pendientes",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *postgres.Migrator) error {
						if err := m.Up(); err != nil {
							return err
						}
						return printVersion(c, m)
					})
				},
			},
			{
				Name:  "down",
				Usage: "revierte migraciones",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "cantidad de migraciones a revertir"},
				},
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *postgres.Migrator) error {
						if err := m.Down(c.Int("steps")); err != nil {
							return err
						}
						return printVersion(c, m)
					})
				},
			},
			{
				Name:  "version",
				Usage: "muestra la versión aplicada",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *postgres.Migrator) error {
						return printVersion(c, m)
					})
				},
			},
		},
	}
}

func printVersion(c *cli.Context, m *postgres.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "versión %d (sucia: %t)\n", v, dirty)
	return nil
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "usuarios",
		Usage: "gestión mínima de operadores",
		Subcommands: []*cli.Command{
			{
				Name:  "crear",
				Usage: "crea un usuario y muestra su id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nombre", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "rol", Value: entity.RoleCashier, Usage: "admin | cajero | almacenista"},
				},
				Action: func(c *cli.Context) error {
					role := strings.ToLower(c.String("rol"))
					if !entity.ValidRole(role) {
						return fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
					}
					e, err := load()
					if err != nil {
						return err
					}
					pool, err := postgres.NewPool(c.Context, e.cfg.DB)
					if err != nil {
						return err
					}
					defer pool.Close()

					user := &entity.User{
						ID:        uuid.New().String(),
						Name:      c.String("nombre"),
						Email:     strings.ToLower(c.String("email")),
						Role:      role,
						Active:    true,
						CreatedAt: time.Now().UTC(),
					}
					if err := postgres.NewUserRepository(pool).Create(c.Context, user); err != nil {
						return err
					}
					e.log.Info().Str("usuario_id", user.ID).Str("rol", role).Msg("usuario creado")
					fmt.Fprintln(c.App.Writer, user.ID)
					return nil
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "emite un JWT para un usuario existente (el rol se toma de la base)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "usuario", Required: true, Usage: "id del usuario"},
			&cli.IntFlag{Name: "minutos", Usage: "vigencia; por defecto JWT_EXPIRATION_MINUTES"},
		},
		Action: func(c *cli.Context) error {
			e, err := load()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(c.Context, e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := postgres.NewUserRepository(pool).GetByID(c.Context, c.String("usuario"))
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, c.String("usuario"))
			}
			if !user.Active {
				return fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
			}
			minutes := e.cfg.JWT.Expiration
			if c.IsSet("minutos") {
				minutes = c.Int("minutos")
			}
			tok, err := jwt.Generate(e.cfg.JWT.Secret, user.ID, user.Role, e.cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}

func alertsCommand() *cli.Command {
	daysFlag := &cli.IntFlag{Name: "dias", Usage: "horizonte en días; por defecto ALERT_EXPIRY_DAYS"}
	days := func(c *cli.Context, e *env) int {
		if c.IsSet("dias") {
			return c.Int("dias")
		}
		return e.cfg.Alerts.ExpiryDays
	}
	return &cli.Command{
		Name:  "alertas",
		Usage: "alertas de caducidad",
		Subcommands: []*cli.Command{
			{
				Name:  "escanear",
				Usage: "ejecuta el escaneo de caducidad en este proceso",
				Flags: []cli.Flag{daysFlag},
				Action: func(c *cli.Context) error {
					e, err := load()
					if err != nil {
						return err
					}
					pool, err := postgres.NewPool(c.Context, e.cfg.DB)
					if err != nil {
						return err
					}
					defer pool.Close()

					svc := alerts.NewService(postgres.NewTxRunner(pool, e.cfg.DB.TxMaxRetries, e.log), postgres.NewRepos(pool), e.log)
					created, err := svc.ScanExpiry(c.Context, days(c, e))
					if err != nil {
						return err
					}
					for _, a := range created {
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", a.ProductID, a.Message)
					}
					fmt.Fprintf(c.App.Writer, "%d alertas creadas\n", len(created))
					return nil
				},
			},
			{
				Name:  "encolar",
				Usage: "encola el escaneo de caducidad para el worker",
				Flags: []cli.Flag{daysFlag},
				Action: func(c *cli.Context) error {
					e, err := load()
					if err != nil {
						return err
					}
					if e.cfg.Redis.Addr == "" {
						return errors.New("REDIS_ADDR es requerido para encolar")
					}
					client := jobs.NewClient(asynq.RedisClientOpt{
						Addr:     e.cfg.Redis.Addr,
						Password: e.cfg.Redis.Password,
						DB:       e.cfg.Redis.DB,
					})
					defer client.Close()

					ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
					defer cancel()
					info, err := client.EnqueueExpiryScan(ctx, jobs.ExpiryScanPayload{Days: days(c, e)})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "tarea %s encolada en %s\n", info.ID, info.Queue)
					return nil
				},
			},
		},
	}
}
