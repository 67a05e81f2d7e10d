package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// Service consultas y mantenimiento de alertas. Las alertas de caducidad se calculan por
// consulta (dependen del reloj, no de un cambio de stock).
type Service struct {
	txRunner repository.TxRunner
	reads    repository.TxRepos
	now      func() time.Time
	log      *logger.Logger
}

// NewService construye el servicio de alertas.
func NewService(txRunner repository.TxRunner, reads repository.TxRepos, log *logger.Logger) *Service {
	return &Service{txRunner: txRunner, reads: reads, now: utcNow, log: log.Component("alertas")}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListPending lista alertas sin atender, más recientes primero.
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*entity.Alert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.reads.Alerts.ListPending(ctx, limit, offset)
}

// Acknowledge marca la alerta como atendida.
func (s *Service) Acknowledge(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Alerts.Acknowledge(ctx, id)
	})
}

// ExpiringProducts lista productos con stock cuya caducidad cae dentro de los próximos days días
// (incluye los ya vencidos).
func (s *Service) ExpiringProducts(ctx context.Context, days int) ([]*entity.Product, error) {
	if days < 0 || days > 365 {
		return nil, fmt.Errorf("%w: días fuera de rango", domain.ErrInvalidInput)
	}
	until := entity.DateOf(s.now()).AddDate(0, 0, days)
	return s.reads.Products.ListExpiring(ctx, until)
}

// ScanExpiry crea alertas de caducidad para los productos próximos a vencer que no tengan
// ya una alerta de caducidad pendiente. Devuelve las alertas creadas.
func (s *Service) ScanExpiry(ctx context.Context, days int) ([]*entity.Alert, error) {
	if days < 0 || days > 365 {
		return nil, fmt.Errorf("%w: días fuera de rango", domain.ErrInvalidInput)
	}
	today := entity.DateOf(s.now())
	until := today.AddDate(0, 0, days)

	var created []*entity.Alert
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		created = created[:0]
		products, err := repos.Products.ListExpiring(ctx, until)
		if err != nil {
			return err
		}
		for _, p := range products {
			pending, err := repos.Alerts.HasPending(ctx, p.ID, entity.AlertExpiry)
			if err != nil {
				return err
			}
			if pending {
				continue
			}
			alert := &entity.Alert{
				ID:        uuid.New().String(),
				ProductID: p.ID,
				Kind:      entity.AlertExpiry,
				Message:   expiryMessage(p, today),
				Date:      s.now(),
			}
			if err := repos.Alerts.Create(ctx, alert); err != nil {
				return err
			}
			created = append(created, alert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("dias", days).Int("alertas", len(created)).Msg("escaneo de caducidad")
	return created, nil
}

func expiryMessage(p *entity.Product, today time.Time) string {
	if p.ExpiresAt == nil {
		return fmt.Sprintf("%s sin fecha de caducidad", p.Name)
	}
	exp := entity.DateOf(*p.ExpiresAt)
	days := int(exp.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("%s venció el %s", p.Name, exp.Format("2006-01-02"))
	case days == 0:
		return fmt.Sprintf("%s vence hoy", p.Name)
	default:
		return fmt.Sprintf("%s vence en %d días (%s)", p.Name, days, exp.Format("2006-01-02"))
	}
}
