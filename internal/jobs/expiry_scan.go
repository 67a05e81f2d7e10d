package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// ExpiryScanner es lo que el job necesita del servicio de alertas.
type ExpiryScanner interface {
	ScanExpiry(ctx context.Context, days int) ([]*entity.Alert, error)
}

// ExpiryScanJob ejecuta el escaneo de caducidad desde la cola.
type ExpiryScanJob struct {
	scanner     ExpiryScanner
	defaultDays int
	log         *logger.Logger
}

// NewExpiryScanJob crea el handler. defaultDays se usa si el payload no trae días.
func NewExpiryScanJob(scanner ExpiryScanner, defaultDays int, log *logger.Logger) *ExpiryScanJob {
	return &ExpiryScanJob{scanner: scanner, defaultDays: defaultDays, log: log.Component("job_caducidad")}
}

// Handle procesa tareas TaskExpiryScan.
func (j *ExpiryScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.scanner == nil {
		return errors.New("escaneo de caducidad: handler no configurado")
	}
	var payload ExpiryScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
	}
	if payload.Days <= 0 {
		payload.Days = j.defaultDays
	}

	created, err := j.scanner.ScanExpiry(ctx, payload.Days)
	if err != nil {
		j.log.Error().Err(err).Int("dias", payload.Days).Msg("escaneo de caducidad fallido")
		if domain.KindOf(err) == domain.KindValidation {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	j.log.Info().Int("dias", payload.Days).Int("alertas", len(created)).Msg("escaneo de caducidad completado")
	return nil
}
