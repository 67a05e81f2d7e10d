package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/internal/jobs"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

type scannerFunc func(ctx context.Context, days int) ([]*entity.Alert, error)

func (f scannerFunc) ScanExpiry(ctx context.Context, days int) ([]*entity.Alert, error) {
	return f(ctx, days)
}

func TestNewExpiryScanTask(t *testing.T) {
	task, err := jobs.NewExpiryScanTask(jobs.ExpiryScanPayload{Days: 3})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskExpiryScan, task.Type())
	assert.JSONEq(t, `{"dias":3}`, string(task.Payload()))

	_, err = jobs.NewExpiryScanTask(jobs.ExpiryScanPayload{Days: -1})
	assert.Error(t, err)
}

func TestExpiryScanJob_CreaAlertas(t *testing.T) {
	hoy := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	vence := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "p1", Name: "Leche", Stock: decimal.NewFromInt(4), ExpiresAt: &vence})
	svc := alerts.NewService(s, s.Repos(), logger.Nop()).WithClock(func() time.Time { return hoy })

	job := jobs.NewExpiryScanJob(svc, 7, logger.Nop())
	task, err := jobs.NewExpiryScanTask(jobs.ExpiryScanPayload{Days: 7})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.NoError(t, job.Handle(context.Background(), task))

	all := s.AllAlerts()
	require.Len(t, all, 1)
	assert.Equal(t, entity.AlertExpiry, all[0].Kind)
	assert.Equal(t, "p1", all[0].ProductID)
}

func TestExpiryScanJob_DiasPorDefecto(t *testing.T) {
	var got int
	job := jobs.NewExpiryScanJob(scannerFunc(func(_ context.Context, days int) ([]*entity.Alert, error) {
		got = days
		return nil, nil
	}), 7, logger.Nop())

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(jobs.TaskExpiryScan, nil)))
	assert.Equal(t, 7, got)
}

func TestExpiryScanJob_Errores(t *testing.T) {
	t.Run("payload corrupto no se reintenta", func(t *testing.T) {
		job := jobs.NewExpiryScanJob(scannerFunc(func(context.Context, int) ([]*entity.Alert, error) {
			t.Fatal("no debe escanear")
			return nil, nil
		}), 7, logger.Nop())
		err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskExpiryScan, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("validación no se reintenta", func(t *testing.T) {
		job := jobs.NewExpiryScanJob(scannerFunc(func(context.Context, int) ([]*entity.Alert, error) {
			return nil, domain.ErrInvalidInput
		}), 7, logger.Nop())
		data, _ := json.Marshal(jobs.ExpiryScanPayload{Days: 400})
		err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskExpiryScan, data))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("fallo transitorio se reintenta", func(t *testing.T) {
		boom := errors.New("conexión perdida")
		job := jobs.NewExpiryScanJob(scannerFunc(func(context.Context, int) ([]*entity.Alert, error) {
			return nil, boom
		}), 7, logger.Nop())
		err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskExpiryScan, nil))
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}
