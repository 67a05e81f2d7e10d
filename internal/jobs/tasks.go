package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola por defecto de los trabajos en segundo plano.
	QueueDefault = "default"
	// TaskExpiryScan genera alertas de caducidad para productos próximos a vencer.
	TaskExpiryScan = "alertas:caducidad"
)

// ExpiryScanPayload parámetros del escaneo de caducidad.
type ExpiryScanPayload struct {
	Days int `json:"dias"`
}

// NewExpiryScanTask construye la tarea de escaneo de caducidad.
func NewExpiryScanTask(payload ExpiryScanPayload) (*asynq.Task, error) {
	if payload.Days < 0 {
		return nil, fmt.Errorf("jobs: días negativos (%d)", payload.Days)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpiryScan, data), nil
}
