package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/pricing"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// Service expone los movimientos de inventario que no son ventas (compras, ajustes, devoluciones)
// y la consulta del historial. Todos los cambios pasan por el StockLedger.
type Service struct {
	txRunner repository.TxRunner
	reads    repository.TxRepos
	ledger   *StockLedger
	alerts   AlertEvaluator
}

// NewService construye el servicio de inventario. reads son repositorios fuera de transacción
// usados solo para consultas.
func NewService(txRunner repository.TxRunner, reads repository.TxRepos, ledger *StockLedger, alerts AlertEvaluator) *Service {
	return &Service{txRunner: txRunner, reads: reads, ledger: ledger, alerts: alerts}
}

// AdjustInput entrada para registrar un movimiento manual de stock.
type AdjustInput struct {
	ProductID string
	Delta     decimal.Decimal
	Reason    string // compra | ajuste | devolucion
	UserID    string
}

// AdjustResult producto con su stock final, la fila de historial y las alertas generadas.
type AdjustResult struct {
	Product *entity.Product
	History *entity.InventoryHistory
	Alerts  []*entity.Alert
}

// Adjust aplica el movimiento y evalúa alertas en una sola transacción.
// Las ventas no entran por aquí: el motivo "venta" se rechaza.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.ProductID == "" || in.UserID == "" || in.Delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Reason {
	case entity.ReasonPurchase, entity.ReasonAdjustment, entity.ReasonReturn:
	default:
		return nil, fmt.Errorf("%w: motivo %q no permitido en ajustes", domain.ErrInvalidInput, in.Reason)
	}
	if !pricing.FitsPlaces(in.Delta, pricing.QuantityPlaces) {
		return nil, fmt.Errorf("%w: el cambio admite a lo sumo %d decimales", domain.ErrInvalidInput, pricing.QuantityPlaces)
	}
	if (in.Reason == entity.ReasonPurchase || in.Reason == entity.ReasonReturn) && in.Delta.IsNegative() {
		return nil, fmt.Errorf("%w: %s debe sumar stock", domain.ErrInvalidInput, in.Reason)
	}

	var result *AdjustResult
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		product, entry, err := s.ledger.Apply(ctx, repos, entity.StockChange{
			ProductID: in.ProductID,
			Delta:     in.Delta,
			Reason:    in.Reason,
			UserID:    in.UserID,
		})
		if err != nil {
			return err
		}
		var alerts []*entity.Alert
		if s.alerts != nil {
			alerts, err = s.alerts.Evaluate(ctx, repos, product.ID)
			if err != nil {
				return err
			}
		}
		result = &AdjustResult{Product: product, History: entry, Alerts: alerts}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History lista el historial de un producto, más reciente primero.
func (s *Service) History(ctx context.Context, productID string, filter repository.HistoryFilter) ([]*entity.InventoryHistory, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	product, err := s.reads.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return s.reads.History.ListByProduct(ctx, productID, filter)
}
