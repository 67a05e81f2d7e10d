package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/pricing"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// Ledger registra ventas: cabecera, detalle, salida de stock por línea y alertas, todo en una
// sola transacción. Si algo falla no queda rastro de la venta.
type Ledger struct {
	txRunner repository.TxRunner
	reads    repository.TxRepos
	stock    StockApplier
	alerts   AlertEvaluator
	taxRate  decimal.Decimal
	now      func() time.Time
	log      *logger.Logger
}

// Config parámetros del ledger.
type Config struct {
	TaxRate decimal.Decimal // fracción: 0.19 = 19%
}

// NewLedger construye el ledger de ventas.
func NewLedger(
	txRunner repository.TxRunner,
	reads repository.TxRepos,
	stock StockApplier,
	alerts AlertEvaluator,
	cfg Config,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		reads:    reads,
		stock:    stock,
		alerts:   alerts,
		taxRate:  cfg.TaxRate,
		now:      utcNow,
		log:      log.Component("ventas"),
	}
}

// LineInput una línea de la venta tal como llega del caller.
type LineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateSaleInput entrada de CreateSale. UserID viene del token ya autenticado.
type CreateSaleInput struct {
	UserID        string
	PaymentMethod string
	Lines         []LineInput
}

// Validate revisa forma y rangos antes de abrir la transacción.
func (in CreateSaleInput) Validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if !l.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: línea %d con precio no positivo", domain.ErrInvalidInput, i+1)
		}
		if !pricing.FitsPlaces(l.Quantity, pricing.QuantityPlaces) {
			return fmt.Errorf("%w: línea %d, la cantidad admite a lo sumo %d decimales", domain.ErrInvalidInput, i+1, pricing.QuantityPlaces)
		}
		if !pricing.FitsPlaces(l.UnitPrice, pricing.MoneyPlaces) {
			return fmt.Errorf("%w: línea %d, el precio admite a lo sumo %d decimales", domain.ErrInvalidInput, i+1, pricing.MoneyPlaces)
		}
	}
	return nil
}

// CreateSale valida, calcula totales y persiste la venta. Dentro de la tx: inserta cabecera,
// inserta líneas, descuenta stock línea por línea en el orden recibido y luego evalúa alertas
// una vez por producto afectado.
func (l *Ledger) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var sale *entity.Sale
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		// Se reconstruye en cada intento: el runner puede reintentar la unidad de trabajo
		s, err := l.buildSale(in)
		if err != nil {
			return err
		}

		// Existencia de productos antes de mutar nada
		for i, line := range in.Lines {
			product, err := repos.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s (línea %d)", domain.ErrNotFound, line.ProductID, i+1)
			}
		}

		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		for i := range s.Lines {
			if err := repos.Sales.CreateLine(ctx, &s.Lines[i]); err != nil {
				return err
			}
		}

		affected := make([]string, 0, len(in.Lines))
		seen := make(map[string]bool, len(in.Lines))
		for i, line := range in.Lines {
			_, _, err := l.stock.Apply(ctx, repos, entity.StockChange{
				ProductID: line.ProductID,
				Delta:     line.Quantity.Neg(),
				Reason:    entity.ReasonSale,
				UserID:    in.UserID,
			})
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				affected = append(affected, line.ProductID)
			}
		}

		if l.alerts != nil {
			for _, productID := range affected {
				if _, err := l.alerts.Evaluate(ctx, repos, productID); err != nil {
					return err
				}
			}
		}

		sale = s
		return nil
	})
	if err != nil {
		l.log.Warn().Err(err).Str("usuario_id", in.UserID).Int("lineas", len(in.Lines)).Msg("venta rechazada")
		return nil, err
	}

	l.log.Info().
		Str("venta_id", sale.ID).
		Str("usuario_id", sale.UserID).
		Str("metodo_pago", sale.PaymentMethod).
		Int("lineas", len(sale.Lines)).
		Str("total", sale.Total.String()).
		Msg("venta registrada")
	return sale, nil
}

func (l *Ledger) buildSale(in CreateSaleInput) (*entity.Sale, error) {
	saleID := uuid.New().String()
	lines := make([]entity.SaleLine, 0, len(in.Lines))
	subtotals := make([]decimal.Decimal, 0, len(in.Lines))
	for _, li := range in.Lines {
		productID := li.ProductID
		sub := pricing.LineSubtotal(li.Quantity, li.UnitPrice)
		lines = append(lines, entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: &productID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  sub,
		})
		subtotals = append(subtotals, sub)
	}
	subtotal, tax, total := pricing.Totals(subtotals, l.taxRate)
	return &entity.Sale{
		ID:            saleID,
		Date:          l.now(),
		UserID:        in.UserID,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Lines:         lines,
	}, nil
}

// GetByID devuelve la venta con sus líneas.
func (l *Ledger) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := l.reads.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return sale, nil
}

// List lista ventas (sin líneas) con filtros y paginación.
func (l *Ledger) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return l.reads.Sales.List(ctx, filter)
}

func utcNow() time.Time { return time.Now().UTC() }
