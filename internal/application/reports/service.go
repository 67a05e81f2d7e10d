package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// maxRangeDays rango máximo del reporte diario.
const maxRangeDays = 366

// TicketLine línea del ticket ya resuelta con el nombre del producto.
type TicketLine struct {
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// TicketGenerator genera el ticket de venta en PDF.
type TicketGenerator interface {
	GenerateSaleTicket(ctx context.Context, sale *entity.Sale, lines []TicketLine) ([]byte, error)
}

// Service reportes de ventas.
type Service struct {
	reads  repository.TxRepos
	ticket TicketGenerator
}

// NewService construye el servicio de reportes. ticket puede ser nil si no se exponen tickets.
func NewService(reads repository.TxRepos, ticket TicketGenerator) *Service {
	return &Service{reads: reads, ticket: ticket}
}

// DailySales resume ventas por día entre from y to (ambas fechas inclusivas).
func (s *Service) DailySales(ctx context.Context, from, to time.Time) ([]entity.DailySales, error) {
	from, to = entity.DateOf(from), entity.DateOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: el rango no puede superar %d días", domain.ErrInvalidInput, maxRangeDays)
	}
	return s.reads.Sales.SummarizeByDay(ctx, from, to)
}

// SaleTicket genera el PDF del ticket de una venta.
func (s *Service) SaleTicket(ctx context.Context, saleID string) ([]byte, error) {
	if s.ticket == nil {
		return nil, fmt.Errorf("reports: generador de tickets no configurado")
	}
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := s.reads.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}

	names := make(map[string]string, len(sale.Lines))
	lines := make([]TicketLine, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		name := "Producto eliminado"
		if l.ProductID != nil {
			if cached, ok := names[*l.ProductID]; ok {
				name = cached
			} else {
				p, err := s.reads.Products.GetByID(ctx, *l.ProductID)
				if err != nil {
					return nil, err
				}
				if p != nil {
					name = p.Name
				}
				names[*l.ProductID] = name
			}
		}
		lines = append(lines, TicketLine{
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return s.ticket.GenerateSaleTicket(ctx, sale, lines)
}
