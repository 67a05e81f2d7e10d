// Package pdf genera el ticket de venta en PDF.
//
// Layout (ancho de rollo 80 mm):
//
//	┌──────────────────────────────┐
//	│  Nombre de la tienda         │
//	│  Venta N° / Fecha / Pago     │
//	│  ──────────────────────────  │
//	│  Cant | Producto | Subtotal  │
//	│  ──────────────────────────  │
//	│  Subtotal / Impuesto / TOTAL │
//	│  Leyenda                     │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
}

// TicketGenerator implementa reports.TicketGenerator usando Maroto v2.
type TicketGenerator struct {
	storeName string
}

// NewTicketGenerator construye el generador; storeName encabeza el ticket.
func NewTicketGenerator(storeName string) *TicketGenerator {
	return &TicketGenerator{storeName: storeName}
}

var _ reports.TicketGenerator = (*TicketGenerator)(nil)

// GenerateSaleTicket genera el PDF y devuelve sus bytes.
func (g *TicketGenerator) GenerateSaleTicket(_ context.Context, sale *entity.Sale, lines []reports.TicketLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(80, ticketHeight(len(lines))).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Ticket de venta "+shortID(sale.ID), true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRows(lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ticketHeight alto de página en mm según la cantidad de líneas.
func ticketHeight(n int) float64 {
	return 95 + float64(n)*6
}

func headerRow(storeName string, sale *entity.Sale) core.Row {
	pago := paymentLabels[sale.PaymentMethod]
	if pago == "" {
		pago = sale.PaymentMethod
	}
	return row.New(22).Add(
		col.New(12).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New("Venta N° "+shortID(sale.ID), props.Text{
				Size: 7, Align: align.Center, Top: 8,
			}),
			text.New(sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Center, Top: 12, Color: colorGray,
			}),
			text.New("Pago: "+pago, props.Text{
				Size: 7, Align: align.Center, Top: 16, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 1,
		}))
	}
	return row.New(5).Add(
		h("Cant.", 2, align.Left),
		h("Producto", 6, align.Left),
		h("Subtotal", 4, align.Right),
	)
}

// detailRows una fila por línea; el precio unitario va bajo el nombre.
func detailRows(lines []reports.TicketLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 7, Top: 0.5})),
			col.New(6).Add(
				text.New(l.ProductName, props.Text{Size: 7, Top: 0.5}),
				text.New("@ $"+formatMoney(l.UnitPrice), props.Text{Size: 6, Top: 3.5, Color: colorGray}),
			),
			col.New(4).Add(text.New("$"+formatMoney(l.Subtotal), props.Text{Size: 7, Align: align.Right, Top: 0.5})),
		))
	}
	return result
}

func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 7, Align: align.Right, Right: 2, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 2, Top: top,
		})
	}
	return row.New(16).Add(
		col.New(7).Add(
			label("Subtotal:", 1),
			label("Impuesto:", 5),
			grand("TOTAL:", 10),
		),
		col.New(5).Add(
			label("$"+formatMoney(sale.Subtotal), 1),
			label("$"+formatMoney(sale.Tax), 5),
			grand("$"+formatMoney(sale.Total), 10),
		),
	)
}

func footerRows(sale *entity.Sale) []core.Row {
	return []core.Row{
		row.New(14).Add(col.New(12).Add(code.NewBar(sale.ID, props.Barcode{Percent: 90, Center: true}))),
		row.New(8).Add(col.New(12).Add(
			text.New("Gracias por su compra. Conserve este ticket para cambios y devoluciones.", props.Text{
				Size: 6, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con 2 decimales, puntos de miles y coma decimal.
// Ej: 25000.5 → "25.000,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
