package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"12.5":     "12,50",
		"25000.5":  "25.000,50",
		"1000000":  "1.000.000,00",
		"-1234.56": "-1.234,56",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3F2A9C10", shortID("3f2a9c10-aaaa-bbbb-cccc-000000000000"))
	assert.Equal(t, "ABC", shortID("abc"))
}

func TestGenerateSaleTicket(t *testing.T) {
	g := NewTicketGenerator("Abarrotes La Esquina")
	sale := &entity.Sale{
		ID:            "3f2a9c10-aaaa-bbbb-cccc-000000000000",
		Date:          time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
		PaymentMethod: entity.PaymentCash,
		Subtotal:      decimal.RequireFromString("30"),
		Tax:           decimal.RequireFromString("5.70"),
		Total:         decimal.RequireFromString("35.70"),
	}
	lines := []reports.TicketLine{{
		ProductName: "Leche entera 1L",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(15),
		Subtotal:    decimal.NewFromInt(30),
	}}

	pdf, err := g.GenerateSaleTicket(context.Background(), sale, lines)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
