package http_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	apphttp "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
)

func TestValidator_DecimalesYNombresJSON(t *testing.T) {
	v := apphttp.NewValidator()

	ok := dto.CreateSaleRequest{
		PaymentMethod: "tarjeta",
		Lines:         []dto.SaleLineRequest{{ProductID: "p1", Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.Zero}},
	}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.Lines = []dto.SaleLineRequest{{ProductID: "p1", Quantity: decimal.RequireFromString("-1"), UnitPrice: decimal.NewFromInt(1)}}
	err := v.Struct(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "productos[0].cantidad")
}

func TestValidator_PatchOferta(t *testing.T) {
	v := apphttp.NewValidator()
	assert.NoError(t, v.Struct(dto.UpdateOfferRequest{}))

	pct := decimal.NewFromInt(101)
	err := v.Struct(dto.UpdateOfferRequest{DiscountPercent: &pct})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "porcentaje_descuento")

	fecha := "2026-13-01"
	assert.Error(t, v.Struct(dto.UpdateOfferRequest{StartDate: &fecha}))
}
