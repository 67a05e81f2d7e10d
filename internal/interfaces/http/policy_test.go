package http_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apphttp "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
)

func TestDefaultPolicy(t *testing.T) {
	p := apphttp.DefaultPolicy()
	cases := []struct {
		role, resource, action string
		want                   bool
	}{
		{"admin", apphttp.ResourceReports, apphttp.ActionRead, true},
		{"admin", apphttp.ResourceOffers, apphttp.ActionDelete, true},
		{"cajero", apphttp.ResourceSales, apphttp.ActionCreate, true},
		{"cajero", apphttp.ResourceOffers, apphttp.ActionRead, true},
		{"cajero", apphttp.ResourceOffers, apphttp.ActionUpdate, false},
		{"cajero", apphttp.ResourceInventory, apphttp.ActionUpdate, false},
		{"cajero", apphttp.ResourceAlerts, apphttp.ActionUpdate, false},
		{"cajero", apphttp.ResourceReports, apphttp.ActionRead, false},
		{"almacenista", apphttp.ResourceInventory, apphttp.ActionUpdate, true},
		{"almacenista", apphttp.ResourceAlerts, apphttp.ActionUpdate, true},
		{"almacenista", apphttp.ResourceSales, apphttp.ActionRead, true},
		{"almacenista", apphttp.ResourceSales, apphttp.ActionCreate, false},
		{"almacenista", apphttp.ResourceOffers, apphttp.ActionCreate, false},
		{"invitado", apphttp.ResourceSales, apphttp.ActionRead, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Allows(tc.role, tc.resource, tc.action), "%s %s/%s", tc.role, tc.resource, tc.action)
	}
}

func TestPolicy_NilNoPermiteNada(t *testing.T) {
	var p *apphttp.Policy
	assert.False(t, p.Allows("admin", apphttp.ResourceSales, apphttp.ActionRead))
}

func TestNewPolicy_SoloFilasDeclaradas(t *testing.T) {
	p := apphttp.NewPolicy(apphttp.Permission{Role: "auditor", Resource: apphttp.ResourceReports, Action: apphttp.ActionRead})
	assert.True(t, p.Allows("auditor", apphttp.ResourceReports, apphttp.ActionRead))
	assert.False(t, p.Allows("admin", apphttp.ResourceReports, apphttp.ActionRead))
}
