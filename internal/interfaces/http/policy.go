package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// Recursos protegidos por la tabla de permisos.
const (
	ResourceSales     = "ventas"
	ResourceOffers    = "ofertas"
	ResourceInventory = "inventario"
	ResourceAlerts    = "alertas"
	ResourceReports   = "reportes"
)

// Acciones sobre un recurso.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Permission es una fila (rol, recurso, acción) de la tabla de permisos.
type Permission struct {
	Role     string
	Resource string
	Action   string
}

// Policy es la tabla de permisos. Se construye una vez al arrancar y no se modifica.
type Policy struct {
	allowed map[Permission]struct{}
}

// NewPolicy construye la tabla a partir de sus filas.
func NewPolicy(perms ...Permission) *Policy {
	p := &Policy{allowed: make(map[Permission]struct{}, len(perms))}
	for _, perm := range perms {
		p.allowed[perm] = struct{}{}
	}
	return p
}

// Allows indica si role puede ejecutar action sobre resource.
func (p *Policy) Allows(role, resource, action string) bool {
	if p == nil {
		return false
	}
	_, ok := p.allowed[Permission{Role: role, Resource: resource, Action: action}]
	return ok
}

// DefaultPolicy devuelve la tabla de permisos del punto de venta.
func DefaultPolicy() *Policy {
	var perms []Permission
	grant := func(role, resource string, actions ...string) {
		for _, a := range actions {
			perms = append(perms, Permission{Role: role, Resource: resource, Action: a})
		}
	}
	all := []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	for _, res := range []string{ResourceSales, ResourceOffers, ResourceInventory, ResourceAlerts, ResourceReports} {
		grant(entity.RoleAdmin, res, all...)
	}

	grant(entity.RoleCashier, ResourceSales, ActionCreate, ActionRead)
	grant(entity.RoleCashier, ResourceOffers, ActionRead)
	grant(entity.RoleCashier, ResourceAlerts, ActionRead)

	grant(entity.RoleWarehouse, ResourceInventory, ActionRead, ActionUpdate)
	grant(entity.RoleWarehouse, ResourceAlerts, ActionRead, ActionUpdate)
	grant(entity.RoleWarehouse, ResourceOffers, ActionRead)
	grant(entity.RoleWarehouse, ResourceSales, ActionRead)

	return NewPolicy(perms...)
}

// Authorize devuelve un middleware que consulta la tabla de permisos con el rol del token.
// Debe usarse DESPUÉS de AuthMiddleware.
func Authorize(policy *Policy, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("MISSING_ROLE", "el token no incluye rol"))
		}
		if !policy.Allows(role, resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.NewError("FORBIDDEN", "el rol '"+role+"' no puede "+action+" "+resource))
		}
		return c.Next()
	}
}
