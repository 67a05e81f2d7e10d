package entity

import "time"

// Roles de usuario reconocidos por la tabla de permisos.
const (
	RoleAdmin     = "admin"
	RoleCashier   = "cajero"
	RoleWarehouse = "almacenista"
)

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleWarehouse:
		return true
	}
	return false
}

// User es el operador que registra ventas y movimientos. El alta y el login viven fuera del
// núcleo; aquí solo se necesita su id y su rol.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Active    bool
	CreatedAt time.Time
}
