package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInactiveOffer     = errors.New("no se puede asignar una oferta inactiva")
	ErrOfferInUse        = errors.New("la oferta tiene productos asignados")
)

// Kind clasifica un error en la taxonomía que ve el cliente.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConsistency
	KindUnauthorized
	KindForbidden
)

// String devuelve el código estable del tipo de error.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindConsistency:
		return "CONSISTENCY"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// El orden importa: un error que envuelve varios sentinels se clasifica por el primero.
var kindTable = []struct {
	target error
	kind   Kind
}{
	{ErrInsufficientStock, KindConsistency},
	{ErrInactiveOffer, KindValidation},
	{ErrInvalidInput, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrDuplicate, KindConflict},
	{ErrOfferInUse, KindConflict},
	{ErrConflict, KindConflict},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
}

// KindOf clasifica err recorriendo su cadena de wrapping. Lo no reconocido es KindInternal.
func KindOf(err error) Kind {
	_, kind := classify(err)
	return kind
}

// SentinelOf devuelve el error de dominio que clasifica a err, o nil si no hay ninguno.
func SentinelOf(err error) error {
	sentinel, _ := classify(err)
	return sentinel
}

func classify(err error) (error, Kind) {
	if err == nil {
		return nil, KindInternal
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.target) {
			return entry.target, entry.kind
		}
	}
	return nil, KindInternal
}
