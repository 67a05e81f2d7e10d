package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/puntoventa-api/internal/domain"
)

// UpdateBuilder arma un UPDATE parcial parametrizado. Solo acepta columnas de una lista blanca
// fija; los valores siempre viajan como parámetros ($n), nunca concatenados al SQL.
type UpdateBuilder struct {
	table   string
	allowed map[string]struct{}
	sets    []string
	args    []any
	err     error
}

// NewUpdateBuilder crea un builder para table con las columnas permitidas.
func NewUpdateBuilder(table string, allowed ...string) *UpdateBuilder {
	m := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		m[c] = struct{}{}
	}
	return &UpdateBuilder{table: table, allowed: m}
}

// Set agrega "column = $n". Una columna fuera de la lista blanca invalida el builder.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	if b.err != nil {
		return b
	}
	if _, ok := b.allowed[column]; !ok {
		b.err = fmt.Errorf("%w: columna %q no actualizable en %s", domain.ErrInvalidInput, column, b.table)
		return b
	}
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
	return b
}

// Touch agrega "column = now()" (no cuenta como cambio para Empty).
func (b *UpdateBuilder) Touch(column string) *UpdateBuilder {
	b.sets = append(b.sets, column+" = now()")
	return b
}

// Empty indica si no se agregó ningún valor.
func (b *UpdateBuilder) Empty() bool {
	return len(b.args) == 0
}

// Build devuelve el SQL y sus argumentos, filtrando por whereColumn = whereValue.
func (b *UpdateBuilder) Build(whereColumn string, whereValue any) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if b.Empty() {
		return "", nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}
	args := append(append([]any{}, b.args...), whereValue)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		b.table, strings.Join(b.sets, ", "), whereColumn, len(args))
	return sql, args, nil
}
