package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO ventas (id, fecha, usuario_id, metodo_pago, subtotal, impuesto, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Date, sale.UserID, sale.PaymentMethod, sale.Subtotal, sale.Tax, sale.Total,
	)
	return mapError("insert venta", err)
}

// CreateLine persiste una línea de detalle.
func (r *SaleRepo) CreateLine(ctx context.Context, line *entity.SaleLine) error {
	query := `
		INSERT INTO detalle_venta (id, venta_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	return mapError("insert detalle_venta", err)
}

// GetByID obtiene la venta con sus líneas en el orden en que se registraron. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, fecha, usuario_id, metodo_pago, subtotal, impuesto, total
		FROM ventas WHERE id = $1`
	sale, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get venta", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalle_venta WHERE venta_id = $1 ORDER BY numero`, id)
	if err != nil {
		return nil, mapError("list detalle_venta", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, mapError("scan detalle_venta", err)
		}
		sale.Lines = append(sale.Lines, l)
	}
	return sale, rows.Err()
}

// List lista cabeceras de venta, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("usuario_id = $%d", f.UserID)
	}
	if f.From != nil {
		add("fecha >= $%d", *f.From)
	}
	if f.To != nil {
		add("fecha <= $%d", *f.To)
	}

	query := `SELECT id, fecha, usuario_id, metodo_pago, subtotal, impuesto, total FROM ventas`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY fecha DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ventas", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, mapError("scan venta", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SummarizeByDay agrupa las ventas por día (UTC) entre from y to, ambas inclusivas.
func (r *SaleRepo) SummarizeByDay(ctx context.Context, from, to time.Time) ([]entity.DailySales, error) {
	query := `
		SELECT (fecha AT TIME ZONE 'UTC')::date AS dia, count(*), sum(subtotal), sum(impuesto), sum(total)
		FROM ventas
		WHERE (fecha AT TIME ZONE 'UTC')::date BETWEEN $1 AND $2
		GROUP BY dia
		ORDER BY dia`
	rows, err := r.q.Query(ctx, query, entity.DateOf(from), entity.DateOf(to))
	if err != nil {
		return nil, mapError("resumen ventas", err)
	}
	defer rows.Close()
	var out []entity.DailySales
	for rows.Next() {
		var d entity.DailySales
		if err := rows.Scan(&d.Day, &d.Count, &d.Subtotal, &d.Tax, &d.Total); err != nil {
			return nil, mapError("scan resumen", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanSale(row pgxScanner) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.Date, &s.UserID, &s.PaymentMethod, &s.Subtotal, &s.Tax, &s.Total); err != nil {
		return nil, err
	}
	return &s, nil
}
