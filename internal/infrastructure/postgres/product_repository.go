package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nombre, codigo_barras, precio_compra, precio_venta, stock, unidad_medida,
		fecha_caducidad, proveedor_id, categoria_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id, "get producto")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id, "get producto for update")
}

func (r *ProductRepo) get(ctx context.Context, query, id, op string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return p, nil
}

// UpdateStock fija el stock del producto. La verificación de no-negatividad la hace el StockLedger;
// el CHECK de la tabla es la última barrera.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE productos SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return mapError("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListExpiring lista productos con stock cuya caducidad es <= until, los más próximos primero.
func (r *ProductRepo) ListExpiring(ctx context.Context, until time.Time) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE fecha_caducidad IS NOT NULL AND fecha_caducidad <= $1 AND stock > 0
		ORDER BY fecha_caducidad, id`
	rows, err := r.q.Query(ctx, query, entity.DateOf(until))
	if err != nil {
		return nil, mapError("list productos por caducar", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan producto", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var barcode *string
	err := row.Scan(
		&p.ID, &p.Name, &barcode, &p.PurchasePrice, &p.SalePrice, &p.Stock, &p.Unit,
		&p.ExpiresAt, &p.SupplierID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	return &p, nil
}
