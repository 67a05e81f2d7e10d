package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

type productRepo struct{ acc accessor }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(false, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: Run ya serializa las transacciones.
func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	return r.acc(true, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		p.Stock = stock
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r productRepo) ListExpiring(_ context.Context, until time.Time) ([]*entity.Product, error) {
	limit := entity.DateOf(until)
	var out []*entity.Product
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if p.ExpiresAt == nil || !p.Stock.IsPositive() {
				continue
			}
			if entity.DateOf(*p.ExpiresAt).After(limit) {
				continue
			}
			out = append(out, copyProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(*out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(*out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

type saleRepo struct{ acc accessor }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, sale.ID)
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

func (r saleRepo) CreateLine(_ context.Context, line *entity.SaleLine) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.sales[line.SaleID]; !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, line.SaleID)
		}
		if line.ProductID != nil {
			if _, ok := st.products[*line.ProductID]; !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, *line.ProductID)
			}
		}
		if !line.Quantity.IsPositive() || !line.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: línea con cantidad o precio no positivo", domain.ErrInvalidInput)
		}
		st.lines = append(st.lines, copyLine(line))
		return nil
	})
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.acc(false, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return nil
		}
		out = copySale(s)
		for _, l := range st.lines {
			if l.SaleID == id {
				out.Lines = append(out.Lines, *copyLine(l))
			}
		}
		return nil
	})
	return out, err
}

func (r saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var all []*entity.Sale
	err := r.acc(false, func(st *state) error {
		for _, s := range st.sales {
			if f.UserID != "" && s.UserID != f.UserID {
				continue
			}
			if f.From != nil && s.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && s.Date.After(*f.To) {
				continue
			}
			all = append(all, copySale(s))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, f.Limit, f.Offset), err
}

func (r saleRepo) SummarizeByDay(_ context.Context, from, to time.Time) ([]entity.DailySales, error) {
	first, last := entity.DateOf(from), entity.DateOf(to)
	byDay := make(map[time.Time]*entity.DailySales)
	err := r.acc(false, func(st *state) error {
		for _, s := range st.sales {
			day := entity.DateOf(s.Date)
			if day.Before(first) || day.After(last) {
				continue
			}
			d, ok := byDay[day]
			if !ok {
				d = &entity.DailySales{Day: day}
				byDay[day] = d
			}
			d.Count++
			d.Subtotal = d.Subtotal.Add(s.Subtotal)
			d.Tax = d.Tax.Add(s.Tax)
			d.Total = d.Total.Add(s.Total)
		}
		return nil
	})
	out := make([]entity.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, err
}

type historyRepo struct{ acc accessor }

func (r historyRepo) Append(_ context.Context, h *entity.InventoryHistory) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.products[h.ProductID]; !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, h.ProductID)
		}
		cp := *h
		st.history = append(st.history, &cp)
		return nil
	})
}

func (r historyRepo) ListByProduct(_ context.Context, productID string, f repository.HistoryFilter) ([]*entity.InventoryHistory, error) {
	var out []*entity.InventoryHistory
	err := r.acc(false, func(st *state) error {
		// Recorrido inverso: más reciente primero
		for i := len(st.history) - 1; i >= 0; i-- {
			h := st.history[i]
			if h.ProductID != productID {
				continue
			}
			if f.From != nil && h.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && h.Date.After(*f.To) {
				continue
			}
			cp := *h
			out = append(out, &cp)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), err
}

type alertRepo struct{ acc accessor }

func (r alertRepo) Create(_ context.Context, a *entity.Alert) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.products[a.ProductID]; !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, a.ProductID)
		}
		cp := *a
		st.alerts = append(st.alerts, &cp)
		return nil
	})
}

func (r alertRepo) ListPending(_ context.Context, limit, offset int) ([]*entity.Alert, error) {
	var out []*entity.Alert
	err := r.acc(false, func(st *state) error {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			if a := st.alerts[i]; !a.Acknowledged {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), err
}

func (r alertRepo) HasPending(_ context.Context, productID, kind string) (bool, error) {
	var found bool
	err := r.acc(false, func(st *state) error {
		for _, a := range st.alerts {
			if a.ProductID == productID && a.Kind == kind && !a.Acknowledged {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r alertRepo) Acknowledge(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		for _, a := range st.alerts {
			if a.ID == id {
				a.Acknowledged = true
				return nil
			}
		}
		return fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	})
}

type offerRepo struct{ acc accessor }

func (r offerRepo) Create(_ context.Context, o *entity.Offer) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.offers[o.ID]; ok {
			return fmt.Errorf("%w: oferta %s", domain.ErrDuplicate, o.ID)
		}
		cp := *o
		st.offers[o.ID] = &cp
		return nil
	})
}

func (r offerRepo) GetByID(_ context.Context, id string) (*entity.Offer, error) {
	var out *entity.Offer
	err := r.acc(false, func(st *state) error {
		if o, ok := st.offers[id]; ok {
			cp := *o
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r offerRepo) GetForShare(ctx context.Context, id string) (*entity.Offer, error) {
	return r.GetByID(ctx, id)
}

func (r offerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Offer, error) {
	return r.GetByID(ctx, id)
}

func (r offerRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.Offer, error) {
	var out []*entity.Offer
	err := r.acc(false, func(st *state) error {
		for _, o := range st.offers {
			if onlyActive && !o.Active {
				continue
			}
			cp := *o
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), err
}

func (r offerRepo) Update(_ context.Context, id string, patch entity.OfferPatch) error {
	return r.acc(true, func(st *state) error {
		o, ok := st.offers[id]
		if !ok {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		updated := patch.Apply(*o)
		updated.UpdatedAt = time.Now()
		st.offers[id] = &updated
		return nil
	})
}

func (r offerRepo) Delete(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.offers[id]; !ok {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		for k := range st.productOffers {
			if k.OfferID == id {
				return fmt.Errorf("%w: oferta %s", domain.ErrOfferInUse, id)
			}
		}
		delete(st.offers, id)
		return nil
	})
}

type productOfferRepo struct{ acc accessor }

func (r productOfferRepo) Exists(_ context.Context, productID, offerID string) (bool, error) {
	var ok bool
	err := r.acc(false, func(st *state) error {
		_, ok = st.productOffers[entity.ProductOffer{ProductID: productID, OfferID: offerID}]
		return nil
	})
	return ok, err
}

func (r productOfferRepo) Create(_ context.Context, po entity.ProductOffer) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.products[po.ProductID]; !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, po.ProductID)
		}
		if _, ok := st.offers[po.OfferID]; !ok {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, po.OfferID)
		}
		if _, ok := st.productOffers[po]; ok {
			return fmt.Errorf("%w: producto %s ya tiene la oferta %s", domain.ErrDuplicate, po.ProductID, po.OfferID)
		}
		st.productOffers[po] = struct{}{}
		return nil
	})
}

func (r productOfferRepo) Delete(_ context.Context, productID, offerID string) (bool, error) {
	var deleted bool
	err := r.acc(true, func(st *state) error {
		key := entity.ProductOffer{ProductID: productID, OfferID: offerID}
		if _, ok := st.productOffers[key]; ok {
			delete(st.productOffers, key)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (r productOfferRepo) CountByOffer(_ context.Context, offerID string) (int, error) {
	var n int
	err := r.acc(false, func(st *state) error {
		for k := range st.productOffers {
			if k.OfferID == offerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r productOfferRepo) ListOffersByProduct(_ context.Context, productID string) ([]*entity.Offer, error) {
	var out []*entity.Offer
	err := r.acc(false, func(st *state) error {
		for k := range st.productOffers {
			if k.ProductID != productID {
				continue
			}
			if o, ok := st.offers[k.OfferID]; ok {
				cp := *o
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r productOfferRepo) ListProductIDsByOffer(_ context.Context, offerID string) ([]string, error) {
	var out []string
	err := r.acc(false, func(st *state) error {
		for k := range st.productOffers {
			if k.OfferID == offerID {
				out = append(out, k.ProductID)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
