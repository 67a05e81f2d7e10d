// Package memory implementa los repositorios del núcleo en memoria, con transacciones
// serializadas por copia del estado. Se usa en tests de servicios y handlers.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

type state struct {
	products      map[string]*entity.Product
	sales         map[string]*entity.Sale
	lines         []*entity.SaleLine
	history       []*entity.InventoryHistory
	alerts        []*entity.Alert
	offers        map[string]*entity.Offer
	productOffers map[entity.ProductOffer]struct{}
}

func newState() *state {
	return &state{
		products:      make(map[string]*entity.Product),
		sales:         make(map[string]*entity.Sale),
		offers:        make(map[string]*entity.Offer),
		productOffers: make(map[entity.ProductOffer]struct{}),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = copyProduct(p)
	}
	for id, v := range s.sales {
		c.sales[id] = copySale(v)
	}
	c.lines = make([]*entity.SaleLine, len(s.lines))
	for i, l := range s.lines {
		c.lines[i] = copyLine(l)
	}
	c.history = make([]*entity.InventoryHistory, len(s.history))
	for i, h := range s.history {
		cp := *h
		c.history[i] = &cp
	}
	c.alerts = make([]*entity.Alert, len(s.alerts))
	for i, a := range s.alerts {
		cp := *a
		c.alerts[i] = &cp
	}
	for id, o := range s.offers {
		cp := *o
		c.offers[id] = &cp
	}
	for k := range s.productOffers {
		c.productOffers[k] = struct{}{}
	}
	return c
}

// accessor da a un repositorio acceso al estado, ya sea el de una tx o el vivo.
type accessor func(write bool, f func(*state) error) error

// Store es un TxRunner en memoria. Run trabaja sobre una copia del estado y la publica solo si
// fn retorna nil; las transacciones se ejecutan de a una.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado. Error, panic o contexto cancelado descartan la copia.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	acc := func(_ bool, f func(*state) error) error { return f(work) }
	if err := fn(ctx, reposFor(acc)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada escritura es atómica por sí sola).
// No deben usarse dentro de Run.
func (s *Store) Repos() repository.TxRepos {
	return reposFor(s.live)
}

func (s *Store) live(write bool, f func(*state) error) error {
	if write {
		s.txMu.Lock()
		defer s.txMu.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		return f(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(s.data)
}

func reposFor(acc accessor) repository.TxRepos {
	return repository.TxRepos{
		Products:      productRepo{acc},
		Sales:         saleRepo{acc},
		History:       historyRepo{acc},
		Alerts:        alertRepo{acc},
		Offers:        offerRepo{acc},
		ProductOffers: productOfferRepo{acc},
	}
}

// PutProduct crea o reemplaza un producto (alta de catálogo en tests).
func (s *Store) PutProduct(p entity.Product) {
	_ = s.live(true, func(st *state) error {
		st.products[p.ID] = copyProduct(&p)
		return nil
	})
}

// PutOffer crea o reemplaza una oferta.
func (s *Store) PutOffer(o entity.Offer) {
	_ = s.live(true, func(st *state) error {
		st.offers[o.ID] = &o
		return nil
	})
}

// Product devuelve una copia del producto confirmado.
func (s *Store) Product(id string) (entity.Product, bool) {
	var out entity.Product
	var ok bool
	_ = s.live(false, func(st *state) error {
		if p, found := st.products[id]; found {
			out, ok = *copyProduct(p), true
		}
		return nil
	})
	return out, ok
}

// HistoryOf devuelve el historial confirmado del producto en orden de inserción.
func (s *Store) HistoryOf(productID string) []entity.InventoryHistory {
	var out []entity.InventoryHistory
	_ = s.live(false, func(st *state) error {
		for _, h := range st.history {
			if h.ProductID == productID {
				out = append(out, *h)
			}
		}
		return nil
	})
	return out
}

// AllAlerts devuelve las alertas confirmadas en orden de inserción.
func (s *Store) AllAlerts() []entity.Alert {
	var out []entity.Alert
	_ = s.live(false, func(st *state) error {
		for _, a := range st.alerts {
			out = append(out, *a)
		}
		return nil
	})
	return out
}

// Counts devuelve cuántas ventas, líneas y asociaciones producto-oferta hay confirmadas.
func (s *Store) Counts() (sales, lines, productOffers int) {
	_ = s.live(false, func(st *state) error {
		sales, lines, productOffers = len(st.sales), len(st.lines), len(st.productOffers)
		return nil
	})
	return sales, lines, productOffers
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		cp.ExpiresAt = &t
	}
	if p.SupplierID != nil {
		v := *p.SupplierID
		cp.SupplierID = &v
	}
	if p.CategoryID != nil {
		v := *p.CategoryID
		cp.CategoryID = &v
	}
	return &cp
}

func copySale(v *entity.Sale) *entity.Sale {
	cp := *v
	cp.Lines = nil
	return &cp
}

func copyLine(l *entity.SaleLine) *entity.SaleLine {
	cp := *l
	if l.ProductID != nil {
		id := *l.ProductID
		cp.ProductID = &id
	}
	return &cp
}
