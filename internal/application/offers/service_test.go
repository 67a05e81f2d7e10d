package offers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/offers"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

var hoy = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(opts ...offers.Option) (*memory.Store, *offers.Service) {
	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "p1", Name: "Café", SalePrice: pct("100"), Stock: pct("10")})
	s.PutOffer(entity.Offer{ID: "activa", Name: "Verano", DiscountPercent: pct("25"), StartDate: day(6, 1), EndDate: day(6, 30), Active: true})
	s.PutOffer(entity.Offer{ID: "inactiva", Name: "Vieja", DiscountPercent: pct("10"), StartDate: day(1, 1), EndDate: day(12, 31), Active: false})
	opts = append([]offers.Option{offers.WithClock(func() time.Time { return hoy })}, opts...)
	return s, offers.NewService(s, s.Repos(), logger.Nop(), opts...)
}

func TestService_AssignYDobleAssign(t *testing.T) {
	s, svc := setup()
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, "p1", "activa"))
	err := svc.Assign(ctx, "p1", "activa")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, _, n := s.Counts()
	assert.Equal(t, 1, n)
}

func TestService_AssignOfertaInactiva(t *testing.T) {
	s, svc := setup()

	err := svc.Assign(context.Background(), "p1", "inactiva")
	assert.ErrorIs(t, err, domain.ErrInactiveOffer)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, "no se puede asignar una oferta inactiva", err.Error())

	_, _, n := s.Counts()
	assert.Zero(t, n)
}

func TestService_AssignInexistentes(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	assert.ErrorIs(t, svc.Assign(ctx, "nope", "activa"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Assign(ctx, "p1", "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Assign(ctx, "", "activa"), domain.ErrInvalidInput)
}

func TestService_AssignConcurrenteUnaSolaFila(t *testing.T) {
	s, svc := setup()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Assign(context.Background(), "p1", "activa")
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	}
	assert.Equal(t, 1, ok)
	_, _, n := s.Counts()
	assert.Equal(t, 1, n)
}

func TestService_Unassign(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Unassign(ctx, "p1", "activa"), domain.ErrNotFound)
	require.NoError(t, svc.Assign(ctx, "p1", "activa"))
	require.NoError(t, svc.Unassign(ctx, "p1", "activa"))
	assert.ErrorIs(t, svc.Unassign(ctx, "p1", "activa"), domain.ErrNotFound)
}

func TestService_ActiveOffersFor(t *testing.T) {
	s, svc := setup()
	ctx := context.Background()
	s.PutOffer(entity.Offer{ID: "b-corta", Name: "Flash", DiscountPercent: pct("25"), StartDate: day(6, 10), EndDate: day(6, 20), Active: true})
	s.PutOffer(entity.Offer{ID: "a-chica", Name: "Mini", DiscountPercent: pct("5"), StartDate: day(6, 15), EndDate: day(6, 15), Active: true})
	s.PutOffer(entity.Offer{ID: "futura", Name: "Julio", DiscountPercent: pct("50"), StartDate: day(7, 1), EndDate: day(7, 31), Active: true})

	for _, id := range []string{"activa", "b-corta", "a-chica", "futura"} {
		require.NoError(t, svc.Assign(ctx, "p1", id))
	}

	// Desactivar después de asignar no revoca la fila, solo la filtra
	s.PutOffer(entity.Offer{ID: "inactiva", Name: "Vieja", DiscountPercent: pct("10"), StartDate: day(1, 1), EndDate: day(12, 31), Active: true})
	require.NoError(t, svc.Assign(ctx, "p1", "inactiva"))
	off := false
	_, err := svc.Update(ctx, "inactiva", entity.OfferPatch{Active: &off})
	require.NoError(t, err)

	got, err := svc.ActiveOffersFor(ctx, "p1")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"b-corta", "activa", "a-chica"}, ids)
	assert.Equal(t, "75.00", got[0].DiscountedPrice.StringFixed(2))
	assert.Equal(t, "95.00", got[2].DiscountedPrice.StringFixed(2))

	products, err := svc.ProductsFor(ctx, "inactiva")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, products)

	_, err = svc.ActiveOffersFor(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_DeleteConProductos(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	require.NoError(t, svc.Assign(ctx, "p1", "activa"))

	err := svc.Delete(ctx, "activa")
	assert.ErrorIs(t, err, domain.ErrOfferInUse)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	_, err = svc.GetByID(ctx, "activa")
	require.NoError(t, err)

	require.NoError(t, svc.Unassign(ctx, "p1", "activa"))
	require.NoError(t, svc.Delete(ctx, "activa"))
	_, err = svc.GetByID(ctx, "activa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "activa"), domain.ErrNotFound)
}

func TestService_CreateValida(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	o, err := svc.Create(ctx, offers.CreateInput{
		Name: " Navidad ", DiscountPercent: pct("100"), StartDate: day(12, 1), EndDate: day(12, 25), Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Navidad", o.Name)
	assert.NotEmpty(t, o.ID)

	bad := []offers.CreateInput{
		{Name: "cero", DiscountPercent: pct("0"), StartDate: day(1, 1), EndDate: day(1, 2)},
		{Name: "exceso", DiscountPercent: pct("100.01"), StartDate: day(1, 1), EndDate: day(1, 2)},
		{Name: "fechas", DiscountPercent: pct("10"), StartDate: day(2, 1), EndDate: day(1, 1)},
		{Name: "", DiscountPercent: pct("10"), StartDate: day(1, 1), EndDate: day(1, 2)},
		{Name: "tres decimales", DiscountPercent: pct("12.345"), StartDate: day(1, 1), EndDate: day(1, 2)},
	}
	for _, in := range bad {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in.Name)
	}
}

func TestService_UpdateValidaResultadoCombinado(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	// fecha_fin anterior a la fecha_inicio existente
	end := day(5, 1)
	_, err := svc.Update(ctx, "activa", entity.OfferPatch{EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p := pct("40")
	updated, err := svc.Update(ctx, "activa", entity.OfferPatch{DiscountPercent: &p})
	require.NoError(t, err)
	assert.True(t, updated.DiscountPercent.Equal(p))

	got, err := svc.GetByID(ctx, "activa")
	require.NoError(t, err)
	assert.True(t, got.DiscountPercent.Equal(p))
	assert.True(t, got.EndDate.Equal(day(6, 30)))

	_, err = svc.Update(ctx, "activa", entity.OfferPatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Update(ctx, "nope", entity.OfferPatch{DiscountPercent: &p})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ListSoloActivas(t *testing.T) {
	_, svc := setup()
	all, err := svc.List(context.Background(), false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(context.Background(), true, 0, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "activa", active[0].ID)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]entity.PricedOffer
	bumps int
	loads int
}

func (c *fakeCache) ActiveOffers(ctx context.Context, productID string, d time.Time, load func(context.Context) ([]entity.PricedOffer, error)) ([]entity.PricedOffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := productID + d.Format("2006-01-02")
	if v, ok := c.store[key]; ok {
		return v, nil
	}
	c.loads++
	v, err := load(ctx)
	if err == nil {
		c.store[key] = v
	}
	return v, err
}

func (c *fakeCache) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps++
	c.store = map[string][]entity.PricedOffer{}
	return nil
}

func TestService_CacheSeInvalidaAlAsignar(t *testing.T) {
	cache := &fakeCache{store: map[string][]entity.PricedOffer{}}
	_, svc := setup(offers.WithCache(cache))
	ctx := context.Background()

	got, err := svc.ActiveOffersFor(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = svc.ActiveOffersFor(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.loads)

	require.NoError(t, svc.Assign(ctx, "p1", "activa"))
	assert.Equal(t, 1, cache.bumps)

	got, err = svc.ActiveOffersFor(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, cache.loads)
}

// offerLocks registra con qué modo de bloqueo se leyó cada oferta dentro de la tx.
type offerLocks struct {
	store *memory.Store
	calls []string
}

type lockedOffers struct {
	repository.OfferRepository
	l *offerLocks
}

func (o lockedOffers) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	o.l.calls = append(o.l.calls, "GetByID")
	return o.OfferRepository.GetByID(ctx, id)
}

func (o lockedOffers) GetForShare(ctx context.Context, id string) (*entity.Offer, error) {
	o.l.calls = append(o.l.calls, "GetForShare")
	return o.OfferRepository.GetForShare(ctx, id)
}

func (o lockedOffers) GetForUpdate(ctx context.Context, id string) (*entity.Offer, error) {
	o.l.calls = append(o.l.calls, "GetForUpdate")
	return o.OfferRepository.GetForUpdate(ctx, id)
}

func (l *offerLocks) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	return l.store.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		repos.Offers = lockedOffers{OfferRepository: repos.Offers, l: l}
		return fn(ctx, repos)
	})
}

func TestService_ModosDeBloqueo(t *testing.T) {
	s, _ := setup()
	locks := &offerLocks{store: s}
	svc := offers.NewService(locks, s.Repos(), logger.Nop(), offers.WithClock(func() time.Time { return hoy }))
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, "p1", "activa"))
	assert.Equal(t, []string{"GetForShare"}, locks.calls)

	locks.calls = nil
	assert.ErrorIs(t, svc.Delete(ctx, "activa"), domain.ErrOfferInUse)
	assert.Equal(t, []string{"GetForUpdate"}, locks.calls)

	locks.calls = nil
	require.NoError(t, svc.Unassign(ctx, "p1", "activa"))
	require.NoError(t, svc.Delete(ctx, "activa"))
	assert.Equal(t, []string{"GetForUpdate"}, locks.calls)
}
