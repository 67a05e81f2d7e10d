package offers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/pricing"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// Service administra ofertas y sus asociaciones con productos, y calcula precios con descuento.
type Service struct {
	txRunner repository.TxRunner
	reads    repository.TxRepos
	cache    ActiveOffersCache
	now      func() time.Time
	log      *logger.Logger
}

// Option configura el servicio.
type Option func(*Service)

// WithCache sirve ActiveOffersFor desde cache.
func WithCache(c ActiveOffersCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithClock reemplaza el reloj usado para decidir la vigencia.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService construye el servicio de ofertas.
func NewService(txRunner repository.TxRunner, reads repository.TxRepos, log *logger.Logger, opts ...Option) *Service {
	s := &Service{txRunner: txRunner, reads: reads, now: utcNow, log: log.Component("ofertas")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign asocia una oferta activa a un producto. La oferta se lee FOR SHARE para que un
// Delete concurrente no pueda intercalarse entre la verificación y el insert.
func (s *Service) Assign(ctx context.Context, productID, offerID string) error {
	if productID == "" || offerID == "" {
		return fmt.Errorf("%w: producto y oferta requeridos", domain.ErrInvalidInput)
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		offer, err := repos.Offers.GetForShare(ctx, offerID)
		if err != nil {
			return err
		}
		if offer == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, offerID)
		}
		if !offer.Active {
			return domain.ErrInactiveOffer
		}
		exists, err := repos.ProductOffers.Exists(ctx, productID, offerID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: el producto ya tiene esta oferta", domain.ErrDuplicate)
		}
		// Un insert concurrente que gane la carrera llega como ErrDuplicate desde el repositorio
		return repos.ProductOffers.Create(ctx, entity.ProductOffer{ProductID: productID, OfferID: offerID})
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	s.log.Info().Str("producto_id", productID).Str("oferta_id", offerID).Msg("oferta asignada")
	return nil
}

// Unassign elimina la asociación; ErrNotFound si no existía.
func (s *Service) Unassign(ctx context.Context, productID, offerID string) error {
	if productID == "" || offerID == "" {
		return fmt.Errorf("%w: producto y oferta requeridos", domain.ErrInvalidInput)
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		deleted, err := repos.ProductOffers.Delete(ctx, productID, offerID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: el producto no tiene esta oferta", domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	s.log.Info().Str("producto_id", productID).Str("oferta_id", offerID).Msg("oferta desasignada")
	return nil
}

// ActiveOffersFor devuelve las ofertas vigentes hoy para el producto con su precio con
// descuento, ordenadas por porcentaje descendente (empate: termina antes, luego id).
// No elige una ganadora: el caller decide qué precio cobrar.
func (s *Service) ActiveOffersFor(ctx context.Context, productID string) ([]entity.PricedOffer, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	today := entity.DateOf(s.now())
	load := func(ctx context.Context) ([]entity.PricedOffer, error) {
		return s.loadActive(ctx, productID, today)
	}
	if s.cache != nil {
		return s.cache.ActiveOffers(ctx, productID, today, load)
	}
	return load(ctx)
}

func (s *Service) loadActive(ctx context.Context, productID string, today time.Time) ([]entity.PricedOffer, error) {
	product, err := s.reads.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	linked, err := s.reads.ProductOffers.ListOffersByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PricedOffer, 0, len(linked))
	for _, o := range linked {
		if !o.ActiveOn(today) {
			continue
		}
		out = append(out, entity.PricedOffer{
			Offer:           *o,
			DiscountedPrice: pricing.DiscountedPrice(product.SalePrice, o.DiscountPercent),
		})
	}
	SortByPrecedence(out)
	return out, nil
}

// SortByPrecedence ordena por porcentaje descendente, luego fecha_fin ascendente, luego id.
func SortByPrecedence(offers []entity.PricedOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if c := a.DiscountPercent.Cmp(b.DiscountPercent); c != 0 {
			return c > 0
		}
		if !a.EndDate.Equal(b.EndDate) {
			return a.EndDate.Before(b.EndDate)
		}
		return a.ID < b.ID
	})
}

// CreateInput datos para crear una oferta.
type CreateInput struct {
	Name            string
	Description     string
	DiscountPercent decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	Active          bool
}

// Create valida y persiste una oferta nueva.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Offer, error) {
	now := s.now()
	offer := &entity.Offer{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		DiscountPercent: in.DiscountPercent,
		StartDate:       entity.DateOf(in.StartDate),
		EndDate:         entity.DateOf(in.EndDate),
		Active:          in.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateOffer(offer); err != nil {
		return nil, err
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Offers.Create(ctx, offer)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("oferta_id", offer.ID).Str("porcentaje", offer.DiscountPercent.String()).Msg("oferta creada")
	return offer, nil
}

// GetByID devuelve la oferta o ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	offer, err := s.reads.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
	}
	return offer, nil
}

// List lista ofertas; onlyActive filtra por el flag activa (no por fechas).
func (s *Service) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Offer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reads.Offers.List(ctx, onlyActive, limit, offset)
}

// Update aplica un cambio parcial. El resultado combinado se valida dentro de la tx con la
// oferta bloqueada. Desactivar no revoca asociaciones existentes.
func (s *Service) Update(ctx context.Context, id string, patch entity.OfferPatch) (*entity.Offer, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	var updated entity.Offer
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		current, err := repos.Offers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		updated = patch.Apply(*current)
		if err := validateOffer(&updated); err != nil {
			return err
		}
		return repos.Offers.Update(ctx, id, patch)
	})
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.now()
	s.bump(ctx)
	s.log.Info().Str("oferta_id", id).Bool("activa", updated.Active).Msg("oferta actualizada")
	return &updated, nil
}

// Delete elimina la oferta. Con productos asociados retorna ErrOfferInUse; la oferta queda
// bloqueada FOR UPDATE mientras se cuentan las asociaciones.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		offer, err := repos.Offers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if offer == nil {
			return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
		}
		n, err := repos.ProductOffers.CountByOffer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d producto(s) asociados", domain.ErrOfferInUse, n)
		}
		return repos.Offers.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	s.log.Info().Str("oferta_id", id).Msg("oferta eliminada")
	return nil
}

// ProductsFor lista los ids de productos asociados a la oferta.
func (s *Service) ProductsFor(ctx context.Context, offerID string) ([]string, error) {
	if _, err := s.GetByID(ctx, offerID); err != nil {
		return nil, err
	}
	return s.reads.ProductOffers.ListProductIDsByOffer(ctx, offerID)
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar la cache de ofertas")
	}
}

func validateOffer(o *entity.Offer) error {
	if o.Name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if !pricing.ValidDiscount(o.DiscountPercent) {
		return fmt.Errorf("%w: porcentaje de descuento debe estar en (0, 100]", domain.ErrInvalidInput)
	}
	if !pricing.FitsPlaces(o.DiscountPercent, pricing.PercentPlaces) {
		return fmt.Errorf("%w: porcentaje de descuento con más de %d decimales", domain.ErrInvalidInput, pricing.PercentPlaces)
	}
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		return fmt.Errorf("%w: fechas de vigencia requeridas", domain.ErrInvalidInput)
	}
	if o.EndDate.Before(o.StartDate) {
		return fmt.Errorf("%w: fecha_fin anterior a fecha_inicio", domain.ErrInvalidInput)
	}
	return nil
}

func utcNow() time.Time { return time.Now().UTC() }
