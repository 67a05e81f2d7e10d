// Package cache implementa la cache de ofertas vigentes sobre Redis con invalidación por versión.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/puntoventa-api/internal/application/offers"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

const versionKey = "ofertas:version"

// OfferCache guarda ActiveOffersFor por producto y día. Las claves incluyen la versión global:
// Bump la incrementa y deja huérfanas las entradas viejas hasta que expire su TTL.
// Cualquier falla de Redis degrada a leer de la base.
type OfferCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
}

var _ offers.ActiveOffersCache = (*OfferCache)(nil)

// NewOfferCache construye la cache.
func NewOfferCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *OfferCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OfferCache{client: client, ttl: ttl, log: log.Component("cache_ofertas")}
}

// Version devuelve la versión vigente, inicializándola si falta.
func (c *OfferCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX para no pisar una versión escrita por otra instancia
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalida todas las entradas.
func (c *OfferCache) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

// ActiveOffers devuelve la entrada cacheada o la carga con load. Cargas concurrentes de la
// misma clave se colapsan en una.
func (c *OfferCache) ActiveOffers(
	ctx context.Context,
	productID string,
	day time.Time,
	load func(ctx context.Context) ([]entity.PricedOffer, error),
) ([]entity.PricedOffer, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis no disponible, leyendo de la base")
		return load(ctx)
	}
	key := buildKey(ver, productID, day)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []entity.PricedOffer
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn().Str("clave", key).Msg("entrada de cache corrupta")
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("redis no disponible, leyendo de la base")
		return load(ctx)
	}

	// La carga compartida no depende de que el primer caller siga esperando
	shared := context.WithoutCancel(ctx)
	res := c.group.DoChan(key, func() (interface{}, error) {
		value, err := load(shared)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(shared, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("clave", key).Msg("no se pudo escribir en cache")
		}
		return value, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]entity.PricedOffer), nil
	}
}

func buildKey(ver int64, productID string, day time.Time) string {
	return strings.Join([]string{
		"ofertas", "activas", productID, entity.DateOf(day).Format("2006-01-02"), fmt.Sprintf("v%d", ver),
	}, ":")
}
