package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/cache"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func newCache(t *testing.T) (*cache.OfferCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewOfferCache(client, time.Minute, logger.Nop()), mr
}

var day = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func sample() []entity.PricedOffer {
	return []entity.PricedOffer{{
		Offer: entity.Offer{
			ID: "o1", Name: "Verano", DiscountPercent: decimal.NewFromInt(25),
			StartDate: day, EndDate: day.AddDate(0, 0, 10), Active: true,
		},
		DiscountedPrice: decimal.RequireFromString("75.00"),
	}}
}

func TestOfferCache_CargaUnaVezYSirveDeCache(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	var loads int32
	load := func(context.Context) ([]entity.PricedOffer, error) {
		atomic.AddInt32(&loads, 1)
		return sample(), nil
	}

	first, err := c.ActiveOffers(ctx, "p1", day, load)
	require.NoError(t, err)
	second, err := c.ActiveOffers(ctx, "p1", day, load)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[0].DiscountedPrice.Equal(decimal.RequireFromString("75")))
	assert.True(t, second[0].EndDate.Equal(day.AddDate(0, 0, 10)))
}

func TestOfferCache_BumpInvalida(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	var loads int32
	load := func(context.Context) ([]entity.PricedOffer, error) {
		atomic.AddInt32(&loads, 1)
		return sample(), nil
	}

	_, err := c.ActiveOffers(ctx, "p1", day, load)
	require.NoError(t, err)
	v1, err := c.Version(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx))
	v2, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1+1, v2)

	_, err = c.ActiveOffers(ctx, "p1", day, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))

	// Otro día es otra clave
	_, err = c.ActiveOffers(ctx, "p1", day.AddDate(0, 0, 1), load)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&loads))
}

func TestOfferCache_ErrorDelLoaderNoSeCachea(t *testing.T) {
	c, _ := newCache(t)
	boom := errors.New("db caída")
	_, err := c.ActiveOffers(context.Background(), "p1", day, func(context.Context) ([]entity.PricedOffer, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := c.ActiveOffers(context.Background(), "p1", day, func(context.Context) ([]entity.PricedOffer, error) {
		return sample(), nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOfferCache_RedisCaidoLeeDeLaBase(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	got, err := c.ActiveOffers(context.Background(), "p1", day, func(context.Context) ([]entity.PricedOffer, error) {
		return sample(), nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOfferCache_CargasConcurrentesSeColapsan(t *testing.T) {
	c, _ := newCache(t)
	var loads int32
	release := make(chan struct{})
	load := func(context.Context) ([]entity.PricedOffer, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return sample(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ActiveOffers(context.Background(), "p1", day, load)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(5))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&loads), int32(1))
}

func TestOfferCache_CancelarUnCallerNoCortaLaCargaCompartida(t *testing.T) {
	c, _ := newCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)
	var loads int32
	load := func(ctx context.Context) ([]entity.PricedOffer, error) {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		loadErr <- ctx.Err()
		return sample(), nil
	}

	first, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.ActiveOffers(first, "p1", day, load)
		done <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	assert.NoError(t, <-loadErr)

	// La carga terminó y quedó en cache: otro caller no vuelve a la base
	require.Eventually(t, func() bool {
		got, err := c.ActiveOffers(context.Background(), "p1", day, func(context.Context) ([]entity.PricedOffer, error) {
			return nil, errors.New("no debería cargar")
		})
		return err == nil && len(got) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}
