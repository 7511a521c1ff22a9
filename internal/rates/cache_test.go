package rates

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/models"
)

type fakeFetcher struct {
	rate  decimal.Decimal
	date  time.Time
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (decimal.Decimal, time.Time, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, time.Time{}, f.err
	}
	return f.rate, f.date, nil
}

func newTestCache(f *fakeFetcher, now time.Time) (*Cache, *time.Time) {
	c := NewCache(f, time.Hour, zerolog.Nop())
	clock := now
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestCacheEmptyFetchSuccess(t *testing.T) {
	fetcher := &fakeFetcher{
		rate: decimal.RequireFromString("4100.50"),
		date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	cache, _ := newTestCache(fetcher, time.Now())

	snap, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("CurrentRate() error = %v", err)
	}
	if !snap.Rate.Equal(fetcher.rate) {
		t.Errorf("Rate = %s, want %s", snap.Rate, fetcher.rate)
	}
	if !snap.EffectiveDate.Equal(fetcher.date) {
		t.Errorf("EffectiveDate = %v, want %v", snap.EffectiveDate, fetcher.date)
	}
	if fetcher.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", fetcher.calls)
	}
}

func TestCacheFreshServesWithoutUpstreamCall(t *testing.T) {
	fetcher := &fakeFetcher{rate: decimal.RequireFromString("4100.50"), date: time.Now()}
	cache, clock := newTestCache(fetcher, time.Now())

	if _, err := cache.CurrentRate(context.Background()); err != nil {
		t.Fatalf("first read: %v", err)
	}

	*clock = clock.Add(30 * time.Minute)
	snap, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !snap.Rate.Equal(fetcher.rate) {
		t.Errorf("Rate = %s, want %s", snap.Rate, fetcher.rate)
	}
	if fetcher.calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (fresh value must be served from cache)", fetcher.calls)
	}
}

func TestCacheRefetchesPastWindow(t *testing.T) {
	fetcher := &fakeFetcher{rate: decimal.RequireFromString("4100.50"), date: time.Now()}
	cache, clock := newTestCache(fetcher, time.Now())

	if _, err := cache.CurrentRate(context.Background()); err != nil {
		t.Fatalf("first read: %v", err)
	}

	*clock = clock.Add(61 * time.Minute)
	fetcher.rate = decimal.RequireFromString("4250.00")
	snap, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", fetcher.calls)
	}
	if !snap.Rate.Equal(decimal.RequireFromString("4250.00")) {
		t.Errorf("Rate = %s, want refreshed 4250.00", snap.Rate)
	}
}

func TestCacheStaleFallbackOnFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{rate: decimal.RequireFromString("4100.50"), date: time.Now()}
	cache, clock := newTestCache(fetcher, time.Now())

	first, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("first read: %v", err)
	}

	*clock = clock.Add(2 * time.Hour)
	fetcher.err = fmt.Errorf("upstream down")
	snap, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("stale read must not fail while a value exists, got %v", err)
	}
	if !snap.Rate.Equal(first.Rate) || !snap.FetchedAt.Equal(first.FetchedAt) {
		t.Errorf("stale read = %+v, want previous snapshot %+v", snap, first)
	}
}

func TestCacheEmptyFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("upstream down")}
	cache, _ := newTestCache(fetcher, time.Now())

	_, err := cache.CurrentRate(context.Background())
	if !errors.Is(err, models.ErrRateUnavailable) {
		t.Errorf("CurrentRate() error = %v, want ErrRateUnavailable", err)
	}
}

func TestCacheRecoversFromStale(t *testing.T) {
	fetcher := &fakeFetcher{rate: decimal.RequireFromString("4100.50"), date: time.Now()}
	cache, clock := newTestCache(fetcher, time.Now())

	if _, err := cache.CurrentRate(context.Background()); err != nil {
		t.Fatalf("first read: %v", err)
	}

	*clock = clock.Add(2 * time.Hour)
	fetcher.err = fmt.Errorf("upstream down")
	if _, err := cache.CurrentRate(context.Background()); err != nil {
		t.Fatalf("stale read: %v", err)
	}

	fetcher.err = nil
	fetcher.rate = decimal.RequireFromString("4300.00")
	snap, err := cache.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("recovery read: %v", err)
	}
	if !snap.Rate.Equal(decimal.RequireFromString("4300.00")) {
		t.Errorf("Rate = %s, want 4300.00 after recovery", snap.Rate)
	}
	if !snap.FetchedAt.Equal(*clock) {
		t.Errorf("FetchedAt = %v, want refresh time %v", snap.FetchedAt, *clock)
	}
}
