package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/models"
)

// Snapshot is the most recent successfully fetched rate.
type Snapshot struct {
	Rate          decimal.Decimal `json:"rate"` // COP per USD
	EffectiveDate time.Time       `json:"effective_date"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// Cache serves the TRM with bounded staleness. A snapshot younger than the
// freshness window is served without contacting upstream; past the window
// the next read triggers a refresh, and on refresh failure the old snapshot
// keeps being served. Only when nothing was ever fetched does a read fail
// with ErrRateUnavailable.
//
// The mutex is held across the whole check-fetch-store sequence, so
// concurrent stale reads serialize and at most one of them hits upstream;
// the fetcher's own timeout bounds how long the lock is held.
type Cache struct {
	fetcher Fetcher
	window  time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu       sync.Mutex
	snapshot *Snapshot
}

func NewCache(fetcher Fetcher, window time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		window:  window,
		now:     time.Now,
		log:     log,
	}
}

// CurrentRate returns a usable snapshot or ErrRateUnavailable.
func (c *Cache) CurrentRate(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.snapshot.FetchedAt) < c.window {
		return *c.snapshot, nil
	}

	rate, effective, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if c.snapshot != nil {
			c.log.Warn().Err(err).
				Time("fetched_at", c.snapshot.FetchedAt).
				Msg("TRM refresh failed, serving stale rate")
			return *c.snapshot, nil
		}
		return Snapshot{}, fmt.Errorf("%w: %v", models.ErrRateUnavailable, err)
	}

	c.snapshot = &Snapshot{
		Rate:          rate,
		EffectiveDate: effective,
		FetchedAt:     c.now(),
	}
	c.log.Debug().
		Str("rate", rate.String()).
		Time("effective_date", effective).
		Msg("TRM refreshed")
	return *c.snapshot, nil
}
