package fx

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// DefaultRefreshDelay simulates the latency of a rate feed
const DefaultRefreshDelay = 800 * time.Millisecond

// ErrRefreshInProgress is returned when a refresh is requested while one is running
var ErrRefreshInProgress = errors.New("rate refresh already in progress")

// DefaultNoise is the full width of the uniform jitter applied per currency.
// A rate moves by at most half of this per refresh.
var DefaultNoise = map[string]float64{
	"EUR": 0.02,
	"JPY": 3,
	"GBP": 0.015,
	"CHF": 0.012,
	"CAD": 0.025,
	"CNY": 0.15,
	"PLN": 0.08,
	"AUD": 0.03,
	"SEK": 0.25,
}

// Refresher produces new snapshots by perturbing the previous rates.
// There is no real data source behind it.
type Refresher struct {
	Delay time.Duration
	Noise map[string]float64

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRefresher creates a refresher; a nil noise map uses DefaultNoise
func NewRefresher(delay time.Duration, noise map[string]float64, seed int64) *Refresher {
	if noise == nil {
		noise = DefaultNoise
	}
	return &Refresher{
		Delay: delay,
		Noise: noise,
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// RefreshResult is delivered by RefreshAsync
type RefreshResult struct {
	Snapshot Snapshot
	Err      error
}

// Refresh waits the configured delay, then swaps a perturbed snapshot into table.
func (r *Refresher) Refresh(ctx context.Context, table *Table) (Snapshot, error) {
	if !table.beginRefresh() {
		return Snapshot{}, ErrRefreshInProgress
	}
	defer table.endRefresh()

	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Snapshot{}, ctx.Err()
		case <-timer.C:
		}
	}

	prev := table.Snapshot()
	next := NewSnapshot(r.perturb(prev), r.now())
	table.Replace(next)

	fmt.Printf("[FX] Rates refreshed: snapshot %s (%d currencies)\n", next.ID, len(next.Rates))
	return next, nil
}

// RefreshAsync runs Refresh in the background and reports once on the returned channel.
func (r *Refresher) RefreshAsync(ctx context.Context, table *Table) <-chan RefreshResult {
	out := make(chan RefreshResult, 1)
	go func() {
		s, err := r.Refresh(ctx, table)
		out <- RefreshResult{Snapshot: s, Err: err}
		close(out)
	}()
	return out
}

// perturb applies bounded uniform noise to every rate except the base.
// Codes are visited in sorted order so a seed fixes every draw.
func (r *Refresher) perturb(prev Snapshot) map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]float64, len(prev.Rates))
	for _, code := range prev.Codes() {
		rate := prev.Rates[code]
		if code == BaseCurrency {
			next[code] = 1.0
			continue
		}
		moved := rate + (r.rng.Float64()-0.5)*r.Noise[code]
		if moved <= 0 {
			moved = rate
		}
		next[code] = moved
	}
	return next
}
