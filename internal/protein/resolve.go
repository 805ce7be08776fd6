package protein

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"protmass/internal/masscache"
)

// DefaultDelay is the minimum spacing between consecutive uncached
// remote lookups, chosen to stay friendly to the remote service.
const DefaultDelay = 400 * time.Millisecond

// MassLookup is the remote side of resolution: given an accession it
// returns the protein's sequence mass.
type MassLookup interface {
	SequenceMass(ctx context.Context, accession string) (float64, error)
}

// Outcome records what happened for a single accession.
type Outcome struct {
	Accession string
	Mass      float64
	FromCache bool
	Err       error // non-nil when the accession stays unresolved
}

// Resolver populates masses for the accessions of a group, consulting
// the cache before the remote service. Lookups are strictly
// sequential so the throttle is honored and the cache sees a single
// writer.
type Resolver struct {
	cache  *masscache.Cache
	lookup MassLookup
	wait   func(ctx context.Context) error
}

// NewResolver returns a resolver over cache and lookup. delay spaces
// consecutive uncached lookups; zero or negative disables the
// throttle.
func NewResolver(cache *masscache.Cache, lookup MassLookup, delay time.Duration) *Resolver {
	r := &Resolver{cache: cache, lookup: lookup}

	if delay > 0 {
		limiter := rate.NewLimiter(rate.Every(delay), 1)
		r.wait = limiter.Wait
	} else {
		r.wait = func(context.Context) error { return nil }
	}

	return r
}

// Resolve resolves every accession in group and returns the
// accession → mass results plus one Outcome per accession in
// processing order. report, if non-nil, observes each outcome as it
// happens.
//
// Per-accession failures are contained: the accession stays out of
// the result map, its outcome carries the reason, and the batch
// continues. Only context cancellation and cache-write failures
// (an environment problem, not a data one) abort the run; the partial
// results accumulated so far are still returned.
func (r *Resolver) Resolve(ctx context.Context, group *AccessionGroup, report func(Outcome)) (map[string]float64, []Outcome, error) {
	masses := make(map[string]float64, group.Len())
	outcomes := make([]Outcome, 0, group.Len())

	record := func(o Outcome) {
		outcomes = append(outcomes, o)

		if report != nil {
			report(o)
		}
	}

	for _, accession := range group.Accessions() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return masses, outcomes, ctxErr
		}

		// Cache hits short-circuit before the throttle.
		if mass, hit := r.fromCache(accession); hit {
			masses[accession] = mass
			record(Outcome{Accession: accession, Mass: mass, FromCache: true})

			continue
		}

		waitErr := r.wait(ctx)
		if waitErr != nil {
			return masses, outcomes, waitErr
		}

		mass, lookupErr := r.lookup.SequenceMass(ctx, accession)
		if lookupErr != nil {
			if errors.Is(lookupErr, context.Canceled) || errors.Is(lookupErr, context.DeadlineExceeded) {
				return masses, outcomes, lookupErr
			}

			record(Outcome{Accession: accession, Err: lookupErr})

			continue
		}

		masses[accession] = mass
		record(Outcome{Accession: accession, Mass: mass})

		writeErr := r.cache.Write(accession, mass)
		if writeErr != nil {
			return masses, outcomes, fmt.Errorf("caching %s: %w", accession, writeErr)
		}
	}

	return masses, outcomes, nil
}

// fromCache reads accession from the cache. Corrupt entries count as
// misses so the fresh lookup overwrites them and the batch stays
// resilient.
func (r *Resolver) fromCache(accession string) (float64, bool) {
	if !r.cache.Has(accession) {
		return 0, false
	}

	mass, err := r.cache.Read(accession)
	if err != nil {
		return 0, false
	}

	return mass, true
}
