// Package geodata loads and caches the engine's reference datasets: cities,
// zones, partners and apartments. All datasets share one TTL and are
// published atomically; a failed reload never clobbers the last good
// snapshot. Concurrent Initialize calls are coalesced into a single upstream
// load.
package geodata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"stayguide/pkg/cache"
	"stayguide/pkg/model"
	"stayguide/pkg/tracker"
)

// snapshotKey is the cache key under which dataset freshness is tracked.
const snapshotKey = "datasets"

// Default dataset paths relative to the base URL.
const (
	DefaultCitiesPath     = "data/cities.json"
	DefaultZonesPath      = "data/zones.json"
	DefaultPartnersPath   = "data/partners.json"
	DefaultApartmentsPath = "data/apartments.json"
)

// Fetcher fetches a resource by URL. Implemented by request.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Store.
type Options struct {
	BaseURL string
	TTL     time.Duration

	// Dataset paths relative to BaseURL. Empty fields take the defaults,
	// except ApartmentsPath where "" disables the apartment registry.
	CitiesPath     string
	ZonesPath      string
	PartnersPath   string
	ApartmentsPath string
}

// snapshot is one atomically published load of all datasets.
type snapshot struct {
	cities     []model.City
	zones      []model.Zone
	partners   []model.Partner
	apartments map[string]model.Apartment
}

// Store owns the raw dataset collections for the process lifetime. Datasets
// are reloaded wholesale on TTL expiry, never patched incrementally.
type Store struct {
	fetcher Fetcher
	opts    Options
	tr      *tracker.Tracker

	sf    singleflight.Group
	fresh *cache.Store[*snapshot]

	mu   sync.RWMutex
	last *snapshot
}

// New creates a Store. The tracker may be nil.
func New(f Fetcher, opts Options, tr *tracker.Tracker) *Store {
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	if opts.CitiesPath == "" {
		opts.CitiesPath = DefaultCitiesPath
	}
	if opts.ZonesPath == "" {
		opts.ZonesPath = DefaultZonesPath
	}
	if opts.PartnersPath == "" {
		opts.PartnersPath = DefaultPartnersPath
	}
	if tr == nil {
		tr = tracker.New()
	}
	return &Store{
		fetcher: f,
		opts:    opts,
		tr:      tr,
		fresh:   cache.New[*snapshot](opts.TTL),
	}
}

// Initialize loads all datasets unless a fresh snapshot is already cached.
// It is idempotent and safe to call repeatedly; concurrent callers share a
// single upstream load. On failure it returns a DataLoadError and leaves the
// last good snapshot readable.
func (s *Store) Initialize(ctx context.Context) error {
	if _, ok := s.fresh.Get(snapshotKey); ok {
		s.tr.CacheHit(snapshotKey)
		return nil
	}
	s.tr.CacheMiss(snapshotKey)

	_, err, _ := s.sf.Do(snapshotKey, func() (interface{}, error) {
		// A coalesced caller may arrive after the winner finished.
		if _, ok := s.fresh.Get(snapshotKey); ok {
			return nil, nil
		}

		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.last = snap
		s.mu.Unlock()
		s.fresh.Set(snapshotKey, snap)

		slog.Info("Datasets loaded",
			"cities", len(snap.cities),
			"zones", len(snap.zones),
			"partners", len(snap.partners),
			"apartments", len(snap.apartments))
		return nil, nil
	})
	return err
}

// Refresh drops the freshness marker so the next Initialize reloads.
func (s *Store) Refresh() {
	s.fresh.Clear(snapshotKey)
}

// load fetches and decodes every dataset in parallel. The snapshot is
// assembled locally and returned only when all of them succeeded.
func (s *Store) load(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := s.fetchDataset(gctx, "cities", s.opts.CitiesPath)
		if err != nil {
			return err
		}
		if snap.cities, err = model.DecodeCities(body); err != nil {
			s.tr.FetchError("cities")
			return &DataLoadError{Dataset: "cities", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		body, err := s.fetchDataset(gctx, "zones", s.opts.ZonesPath)
		if err != nil {
			return err
		}
		if snap.zones, err = model.DecodeZones(body); err != nil {
			s.tr.FetchError("zones")
			return &DataLoadError{Dataset: "zones", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		body, err := s.fetchDataset(gctx, "partners", s.opts.PartnersPath)
		if err != nil {
			return err
		}
		if snap.partners, err = model.DecodePartners(body); err != nil {
			s.tr.FetchError("partners")
			return &DataLoadError{Dataset: "partners", Err: err}
		}
		return nil
	})
	if s.opts.ApartmentsPath != "" {
		g.Go(func() error {
			body, err := s.fetchDataset(gctx, "apartments", s.opts.ApartmentsPath)
			if err != nil {
				return err
			}
			if snap.apartments, err = model.DecodeApartments(body); err != nil {
				s.tr.FetchError("apartments")
				return &DataLoadError{Dataset: "apartments", Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// fetchDataset fetches one dataset body with a cache-busting timestamp, the
// way the hosting CDN expects.
func (s *Store) fetchDataset(ctx context.Context, name, path string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?t=%d", s.opts.BaseURL, path, time.Now().UnixMilli())
	body, err := s.fetcher.Get(ctx, u)
	if err != nil {
		s.tr.FetchError(name)
		return nil, &DataLoadError{Dataset: name, Err: err}
	}
	s.tr.FetchOK(name)
	return body, nil
}

// current returns the last good snapshot, which may be stale but is never
// partially written.
func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Cities returns the loaded city collection in data-source order.
// Nil before the first successful Initialize.
func (s *Store) Cities() []model.City {
	if snap := s.current(); snap != nil {
		return snap.cities
	}
	return nil
}

// Zones returns the loaded zone collection in data-source order.
func (s *Store) Zones() []model.Zone {
	if snap := s.current(); snap != nil {
		return snap.zones
	}
	return nil
}

// Partners returns the loaded partner collection.
func (s *Store) Partners() []model.Partner {
	if snap := s.current(); snap != nil {
		return snap.partners
	}
	return nil
}

// Apartment looks up an apartment by id.
func (s *Store) Apartment(id string) (model.Apartment, bool) {
	snap := s.current()
	if snap == nil {
		return model.Apartment{}, false
	}
	a, ok := snap.apartments[id]
	return a, ok
}

// Stats returns the dataset counters.
func (s *Store) Stats() map[string]tracker.DatasetStats {
	return s.tr.Snapshot()
}
