// Package resolver turns apartment coordinates into a concrete city and zone.
// City detection is containment-only; zone detection falls back to the
// nearest zone by centroid so a guest almost always sees localized content.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paulmach/orb"

	"stayguide/pkg/geo"
	"stayguide/pkg/geodata"
	"stayguide/pkg/model"
)

// ErrApartmentNotFound is returned when the apartment id is not in the registry.
var ErrApartmentNotFound = errors.New("apartment not found")

// ApartmentInfo joins an apartment with its resolved location.
type ApartmentInfo struct {
	model.Apartment
	model.Location
}

// Resolver is a state-free location resolver over the geodata store's
// current snapshot.
type Resolver struct {
	store *geodata.Store
}

// New creates a Resolver.
func New(store *geodata.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveCity returns the first city, in data-source order, whose polygon
// contains the point. There is no fallback: coordinates outside every city
// resolve to nil.
func (r *Resolver) ResolveCity(ctx context.Context, lat, lng float64) (*model.City, error) {
	if err := r.store.Initialize(ctx); err != nil {
		return nil, err
	}

	pt := orb.Point{lng, lat}
	for _, city := range r.store.Cities() {
		if geo.Contains(city.Ring(), pt) {
			c := city
			slog.Debug("City detected", "city", c.ID)
			return &c, nil
		}
	}
	return nil, nil
}

// ResolveZone returns the first zone containing the point, restricted to the
// given city when cityID is non-empty. When no zone contains the point it
// falls back to the candidate whose centroid is geographically nearest; only
// an empty or entirely degenerate candidate set yields nil.
func (r *Resolver) ResolveZone(ctx context.Context, lat, lng float64, cityID string) (*model.Zone, error) {
	if err := r.store.Initialize(ctx); err != nil {
		return nil, err
	}

	pt := orb.Point{lng, lat}
	candidates := r.zoneCandidates(cityID)

	for _, zone := range candidates {
		if geo.Contains(zone.Ring(), pt) {
			z := zone
			slog.Debug("Zone detected", "zone", z.ID)
			return &z, nil
		}
	}

	// Nearest-centroid fallback.
	rings := make([]geo.RingCandidate, 0, len(candidates))
	for _, zone := range candidates {
		rings = append(rings, geo.RingCandidate{ID: zone.ID, Ring: zone.Ring()})
	}
	id, ok := geo.NearestRingID(pt, rings)
	if !ok {
		return nil, nil
	}
	for _, zone := range candidates {
		if zone.ID == id {
			z := zone
			slog.Debug("Nearest zone assigned", "zone", z.ID)
			return &z, nil
		}
	}
	return nil, nil
}

// ResolveLocation resolves city first, then zone scoped to that city. When
// hintedCityID names a known city that record is trusted without geometric
// re-verification; otherwise the city is detected by containment.
func (r *Resolver) ResolveLocation(ctx context.Context, lat, lng float64, hintedCityID string) (model.Location, error) {
	if err := r.store.Initialize(ctx); err != nil {
		return model.Location{}, err
	}

	var city *model.City
	if hintedCityID != "" {
		city = r.cityByID(hintedCityID)
	}
	if city == nil {
		detected, err := r.ResolveCity(ctx, lat, lng)
		if err != nil {
			return model.Location{}, err
		}
		city = detected
	}

	cityID := ""
	if city != nil {
		cityID = city.ID
	}
	zone, err := r.ResolveZone(ctx, lat, lng, cityID)
	if err != nil {
		return model.Location{}, err
	}
	return model.Location{City: city, Zone: zone}, nil
}

// ApartmentInfo looks up an apartment and resolves its location, preferring
// the apartment's city hint.
func (r *Resolver) ApartmentInfo(ctx context.Context, apartmentID string) (*ApartmentInfo, error) {
	if err := r.store.Initialize(ctx); err != nil {
		return nil, err
	}

	apt, ok := r.store.Apartment(apartmentID)
	if !ok {
		return nil, ErrApartmentNotFound
	}

	loc, err := r.ResolveLocation(ctx, apt.Lat, apt.Lng, apt.CityID)
	if err != nil {
		return nil, err
	}
	return &ApartmentInfo{Apartment: apt, Location: loc}, nil
}

func (r *Resolver) cityByID(id string) *model.City {
	for _, city := range r.store.Cities() {
		if city.ID == id {
			c := city
			return &c
		}
	}
	return nil
}

func (r *Resolver) zoneCandidates(cityID string) []model.Zone {
	zones := r.store.Zones()
	if cityID == "" {
		return zones
	}
	filtered := make([]model.Zone, 0, len(zones))
	for _, z := range zones {
		if z.CityID == cityID {
			filtered = append(filtered, z)
		}
	}
	return filtered
}
