// Package model defines the reference-data schemas the guest-guide engine
// works with: cities, zones, partner offers and apartments. All collections
// are read-only once loaded; the geodata store owns them for the process
// lifetime and hands out shared slices.
package model

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
)

// Coord is one [lng, lat] pair as it appears in the JSON datasets.
type Coord [2]float64

// City is an area of operation with a boundary polygon.
// The ring is not required to be pre-closed.
type City struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Polygon []Coord `json:"polygon"`
}

// Zone is a neighbourhood inside a city. A zone belongs to exactly one city.
type Zone struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	CityID  string  `json:"cityId"`
	Polygon []Coord `json:"polygon"`
}

// Partner is a local business offer shown on the recommendations page.
// Active defaults to true when the field is absent.
type Partner struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CityID      string   `json:"cityId"`
	Zones       []string `json:"zones,omitempty"`
	Global      bool     `json:"global,omitempty"`
	IsTop       bool     `json:"isTop,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	CategoryKey string   `json:"categoryKey,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Offer       string   `json:"offer,omitempty"`
	RedirectURL string   `json:"redirectUrl,omitempty"`
}

// IsActive reports whether the partner should be shown at all.
func (p *Partner) IsActive() bool {
	return p.Active == nil || *p.Active
}

// InZone reports whether the partner's zone set contains the given zone.
func (p *Partner) InZone(zoneID string) bool {
	for _, z := range p.Zones {
		if z == zoneID {
			return true
		}
	}
	return false
}

// Apartment is a rental unit with its coordinates and an optional city hint.
type Apartment struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	CityID string  `json:"cityId,omitempty"`
}

// Location is the result of resolving a coordinate. Either field may be nil.
type Location struct {
	City *City `json:"city"`
	Zone *Zone `json:"zone"`
}

// Ring converts a polygon to orb coordinates without closing or validating
// it; normalization is the locator's job.
func Ring(polygon []Coord) orb.Ring {
	ring := make(orb.Ring, 0, len(polygon))
	for _, c := range polygon {
		ring = append(ring, orb.Point{c[0], c[1]})
	}
	return ring
}

// Ring returns the city boundary as orb coordinates.
func (c *City) Ring() orb.Ring { return Ring(c.Polygon) }

// Ring returns the zone boundary as orb coordinates.
func (z *Zone) Ring() orb.Ring { return Ring(z.Polygon) }

// UnmarshalJSON accepts [lng,lat] pairs and longer tuples, keeping the first
// two values. A non-numeric entry surfaces as a decode error for the whole
// record, which the dataset decoders treat as skippable.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	if len(vals) < 2 {
		return fmt.Errorf("coordinate needs 2 values, got %d", len(vals))
	}
	c[0], c[1] = vals[0], vals[1]
	return nil
}

// decodeRecords parses a JSON array body into T records. Records that fail to
// decode or whose id (via idFn) is empty are skipped with a warning; a body
// that is not a JSON array fails the whole decode.
func decodeRecords[T any](data []byte, kind string, idFn func(*T) string) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var rec T
		if err := json.Unmarshal(r, &rec); err != nil {
			slog.Warn("Skipping malformed record", "dataset", kind, "index", i, "error", err)
			continue
		}
		if idFn(&rec) == "" {
			slog.Warn("Skipping record without id", "dataset", kind, "index", i)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeCities parses a cities.json body.
func DecodeCities(data []byte) ([]City, error) {
	return decodeRecords(data, "cities", func(c *City) string { return c.ID })
}

// DecodeZones parses a zones.json body.
func DecodeZones(data []byte) ([]Zone, error) {
	return decodeRecords(data, "zones", func(z *Zone) string { return z.ID })
}

// DecodePartners parses a partners.json body.
func DecodePartners(data []byte) ([]Partner, error) {
	return decodeRecords(data, "partners", func(p *Partner) string { return p.ID })
}

// DecodeApartments parses an apartments.json body. Unlike the other datasets
// apartments ship as an object keyed by apartment id; the key wins over any
// id field inside the record. Malformed values are skipped with a warning.
func DecodeApartments(data []byte) (map[string]Apartment, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("apartments: %w", err)
	}
	out := make(map[string]Apartment, len(raw))
	for id, r := range raw {
		var a Apartment
		if err := json.Unmarshal(r, &a); err != nil {
			slog.Warn("Skipping malformed record", "dataset", "apartments", "id", id, "error", err)
			continue
		}
		a.ID = id
		out[id] = a
	}
	return out, nil
}
