// Package geo implements the pure geometric tests behind city and zone
// detection: ring normalization, point-in-polygon containment and the
// nearest-centroid fallback. No I/O happens here; degenerate geometry is
// absorbed and surfaced as a "no match" result, never as an error.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// DefaultCloseTolerance is the per-axis tolerance, in degrees, used to decide
// whether a ring is already closed. It absorbs floating-point noise in the
// source data.
const DefaultCloseTolerance = 1e-4

// RingCandidate pairs a boundary ring with the id of the record it belongs to.
type RingCandidate struct {
	ID   string
	Ring orb.Ring
}

// NormalizeRing filters out points with non-finite coordinates and closes the
// ring by appending a copy of the first point when first and last differ by
// more than tol on either axis. It returns (nil, false) when fewer than 3
// usable points remain.
func NormalizeRing(ring orb.Ring, tol float64) (orb.Ring, bool) {
	usable := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		if !finite(p) {
			continue
		}
		usable = append(usable, p)
	}
	if len(usable) < 3 {
		return nil, false
	}

	first, last := usable[0], usable[len(usable)-1]
	if math.Abs(first[0]-last[0]) > tol || math.Abs(first[1]-last[1]) > tol {
		usable = append(usable, first)
	}
	return usable, true
}

// RingContains reports whether the point lies inside the ring. The ring must
// already be normalized (closed); boundary points are implementation-defined.
func RingContains(ring orb.Ring, pt orb.Point) bool {
	if len(ring) == 0 {
		return false
	}
	return planar.RingContains(ring, pt)
}

// Contains normalizes the ring with the default tolerance and tests
// containment. Degenerate rings contain nothing.
func Contains(ring orb.Ring, pt orb.Point) bool {
	normalized, ok := NormalizeRing(ring, DefaultCloseTolerance)
	if !ok {
		return false
	}
	return RingContains(normalized, pt)
}

// Centroid returns the area centroid of the ring.
func Centroid(ring orb.Ring) orb.Point {
	c, _ := planar.CentroidArea(ring)
	return c
}

// DistanceKm returns the great-circle distance between two points in kilometers.
func DistanceKm(a, b orb.Point) float64 {
	return orbgeo.Distance(a, b) / 1000.0
}

// NearestRingID returns the id of the candidate whose centroid is
// geographically nearest to pt. Degenerate candidates are skipped; when all
// candidates are degenerate or the list is empty it returns ("", false).
func NearestRingID(pt orb.Point, candidates []RingCandidate) (string, bool) {
	bestID := ""
	found := false
	minDist := math.MaxFloat64

	for _, cand := range candidates {
		ring, ok := NormalizeRing(cand.Ring, DefaultCloseTolerance)
		if !ok {
			continue
		}
		dist := DistanceKm(pt, Centroid(ring))
		if dist < minDist {
			minDist = dist
			bestID = cand.ID
			found = true
		}
	}
	return bestID, found
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
