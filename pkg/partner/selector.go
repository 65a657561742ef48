// Package partner filters and classifies partner offers for the
// recommendations page. Classification is pure slice work over the loaded
// partner collection; the only state involved is the calendar date used for
// the partner-of-the-day rotation.
package partner

import (
	"time"

	"stayguide/pkg/model"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// DefaultCategories are the filter-chip keys always offered by the UI.
var DefaultCategories = []string{CategoryAll, "eat", "drink", "shop", "transit"}

// Tiers is the classified view of a partner list. A partner appears in at
// most one tier; the union of the three equals the input.
type Tiers struct {
	Top     []model.Partner `json:"top"`
	Premium []model.Partner `json:"premium"`
	Basic   []model.Partner `json:"basic"`
}

// FilterActive returns the partners that are active and operate in the city.
func FilterActive(partners []model.Partner, cityID string) []model.Partner {
	out := make([]model.Partner, 0, len(partners))
	for _, p := range partners {
		if p.IsActive() && p.CityID == cityID {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory returns the partners matching the category key.
// CategoryAll is the identity filter.
func FilterByCategory(partners []model.Partner, categoryKey string) []model.Partner {
	if categoryKey == CategoryAll || categoryKey == "" {
		return partners
	}
	out := make([]model.Partner, 0, len(partners))
	for _, p := range partners {
		if p.CategoryKey == categoryKey {
			out = append(out, p)
		}
	}
	return out
}

// Classify buckets partners into tiers: top partners first, then global
// (premium) partners, then the basic remainder. When zoneID is non-empty the
// basic tier is restricted to partners whose zone set contains it.
func Classify(partners []model.Partner, zoneID string) Tiers {
	tiers := Tiers{
		Top:     []model.Partner{},
		Premium: []model.Partner{},
		Basic:   []model.Partner{},
	}
	for _, p := range partners {
		switch {
		case p.IsTop:
			tiers.Top = append(tiers.Top, p)
		case p.Global:
			tiers.Premium = append(tiers.Premium, p)
		case zoneID == "" || p.InZone(zoneID):
			tiers.Basic = append(tiers.Basic, p)
		}
	}
	return tiers
}

// Select runs the full pipeline: active-in-city, category filter, tier
// classification.
func Select(partners []model.Partner, cityID, zoneID, categoryKey string) Tiers {
	filtered := FilterByCategory(FilterActive(partners, cityID), categoryKey)
	return Classify(filtered, zoneID)
}

// PartnerOfDay returns the partner featured today: the list index is the
// 0-based day of the year modulo the list length, so the selection is stable
// for a calendar day and rotates when the date changes.
func PartnerOfDay(partners []model.Partner) *model.Partner {
	return partnerOfDayAt(partners, time.Now())
}

func partnerOfDayAt(partners []model.Partner, now time.Time) *model.Partner {
	if len(partners) == 0 {
		return nil
	}
	if len(partners) == 1 {
		return &partners[0]
	}
	idx := (now.YearDay() - 1) % len(partners)
	return &partners[idx]
}
