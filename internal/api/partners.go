package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"stayguide/pkg/geodata"
	"stayguide/pkg/model"
	"stayguide/pkg/partner"
	"stayguide/pkg/resolver"
)

type PartnersHandler struct {
	store    *geodata.Store
	resolver *resolver.Resolver
}

func NewPartnersHandler(store *geodata.Store, res *resolver.Resolver) *PartnersHandler {
	return &PartnersHandler{store: store, resolver: res}
}

type PartnersResponse struct {
	partner.Tiers
	PartnerOfDay *model.Partner `json:"partnerOfDay"`
	Categories   []string       `json:"categories"`
}

// Handle resolves the guest's location, either from an apartment id or from
// raw coordinates, and returns the tiered partner listing for it.
func (h *PartnersHandler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var loc model.Location
	if id := q.Get("apartment"); id != "" {
		info, err := h.resolver.ApartmentInfo(r.Context(), id)
		if errors.Is(err, resolver.ErrApartmentNotFound) {
			http.Error(w, "Unknown apartment", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("Apartment lookup failed", "apartment", id, "error", err)
			http.Error(w, "Partner data unavailable", http.StatusServiceUnavailable)
			return
		}
		loc = info.Location
	} else {
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "Invalid lat/lng", http.StatusBadRequest)
			return
		}

		var err error
		loc, err = h.resolver.ResolveLocation(r.Context(), lat, lng, q.Get("city"))
		if err != nil {
			slog.Error("Location resolution failed", "error", err)
			http.Error(w, "Partner data unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	resp := PartnersResponse{
		Tiers:      partner.Classify(nil, ""),
		Categories: partner.DefaultCategories,
	}
	if loc.City != nil {
		zoneID := ""
		if loc.Zone != nil {
			zoneID = loc.Zone.ID
		}
		resp.Tiers = partner.Select(h.store.Partners(), loc.City.ID, zoneID, q.Get("category"))
		resp.PartnerOfDay = partner.PartnerOfDay(resp.Tiers.Top)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode partners response", "error", err)
	}
}
