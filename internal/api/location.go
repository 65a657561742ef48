package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"stayguide/pkg/model"
	"stayguide/pkg/resolver"
)

type LocationHandler struct {
	resolver *resolver.Resolver
}

func NewLocationHandler(res *resolver.Resolver) *LocationHandler {
	return &LocationHandler{resolver: res}
}

// placeDTO is the slim view of a city or zone, without the polygon.
type placeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LocationResponse struct {
	City *placeDTO `json:"city"`
	Zone *placeDTO `json:"zone"`
}

func (h *LocationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)

	if err1 != nil || err2 != nil {
		http.Error(w, "Invalid lat/lng", http.StatusBadRequest)
		return
	}

	loc, err := h.resolver.ResolveLocation(r.Context(), lat, lng, r.URL.Query().Get("city"))
	if err != nil {
		slog.Error("Location resolution failed", "error", err)
		http.Error(w, "Location data unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(locationResponse(loc)); err != nil {
		slog.Error("Failed to encode location response", "error", err)
	}
}

func locationResponse(loc model.Location) LocationResponse {
	var resp LocationResponse
	if loc.City != nil {
		resp.City = &placeDTO{ID: loc.City.ID, Name: loc.City.Name}
	}
	if loc.Zone != nil {
		resp.Zone = &placeDTO{ID: loc.Zone.ID, Name: loc.Zone.Name}
	}
	return resp
}
