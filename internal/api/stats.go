package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"stayguide/pkg/geodata"
	"stayguide/pkg/version"
)

type StatsHandler struct {
	store *geodata.Store
}

func NewStatsHandler(store *geodata.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

type DatasetStatsDTO struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	FetchSuccess  int64 `json:"fetch_success"`
	FetchFailures int64 `json:"fetch_errors"`
	HitRate       int64 `json:"hit_rate"`
}

type StatsResponse struct {
	Version  string                     `json:"version"`
	Counts   map[string]int             `json:"counts"`
	Datasets map[string]DatasetStatsDTO `json:"datasets"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Version: version.Version,
		Counts: map[string]int{
			"cities":   len(h.store.Cities()),
			"zones":    len(h.store.Zones()),
			"partners": len(h.store.Partners()),
		},
		Datasets: make(map[string]DatasetStatsDTO),
	}

	for name, s := range h.store.Stats() {
		resp.Datasets[name] = DatasetStatsDTO{
			CacheHits:     s.CacheHits,
			CacheMisses:   s.CacheMisses,
			FetchSuccess:  s.FetchSuccess,
			FetchFailures: s.FetchFailures,
			HitRate:       s.HitRate(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode stats response", "error", err)
	}
}
