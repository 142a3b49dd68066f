// Package handler exposes the statistics aggregation over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/naka-gawa/contribution-stats/internal/domain"
)

const (
	msgUsernameRequired = "Username parameter is required"
	msgFetchFailed      = "Failed to fetch contribution stats"
	msgMethodNotAllowed = "Method not allowed"
)

// StatsAggregator is satisfied by usecase.Aggregator.
type StatsAggregator interface {
	Aggregate(ctx context.Context, username string) (*domain.StatsResult, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// StatsHandler serves GET /api/stats?username=<name>.
type StatsHandler struct {
	agg    StatsAggregator
	logger *log.Logger
}

func NewStatsHandler(agg StatsAggregator, logger *log.Logger) *StatsHandler {
	return &StatsHandler{agg: agg, logger: logger}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgUsernameRequired})
		return
	}

	result, err := h.agg.Aggregate(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgUsernameRequired})
			return
		}
		h.logger.Printf("http: [%s] stats for %q failed: %v", RequestIDFromContext(r.Context()), username, err)
		msg := err.Error()
		if msg == "" {
			msg = msgFetchFailed
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires the API routes behind the request id middleware.
func NewRouter(agg StatsAggregator, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/stats", NewStatsHandler(agg, logger))
	mux.HandleFunc("/healthz", Health)
	return RequestID(logger)(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
