package httpx

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/safar/go-shop-services/internal/metrics"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// NewRouter builds the shared router surface for both services. m may be nil
// (tests); then no metrics middleware or /metrics endpoint is mounted.
func NewRouter(m *metrics.ServerMetrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("Error encoding JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondInternalError logs the cause and returns a generic body; driver and
// SQL error text never reaches the client.
func respondInternalError(w http.ResponseWriter, err error) {
	logger.Error().Err(err).Msg("Internal server error")
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
