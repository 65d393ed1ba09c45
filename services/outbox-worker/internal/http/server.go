package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toolplanet/services/outbox-worker/internal/metrics"
	"toolplanet/shared/pkg/httputil"
	sharedmetrics "toolplanet/shared/pkg/metrics"
)

type PendingCounter interface {
	Pending(ctx context.Context) (int, error)
}

type Server struct {
	Outbox PendingCounter
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(sharedmetrics.Middleware("outbox-worker"))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/outbox/pending", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		n, err := s.Outbox.Pending(ctx)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		metrics.OutboxPending.Set(float64(n))
		httputil.JSONResponse(w, http.StatusOK, map[string]int{"pending": n})
	})

	return r
}
