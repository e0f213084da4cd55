package rest

import (
	"context"
	"net/http"
	core_port "rental-dashboard/internal/core/port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     core_port.LoggerPort
}

func NewServer(port string,
	allowedOrigins []string,
	listingsHandlers *ListingsHandler,
	statsHandlers *StatsHandler,
	filtersHandlers *FilterHandler,
	metricsHandler http.Handler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	// дашборд ходит в API из браузера с другого origin
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", traceIDHeader},
			ExposedHeaders: []string{traceIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listings", listingsHandlers.GetListings)

		r.Get("/stats", statsHandlers.GetStats)
		r.Get("/stats/history", statsHandlers.GetProcessingHistory)

		r.Get("/filters/options", filtersHandlers.GetFilterOptions)
	})

	handler := otelhttp.NewHandler(r, "rental-dashboard")

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		handler: handler,
		logger:  baseLogger,
	}
}

// Handler отдает корневой обработчик (для httptest).
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
