package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/reklub/kumitsu-app/docs"
	"github.com/reklub/kumitsu-app/handlers"
	"github.com/reklub/kumitsu-app/middleware"
)

type Options struct {
	AllowedOrigins  []string
	ResultRateLimit float64
	ResultRateBurst int
	// TrustProxyHeaders mounts RealIP, so logs and the rate limiter see the
	// forwarded client address. Leave it off unless a proxy sets the headers.
	TrustProxyHeaders bool
	Logger            *slog.Logger
}

func SetupRoutes(
	router *chi.Mux,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	opts Options,
) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router.Use(chiMiddleware.RequestID)
	if opts.TrustProxyHeaders {
		router.Use(chiMiddleware.RealIP)
	}
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limit := opts.ResultRateLimit
	if limit <= 0 {
		limit = 5
	}
	burst := opts.ResultRateBurst
	if burst <= 0 {
		burst = 10
	}
	mutationLimiter := middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(limit), burst))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/matches", matchHandler.ListMatches)
		r.Get("/matches/current", matchHandler.CurrentMatches)
		r.Get("/stats", matchHandler.GetStats)
		r.Get("/categories/{categoryID}/bracket", bracketHandler.GetCategoryBracket)
		r.Get("/categories/{categoryID}/standings", matchHandler.GetStandings)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(60 * time.Second))
			r.Use(mutationLimiter)
			r.Post("/brackets", bracketHandler.GenerateBrackets)
			r.Post("/categories/{categoryID}/bracket", bracketHandler.RebuildCategory)
			r.Post("/start", matchHandler.StartTournament)
			r.Post("/export", bracketHandler.ExportBrackets)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Use(mutationLimiter)
		r.Post("/start", matchHandler.StartMatch)
		r.Post("/result", matchHandler.RecordResult)
		r.Post("/cancel", matchHandler.CancelMatch)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
