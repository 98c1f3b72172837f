package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/happyharvest/garden/internal/animal"
	"github.com/happyharvest/garden/internal/auth"
	"github.com/happyharvest/garden/internal/building"
	"github.com/happyharvest/garden/internal/database"
	"github.com/happyharvest/garden/internal/garden"
	"github.com/happyharvest/garden/internal/handler"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/metrics"
	"github.com/happyharvest/garden/internal/plot"
	"github.com/happyharvest/garden/internal/realtime"
	"github.com/happyharvest/garden/internal/tree"
	"github.com/happyharvest/garden/internal/user"
)

// Services bundles the domain services the router exposes.
type Services struct {
	User     user.Service
	Garden   garden.Service
	Plot     plot.Service
	Tree     tree.Service
	Animal   animal.Service
	Building building.Service
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, authn auth.Authenticator, svcs Services, rtHandler *realtime.Handler) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	identitySkip := append(append([]string{}, PublicPaths...), NoIdentityPaths...)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(auth.Middleware(authn, identitySkip))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Realtime garden updates
	r.Get("/ws", rtHandler.ServeHTTP)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// User routes
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterUser(svcs.User))
			r.Get("/me", handler.HandleGetProfile(svcs.User))
		})

		// Garden routes
		r.Route("/gardens", func(r chi.Router) {
			r.Post("/", handler.HandleCreateGarden(svcs.Garden))
			r.Get("/", handler.HandleListGardens(svcs.Garden))
			r.Post("/join", handler.HandleJoinGarden(svcs.Garden))
			r.Get("/{gardenID}", handler.HandleGetGarden(svcs.Garden))
			r.Post("/{gardenID}/invite", handler.HandleGenerateInvite(svcs.Garden))
		})

		// Plot routes
		r.Route("/plots/{plotID}", func(r chi.Router) {
			r.Post("/plant", handler.HandlePlantCrop(svcs.Plot))
			r.Post("/water", handler.HandleWaterPlot(svcs.Plot))
			r.Post("/harvest", handler.HandleHarvestPlot(svcs.Plot))
			r.Post("/weed", handler.HandleRemoveWeed(svcs.Plot))
			r.Post("/steal", handler.HandleStealFromPlot(svcs.Plot))
		})

		// Tree routes
		r.Route("/trees", func(r chi.Router) {
			r.Post("/", handler.HandlePlantTree(svcs.Tree))
			r.Post("/{treeID}/harvest", handler.HandleHarvestTree(svcs.Tree))
			r.Delete("/{treeID}", handler.HandleRemoveTree(svcs.Tree))
		})

		// Animal routes
		r.Route("/animals", func(r chi.Router) {
			r.Post("/", handler.HandleBuyAnimal(svcs.Animal))
			r.Post("/{animalID}/feed", handler.HandleFeedAnimal(svcs.Animal))
			r.Post("/{animalID}/move", handler.HandleMoveAnimal(svcs.Animal))
			r.Delete("/{animalID}", handler.HandleSellAnimal(svcs.Animal))
		})

		// Building routes
		r.Route("/buildings", func(r chi.Router) {
			r.Post("/", handler.HandleBuild(svcs.Building))
			r.Post("/{buildingID}/production", handler.HandleStartProduction(svcs.Building))
			r.Post("/{buildingID}/collect", handler.HandleCollectProduction(svcs.Building))
			r.Delete("/{buildingID}", handler.HandleDemolish(svcs.Building))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
