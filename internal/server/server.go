package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
)

// Server is the HTTP surface of the name generator. Everything behind it is
// transport-agnostic; the server owns only routing, encoding and lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handlers *Handlers, logger *zap.Logger) *Server {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))

	r.Get("/healthz", handlers.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(Timeout(constants.ServerConfig.RequestTimeout)).Post("/names", handlers.GenerateName)
		api.Get("/months", handlers.Months)
		api.Get("/names/live", handlers.GenerateNameLive)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  constants.ServerConfig.ReadTimeout,
			WriteTimeout: constants.ServerConfig.WriteTimeout,
			IdleTimeout:  constants.ServerConfig.IdleTimeout,
		},
		logger: logger,
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ServerConfig.ShutdownTimeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
