package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/feed"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/tracing"
	"github.com/babylonlabs-io/token-vault-ledger/internal/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	maxBodySize       = 1 << 20
)

type Server struct {
	cfg        *config.Config
	svc        *services.Service
	hub        *feed.Hub
	now        func() time.Time
	signatures *usedSignatures
	httpServer *http.Server
}

func New(cfg *config.Config, svc *services.Service, hub *feed.Hub) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		hub: hub,
		now: time.Now,

		signatures: newUsedSignatures(cfg.Server.MaxSignatureTTL),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(tracing.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", s.handleHealthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/initialize", s.handleInitialize)
		r.Post("/owner", s.handleUpdateOwner)
		r.Post("/deposit", s.handleDeposit)
		r.Post("/withdraw", s.handleWithdraw)

		r.Get("/config", s.handleGetConfig)
		r.Get("/ledgers/{user}", s.handleGetLedger)
		r.Get("/stats", s.handleGetStats)
		r.Get("/events/ws", s.handleEventsWS)
	})

	return r
}

// Start blocks serving the api until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("address", s.httpServer.Addr).Msg("Starting api server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Healthcheck(r.Context()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Healthcheck failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
