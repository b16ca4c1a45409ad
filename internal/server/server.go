// Package server exposes the analysis and deal services over a thin JSON
// HTTP API. Validation and status-code mapping happen here; all domain rules
// live in the inner packages.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/market"
	"github.com/riftlabs/riftotc/internal/models"
)

// AnalysisService is the slice of the analyzer the HTTP layer needs.
type AnalysisService interface {
	Analyze(ctx context.Context, tokenID string, lockPeriod int) (*models.TokenAnalysis, error)
	Chat(ctx context.Context, message string, analysis *models.TokenAnalysis) string
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(addr string, analyzer AnalysisService, deals *deal.Service, provider market.Provider, logger *slog.Logger) *Server {
	h := &handlers{
		analyzer: analyzer,
		deals:    deals,
		provider: provider,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("POST /api/analyze", h.analyze)
	mux.HandleFunc("POST /api/chat", h.chat)

	mux.HandleFunc("GET /api/tokens/search", h.searchTokens)
	mux.HandleFunc("GET /api/tokens/trending", h.trendingTokens)
	mux.HandleFunc("GET /api/tokens/{id}", h.getToken)
	mux.HandleFunc("POST /api/tokens/{id}/calculate", h.calculateDeal)
	mux.HandleFunc("GET /api/tokens/{id}/suggest-discount", h.suggestDiscount)

	mux.HandleFunc("GET /api/deals", h.listDeals)
	mux.HandleFunc("POST /api/deals", h.createDeal)
	mux.HandleFunc("GET /api/deals/{id}", h.getDeal)
	mux.HandleFunc("POST /api/deals/{id}/accept", h.acceptDeal)
	mux.HandleFunc("POST /api/deals/{id}/claim", h.claimDeal)
	mux.HandleFunc("POST /api/deals/{id}/cancel", h.cancelDeal)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
