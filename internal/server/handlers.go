package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/dealcalc"
	"github.com/riftlabs/riftotc/internal/market"
	"github.com/riftlabs/riftotc/internal/models"
)

type handlers struct {
	analyzer AnalysisService
	deals    *deal.Service
	provider market.Provider
	logger   *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDealError maps the deal package's failure taxonomy onto HTTP codes.
func (h *handlers) writeDealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deal.ErrNotFound):
		writeError(w, http.StatusNotFound, "deal not found")
	case errors.Is(err, deal.ErrLockNotExpired):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: "lock period has not ended yet, cannot claim tokens",
			Code:  "lock_not_expired",
		})
	case errors.Is(err, deal.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, deal.ErrNotSeller):
		writeError(w, http.StatusForbidden, "only the seller can cancel this deal")
	case errors.Is(err, deal.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("deal operation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeMarketError maps provider failures onto HTTP codes.
func (h *handlers) writeMarketError(w http.ResponseWriter, tokenID string, err error) {
	switch {
	case errors.Is(err, market.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "token '"+tokenID+"' not found, please check the token symbol or ID")
	case errors.Is(err, market.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "external API rate limit reached, please wait a moment and try again")
	default:
		h.logger.Error("market data fetch failed", "token", tokenID, "err", err)
		writeError(w, http.StatusBadGateway, "market data unavailable")
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	TokenID    string `json:"token_id"`
	LockPeriod int    `json:"lock_period"`
}

func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TokenID == "" {
		writeError(w, http.StatusBadRequest, "token_id is required")
		return
	}
	if req.LockPeriod == 0 {
		req.LockPeriod = 4
	}
	if !models.ValidLockPeriod(req.LockPeriod) {
		writeError(w, http.StatusBadRequest, "lock_period must be 1, 4 or 8 weeks")
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.TokenID, req.LockPeriod)
	if err != nil {
		h.writeMarketError(w, req.TokenID, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type chatRequest struct {
	Message      string                `json:"message"`
	TokenContext *models.TokenAnalysis `json:"token_context"`
}

func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" || req.TokenContext == nil {
		writeError(w, http.StatusBadRequest, "message and token_context are required")
		return
	}

	reply := h.analyzer.Chat(r.Context(), req.Message, req.TokenContext)
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (h *handlers) searchTokens(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			writeError(w, http.StatusBadRequest, "limit must be an integer in [1,50]")
			return
		}
		limit = n
	}

	results, err := h.provider.Search(r.Context(), query, limit)
	if err != nil {
		h.writeMarketError(w, query, err)
		return
	}
	if results == nil {
		results = []models.TokenRef{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handlers) trendingTokens(w http.ResponseWriter, r *http.Request) {
	results, err := h.provider.Trending(r.Context())
	if err != nil {
		h.writeMarketError(w, "trending", err)
		return
	}
	if results == nil {
		results = []models.TokenRef{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handlers) getToken(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("id")
	snapshot, err := h.provider.Snapshot(r.Context(), tokenID)
	if err != nil {
		h.writeMarketError(w, tokenID, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *handlers) calculateDeal(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("id")

	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	discount, err := strconv.ParseFloat(q.Get("discount"), 64)
	if err != nil || discount < 0 || discount > 50 {
		writeError(w, http.StatusBadRequest, "discount must be within [0,50]")
		return
	}
	lockPeriod := 4
	if raw := q.Get("lock_period"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || !models.ValidLockPeriod(n) {
			writeError(w, http.StatusBadRequest, "lock_period must be 1, 4 or 8 weeks")
			return
		}
		lockPeriod = n
	}

	snapshot, err := h.provider.Snapshot(r.Context(), tokenID)
	if err != nil {
		h.writeMarketError(w, tokenID, err)
		return
	}

	metrics := dealcalc.Calculate(amount, snapshot.CurrentPrice, discount, lockPeriod, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": map[string]any{
			"id":            snapshot.ID,
			"name":          snapshot.Name,
			"symbol":        snapshot.Symbol,
			"current_price": snapshot.CurrentPrice,
		},
		"metrics": metrics,
	})
}

func (h *handlers) suggestDiscount(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("id")

	q := r.URL.Query()
	lockPeriod := 4
	if raw := q.Get("lock_period"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !models.ValidLockPeriod(n) {
			writeError(w, http.StatusBadRequest, "lock_period must be 1, 4 or 8 weeks")
			return
		}
		lockPeriod = n
	}
	riskScore := 5.0
	if raw := q.Get("risk_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 10 {
			writeError(w, http.StatusBadRequest, "risk_score must be within [0,10]")
			return
		}
		riskScore = v
	}

	snapshot, err := h.provider.Snapshot(r.Context(), tokenID)
	if err != nil {
		h.writeMarketError(w, tokenID, err)
		return
	}

	// Short-window volatility proxy from recent moves; a 30d change alone
	// understates how much the token actually swings.
	volatilityProxy := (math.Abs(snapshot.PriceChange7d)*2 + math.Abs(snapshot.PriceChange30d)) / 2

	suggestion := dealcalc.SuggestDiscount(lockPeriod, riskScore, volatilityProxy)
	writeJSON(w, http.StatusOK, map[string]any{
		"token_id":           tokenID,
		"lock_period":        lockPeriod,
		"suggested_discount": suggestion.SuggestedDiscount,
		"min_recommended":    suggestion.MinRecommended,
		"max_recommended":    suggestion.MaxRecommended,
		"reasoning":          suggestion.Reasoning,
	})
}

func (h *handlers) listDeals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.DealStatusOpen, models.DealStatusFunded, models.DealStatusCompleted, models.DealStatusCancelled:
	default:
		writeError(w, http.StatusBadRequest, "invalid status, must be one of: open, funded, completed, cancelled")
		return
	}

	deals, err := h.deals.List(r.Context(), status)
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	if deals == nil {
		deals = []*models.Deal{}
	}
	writeJSON(w, http.StatusOK, deals)
}

func (h *handlers) getDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.deals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) createDeal(w http.ResponseWriter, r *http.Request) {
	var params deal.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.LockPeriod == 0 {
		params.LockPeriod = 4
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Token must exist before a deal is listed against it.
	if _, err := h.provider.Snapshot(r.Context(), params.TokenID); err != nil {
		if errors.Is(err, market.ErrTokenNotFound) {
			writeError(w, http.StatusBadRequest, "token '"+params.TokenID+"' not found")
			return
		}
		h.writeMarketError(w, params.TokenID, err)
		return
	}

	// Attach an analysis snapshot when possible; a scoring failure should
	// not block listing the deal.
	analysis, err := h.analyzer.Analyze(r.Context(), params.TokenID, params.LockPeriod)
	if err != nil {
		h.logger.Error("analysis unavailable for new deal", "token", params.TokenID, "err", err)
		analysis = nil
	}

	d, err := h.deals.Create(r.Context(), params, analysis)
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type acceptDealRequest struct {
	BuyerAddress string `json:"buyer_address"`
}

func (h *handlers) acceptDeal(w http.ResponseWriter, r *http.Request) {
	var req acceptDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BuyerAddress == "" {
		writeError(w, http.StatusBadRequest, "buyer_address is required")
		return
	}

	d, err := h.deals.Accept(r.Context(), r.PathValue("id"), req.BuyerAddress)
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) claimDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.deals.Claim(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) cancelDeal(w http.ResponseWriter, r *http.Request) {
	sellerAddress := r.URL.Query().Get("seller_address")
	if sellerAddress == "" {
		writeError(w, http.StatusBadRequest, "seller_address is required")
		return
	}

	d, err := h.deals.Cancel(r.Context(), r.PathValue("id"), sellerAddress)
	if err != nil {
		h.writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
