package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Scurrlin/stocks-app/internal/auth"
	"github.com/Scurrlin/stocks-app/internal/database"
	"github.com/Scurrlin/stocks-app/internal/kafka"
	"github.com/Scurrlin/stocks-app/internal/marketdata"
	"github.com/Scurrlin/stocks-app/internal/models"
)

// WatchlistStore is the subset of database operations the handlers mutate
type WatchlistStore interface {
	AddToWatchlist(ctx context.Context, userID, symbol, company string) (*models.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, userID, symbol string) error
}

// Enricher produces the enriched watchlist for an email
type Enricher interface {
	Enrich(ctx context.Context, email string) []models.EnrichedStock
}

// MarketData is the pass-through surface for market panels and search
type MarketData interface {
	Enabled() bool
	FetchQuote(ctx context.Context, symbol string) (*marketdata.Quote, error)
	FetchProfile(ctx context.Context, symbol string) (*marketdata.Profile, error)
	Search(ctx context.Context, q string) (*marketdata.SearchResponse, error)
}

// AuthProvider is the opaque auth capability the handlers depend on
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignOut(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// Options holds handler-level settings
type Options struct {
	SessionTTL    time.Duration
	GuestTTL      time.Duration
	SecureCookies bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store    WatchlistStore
	enricher Enricher
	market   MarketData
	provider AuthProvider
	producer *kafka.Producer
	logger   *zap.Logger
	opts     Options
}

// NewHandler creates a new Handler. producer may be nil when event
// publishing is not configured.
func NewHandler(store WatchlistStore, enricher Enricher, market MarketData, provider AuthProvider, producer *kafka.Producer, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.GuestTTL <= 0 {
		opts.GuestTTL = time.Hour
	}
	return &Handler{
		store:    store,
		enricher: enricher,
		market:   market,
		provider: provider,
		producer: producer,
		logger:   logger,
		opts:     opts,
	}
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, database.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("sign up failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusCreated, user)
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("sign in failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, user)
}

// SignOut handles POST /api/v1/auth/sign-out
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.provider.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger.Error("sign out failed", zap.Error(err))
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// GuestMode handles POST /api/v1/auth/guest. It sets a time-boxed guest
// cookie permitting storage-free browsing; nothing is persisted server-side.
func (h *Handler) GuestMode(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   int(h.opts.GuestTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetWatchlist handles GET /api/v1/watchlist
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	stocks := h.enricher.Enrich(r.Context(), sess.Email)
	respondJSON(w, http.StatusOK, stocks)
}

// AddToWatchlist handles POST /api/v1/watchlist
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req struct {
		Symbol  string `json:"symbol"`
		Company string `json:"company"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.store.AddToWatchlist(r.Context(), sess.UserID, req.Symbol, req.Company)
	switch {
	case errors.Is(err, database.ErrValidation):
		respondError(w, http.StatusBadRequest, "symbol and company are required")
		return
	case errors.Is(err, database.ErrAlreadyExists):
		respondError(w, http.StatusConflict, "stock already in watchlist")
		return
	case err != nil:
		h.logger.Error("failed to add to watchlist", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to add to watchlist")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishWatchlistAdded(r.Context(), entry); err != nil {
			h.logger.Warn("failed to publish watchlist event", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusCreated, entry)
}

// RemoveFromWatchlist handles DELETE /api/v1/watchlist/{symbol}
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	symbol := mux.Vars(r)["symbol"]

	err := h.store.RemoveFromWatchlist(r.Context(), sess.UserID, symbol)
	switch {
	case errors.Is(err, database.ErrValidation):
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "stock not found in watchlist")
		return
	case err != nil:
		h.logger.Error("failed to remove from watchlist", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to remove from watchlist")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishWatchlistRemoved(r.Context(), sess.UserID, symbol); err != nil {
			h.logger.Warn("failed to publish watchlist event", zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchStocks handles GET /api/v1/search
func (h *Handler) SearchStocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	if !h.market.Enabled() {
		respondJSON(w, http.StatusOK, marketdata.SearchResponse{Result: []marketdata.SearchResult{}})
		return
	}

	result, err := h.market.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("search failed", zap.String("q", q), zap.Error(err))
		respondError(w, http.StatusBadGateway, "search unavailable")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetQuote handles GET /api/v1/stocks/{symbol}/quote
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if !h.market.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "market data not configured")
		return
	}

	quote, err := h.market.FetchQuote(r.Context(), symbol)
	if err != nil {
		h.logger.Error("quote fetch failed", zap.String("symbol", symbol), zap.Error(err))
		respondError(w, http.StatusBadGateway, "quote unavailable")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// GetProfile handles GET /api/v1/stocks/{symbol}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if !h.market.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "market data not configured")
		return
	}

	profile, err := h.market.FetchProfile(r.Context(), symbol)
	if err != nil {
		h.logger.Error("profile fetch failed", zap.String("symbol", symbol), zap.Error(err))
		respondError(w, http.StatusBadGateway, "profile unavailable")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
