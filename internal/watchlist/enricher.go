package watchlist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Scurrlin/stocks-app/internal/marketdata"
	"github.com/Scurrlin/stocks-app/internal/models"
)

// defaultMaxInFlight caps how many watchlist entries are enriched at once.
// Each entry issues two upstream requests, so the outbound ceiling is twice
// this value. Watchlists are user-curated and small, but the cap keeps an
// unusually large one from flooding the provider.
const defaultMaxInFlight = 8

// UserDirectory resolves an email address to a stable user identity
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store lists persisted watchlist entries
type Store interface {
	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

// MarketData provides live quote and profile lookups
type MarketData interface {
	Enabled() bool
	FetchQuote(ctx context.Context, symbol string) (*marketdata.Quote, error)
	FetchProfile(ctx context.Context, symbol string) (*marketdata.Profile, error)
}

// Enricher merges persisted watchlist entries with live market data
type Enricher struct {
	directory   UserDirectory
	store       Store
	market      MarketData
	logger      *zap.Logger
	maxInFlight int
}

// NewEnricher creates an Enricher over the given collaborators
func NewEnricher(directory UserDirectory, store Store, market MarketData, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		directory:   directory,
		store:       store,
		market:      market,
		logger:      logger,
		maxInFlight: defaultMaxInFlight,
	}
}

// Enrich returns the user's watchlist with live market fields filled in
// where the provider had them, most recently added first.
//
// The call degrades rather than fails: an unknown email, an unreachable
// store, or a missing API token all produce a usable (possibly empty or
// price-less) result. One entry's upstream failure never affects its
// siblings, and output order always matches store order regardless of
// fetch completion timing.
func (e *Enricher) Enrich(ctx context.Context, email string) []models.EnrichedStock {
	if email == "" {
		return []models.EnrichedStock{}
	}

	user, err := e.directory.FindUserByEmail(ctx, email)
	if err != nil {
		e.logger.Error("user lookup failed", zap.Error(err))
		return []models.EnrichedStock{}
	}
	if user == nil || user.ID == "" {
		return []models.EnrichedStock{}
	}

	entries, err := e.store.ListWatchlist(ctx, user.ID)
	if err != nil {
		e.logger.Error("watchlist listing failed", zap.String("user_id", user.ID), zap.Error(err))
		return []models.EnrichedStock{}
	}
	if len(entries) == 0 {
		return []models.EnrichedStock{}
	}

	out := make([]models.EnrichedStock, len(entries))

	if !e.market.Enabled() {
		e.logger.Warn("market data token not configured, returning base watchlist",
			zap.String("user_id", user.ID))
		for i, entry := range entries {
			out[i] = baseStock(entry)
		}
		return out
	}

	// Fan out one task per entry. Each result lands in its entry's slot, so
	// completion timing never reorders the output.
	sem := make(chan struct{}, e.maxInFlight)
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry models.WatchlistEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.enrichEntry(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	return out
}

// enrichEntry fetches quote and profile data concurrently and merges them
// into the entry. Every failure path, including a panic, degrades to the
// base fields so the damage stays contained to this entry.
func (e *Enricher) enrichEntry(ctx context.Context, entry models.WatchlistEntry) (stock models.EnrichedStock) {
	stock = baseStock(entry)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("enrichment panicked",
				zap.String("symbol", entry.Symbol), zap.Any("panic", r))
			stock = baseStock(entry)
		}
	}()

	var (
		wg      sync.WaitGroup
		quote   *marketdata.Quote
		profile *marketdata.Profile
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer logRecover(e.logger, entry.Symbol)
		q, err := e.market.FetchQuote(ctx, entry.Symbol)
		if err != nil {
			e.logger.Debug("quote fetch failed",
				zap.String("symbol", entry.Symbol), zap.Error(err))
			return
		}
		quote = q
	}()
	go func() {
		defer wg.Done()
		defer logRecover(e.logger, entry.Symbol)
		p, err := e.market.FetchProfile(ctx, entry.Symbol)
		if err != nil {
			e.logger.Debug("profile fetch failed",
				zap.String("symbol", entry.Symbol), zap.Error(err))
			return
		}
		profile = p
	}()
	wg.Wait()

	if quote != nil {
		if quote.Current != nil {
			stock.CurrentPrice = quote.Current
			formatted := FormatPrice(*quote.Current)
			stock.PriceFormatted = &formatted
		}
		if quote.ChangePercent != nil {
			stock.ChangePercent = quote.ChangePercent
			formatted := FormatChange(*quote.ChangePercent)
			stock.ChangeFormatted = &formatted
		}
	}
	if profile != nil && profile.Logo != "" {
		logo := profile.Logo
		stock.Logo = &logo
	}

	return stock
}

// logRecover swallows a panic from a fetch goroutine. The fetch result stays
// nil, which the merge treats the same as a failed fetch.
func logRecover(logger *zap.Logger, symbol string) {
	if r := recover(); r != nil {
		logger.Error("fetch panicked", zap.String("symbol", symbol), zap.Any("panic", r))
	}
}

func baseStock(entry models.WatchlistEntry) models.EnrichedStock {
	return models.EnrichedStock{
		UserID:  entry.UserID,
		Symbol:  entry.Symbol,
		Company: entry.Company,
		AddedAt: entry.AddedAt,
	}
}
