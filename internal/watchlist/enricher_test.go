package watchlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scurrlin/stocks-app/internal/marketdata"
	"github.com/Scurrlin/stocks-app/internal/models"
)

type fakeDirectory struct {
	users map[string]*models.User
	err   error
	calls int
}

func (d *fakeDirectory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.users[email], nil
}

type fakeStore struct {
	entries []models.WatchlistEntry
	err     error
	calls   int
}

func (s *fakeStore) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type fakeMarket struct {
	mu           sync.Mutex
	enabled      bool
	quotes       map[string]*marketdata.Quote
	profiles     map[string]*marketdata.Profile
	quoteErrs    map[string]error
	profileErrs  map[string]error
	quotePanics  map[string]bool
	delays       map[string]time.Duration
	quoteCalls   int
	profileCalls int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		enabled:     true,
		quotes:      make(map[string]*marketdata.Quote),
		profiles:    make(map[string]*marketdata.Profile),
		quoteErrs:   make(map[string]error),
		profileErrs: make(map[string]error),
		quotePanics: make(map[string]bool),
		delays:      make(map[string]time.Duration),
	}
}

func (m *fakeMarket) Enabled() bool { return m.enabled }

func (m *fakeMarket) FetchQuote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	m.mu.Lock()
	m.quoteCalls++
	delay := m.delays[symbol]
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if m.quotePanics[symbol] {
		panic("quote fetch exploded")
	}
	if err := m.quoteErrs[symbol]; err != nil {
		return nil, err
	}
	if q, ok := m.quotes[symbol]; ok {
		return q, nil
	}
	return nil, errors.New("no quote")
}

func (m *fakeMarket) FetchProfile(ctx context.Context, symbol string) (*marketdata.Profile, error) {
	m.mu.Lock()
	m.profileCalls++
	m.mu.Unlock()
	if err := m.profileErrs[symbol]; err != nil {
		return nil, err
	}
	if p, ok := m.profiles[symbol]; ok {
		return p, nil
	}
	return nil, errors.New("no profile")
}

func fptr(v float64) *float64 { return &v }

func entry(symbol string, addedAt time.Time) models.WatchlistEntry {
	return models.WatchlistEntry{
		UserID:  "user-1",
		Symbol:  symbol,
		Company: symbol + " Inc.",
		AddedAt: addedAt,
	}
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	knownUser := &fakeDirectory{users: map[string]*models.User{
		"alice@example.com": {ID: "user-1", Email: "alice@example.com"},
	}}

	t.Run("empty email short-circuits without lookups", func(t *testing.T) {
		directory := &fakeDirectory{}
		store := &fakeStore{}
		market := newFakeMarket()
		e := NewEnricher(directory, store, market, nil)

		got := e.Enrich(ctx, "")

		assert.Empty(t, got)
		assert.Zero(t, directory.calls)
		assert.Zero(t, store.calls)
	})

	t.Run("unknown email degrades to empty watchlist", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{entry("AAPL", now)}}
		e := NewEnricher(&fakeDirectory{users: map[string]*models.User{}}, store, newFakeMarket(), nil)

		got := e.Enrich(ctx, "ghost@example.com")

		assert.Empty(t, got)
		assert.Zero(t, store.calls)
	})

	t.Run("directory failure degrades to empty watchlist", func(t *testing.T) {
		e := NewEnricher(&fakeDirectory{err: errors.New("directory down")}, &fakeStore{}, newFakeMarket(), nil)

		assert.Empty(t, e.Enrich(ctx, "alice@example.com"))
	})

	t.Run("store failure degrades to empty watchlist", func(t *testing.T) {
		e := NewEnricher(knownUser, &fakeStore{err: errors.New("db down")}, newFakeMarket(), nil)

		assert.Empty(t, e.Enrich(ctx, "alice@example.com"))
	})

	t.Run("empty watchlist issues no market calls", func(t *testing.T) {
		market := newFakeMarket()
		e := NewEnricher(knownUser, &fakeStore{}, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		assert.Empty(t, got)
		assert.Zero(t, market.quoteCalls)
		assert.Zero(t, market.profileCalls)
	})

	t.Run("missing token returns base entries without market calls", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{
			entry("NVDA", now),
			entry("AAPL", now.Add(-time.Hour)),
		}}
		market := newFakeMarket()
		market.enabled = false
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 2)
		assert.Equal(t, "NVDA", got[0].Symbol)
		assert.Equal(t, "AAPL", got[1].Symbol)
		for _, s := range got {
			assert.Nil(t, s.CurrentPrice)
			assert.Nil(t, s.ChangePercent)
			assert.Nil(t, s.PriceFormatted)
			assert.Nil(t, s.ChangeFormatted)
			assert.Nil(t, s.Logo)
		}
		assert.Zero(t, market.quoteCalls)
		assert.Zero(t, market.profileCalls)
	})

	t.Run("successful enrichment fills all fields", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{entry("AAPL", now)}}
		market := newFakeMarket()
		market.quotes["AAPL"] = &marketdata.Quote{Current: fptr(150), ChangePercent: fptr(2.345)}
		market.profiles["AAPL"] = &marketdata.Profile{Logo: "https://example.com/aapl.png"}
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 1)
		s := got[0]
		require.NotNil(t, s.CurrentPrice)
		assert.Equal(t, 150.0, *s.CurrentPrice)
		require.NotNil(t, s.ChangePercent)
		assert.Equal(t, 2.345, *s.ChangePercent)
		require.NotNil(t, s.PriceFormatted)
		assert.Equal(t, "$150.00", *s.PriceFormatted)
		require.NotNil(t, s.ChangeFormatted)
		assert.Equal(t, "+2.35%", *s.ChangeFormatted)
		require.NotNil(t, s.Logo)
		assert.Equal(t, "https://example.com/aapl.png", *s.Logo)
	})

	t.Run("quote failure leaves price fields absent on that entry only", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{
			entry("AAPL", now),
			entry("MSFT", now.Add(-time.Minute)),
		}}
		market := newFakeMarket()
		market.quoteErrs["AAPL"] = errors.New("upstream 502")
		market.profiles["AAPL"] = &marketdata.Profile{Logo: "https://example.com/aapl.png"}
		market.quotes["MSFT"] = &marketdata.Quote{Current: fptr(410.5), ChangePercent: fptr(-1.2)}
		market.profiles["MSFT"] = &marketdata.Profile{Logo: "https://example.com/msft.png"}
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 2)

		// Degraded entry keeps its profile data: the two fetches are independent
		assert.Nil(t, got[0].CurrentPrice)
		assert.Nil(t, got[0].PriceFormatted)
		assert.Nil(t, got[0].ChangeFormatted)
		require.NotNil(t, got[0].Logo)

		require.NotNil(t, got[1].CurrentPrice)
		assert.Equal(t, 410.5, *got[1].CurrentPrice)
		require.NotNil(t, got[1].ChangeFormatted)
		assert.Equal(t, "-1.20%", *got[1].ChangeFormatted)
	})

	t.Run("profile failure leaves only the logo absent", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{entry("AAPL", now)}}
		market := newFakeMarket()
		market.quotes["AAPL"] = &marketdata.Quote{Current: fptr(150), ChangePercent: fptr(1)}
		market.profileErrs["AAPL"] = errors.New("timeout")
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 1)
		assert.Nil(t, got[0].Logo)
		assert.NotNil(t, got[0].CurrentPrice)
	})

	t.Run("profile without logo leaves logo absent", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{entry("AAPL", now)}}
		market := newFakeMarket()
		market.quotes["AAPL"] = &marketdata.Quote{Current: fptr(150)}
		market.profiles["AAPL"] = &marketdata.Profile{Name: "Apple Inc."}
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 1)
		assert.Nil(t, got[0].Logo)
	})

	t.Run("quote without change percent fills only price fields", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{entry("AAPL", now)}}
		market := newFakeMarket()
		market.quotes["AAPL"] = &marketdata.Quote{Current: fptr(150)}
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 1)
		require.NotNil(t, got[0].PriceFormatted)
		assert.Equal(t, "$150.00", *got[0].PriceFormatted)
		assert.Nil(t, got[0].ChangePercent)
		assert.Nil(t, got[0].ChangeFormatted)
	})

	t.Run("panic during one entry degrades that entry only", func(t *testing.T) {
		store := &fakeStore{entries: []models.WatchlistEntry{
			entry("BOOM", now),
			entry("MSFT", now.Add(-time.Minute)),
		}}
		market := newFakeMarket()
		market.quotePanics["BOOM"] = true
		market.profiles["BOOM"] = &marketdata.Profile{Logo: "https://example.com/boom.png"}
		market.quotes["MSFT"] = &marketdata.Quote{Current: fptr(410.5), ChangePercent: fptr(0.5)}
		market.profiles["MSFT"] = &marketdata.Profile{Logo: "https://example.com/msft.png"}
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, 2)
		assert.Nil(t, got[0].CurrentPrice)
		assert.NotNil(t, got[1].CurrentPrice)
	})

	t.Run("output order matches store order regardless of completion timing", func(t *testing.T) {
		symbols := []string{"NVDA", "MSFT", "AAPL", "TSLA", "AMZN"}
		store := &fakeStore{}
		market := newFakeMarket()
		for i, symbol := range symbols {
			store.entries = append(store.entries, entry(symbol, now.Add(-time.Duration(i)*time.Minute)))
			market.quotes[symbol] = &marketdata.Quote{Current: fptr(float64(100 + i))}
			market.profiles[symbol] = &marketdata.Profile{Logo: "https://example.com/" + symbol}
		}
		// First-listed entry finishes last
		market.delays["NVDA"] = 50 * time.Millisecond
		e := NewEnricher(knownUser, store, market, nil)

		got := e.Enrich(ctx, "alice@example.com")

		require.Len(t, got, len(symbols))
		for i, symbol := range symbols {
			assert.Equal(t, symbol, got[i].Symbol)
		}
	})
}
