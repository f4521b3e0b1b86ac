// Package controller holds the watchlist app's presentation state. It
// mediates between client intents and the market data client, the
// watchlist store, the event feed, and the quote journal.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vicxruiz/stockly/internal/debounce"
	"github.com/vicxruiz/stockly/internal/feed"
	"github.com/vicxruiz/stockly/internal/journal"
	"github.com/vicxruiz/stockly/internal/marketdata"
	"github.com/vicxruiz/stockly/internal/watchlist"
)

// DefaultDebounceDelay is the search quiescence window.
const DefaultDebounceDelay = 500 * time.Millisecond

// MarketData is the slice of the market data client the service uses.
type MarketData interface {
	SearchSymbol(ctx context.Context, query string) ([]marketdata.SearchResult, error)
	StockPrice(ctx context.Context, symbol string) (marketdata.QuoteSnapshot, error)
}

// QuoteJournal records quote updates for later replay.
type QuoteJournal interface {
	Write(rec journal.Record) error
}

// Service owns the UI state and serializes every mutation behind one
// mutex. Feed publishes happen outside the lock, from snapshots.
type Service struct {
	client  MarketData
	store   *watchlist.Store
	deb     *debounce.Debouncer
	broker  *feed.Broker
	journal QuoteJournal

	mu            sync.Mutex
	state         UIState
	searchGen     int64
	cancelPending func() bool
}

// Option configures a Service.
type Option func(*Service)

// WithDebounceDelay overrides the search quiescence window.
func WithDebounceDelay(delay time.Duration) Option {
	return func(s *Service) {
		s.deb = debounce.New(delay)
	}
}

// WithFeed publishes state changes to broker.
func WithFeed(broker *feed.Broker) Option {
	return func(s *Service) {
		s.broker = broker
	}
}

// WithJournal records quote updates to j.
func WithJournal(j QuoteJournal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// NewService returns a Service seeded from the store's current contents.
func NewService(client MarketData, store *watchlist.Store, opts ...Option) *Service {
	s := &Service{
		client: client,
		store:  store,
		deb:    debounce.New(DefaultDebounceDelay),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = UIState{
		SearchResults: []marketdata.SearchResult{},
		Watchlist:     store.List(),
		Quotes:        map[string]Quote{},
	}
	return s
}

// Close cancels any pending debounced search. The store, feed, and journal
// lifecycles belong to the caller.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchGen++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	return nil
}

// State returns a copy of the current UI state.
func (s *Service) State(ctx context.Context) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Search records query as the live search text and schedules a debounced
// symbol search. Any previously pending search is cancelled first. A blank
// query schedules nothing and clears the current results.
func (s *Service) Search(ctx context.Context, query string) SearchStatus {
	query = strings.TrimSpace(query)
	if query == "" {
		s.ClearSearch(ctx)
		return SearchStatus{Query: "", Scheduled: false}
	}

	s.mu.Lock()
	s.searchGen++
	gen := s.searchGen
	if s.cancelPending != nil {
		s.cancelPending()
	}
	s.state.Query = query
	s.state.SearchPending = true
	s.cancelPending = s.deb.Schedule(func() {
		s.runSearch(gen, query)
	})
	state := s.snapshotLocked()
	s.mu.Unlock()

	slog.Debug("controller: search scheduled", "query", query, "delay", s.deb.Delay())
	s.publishState(state)
	return SearchStatus{Query: query, Scheduled: true}
}

// ClearSearch cancels any pending search and empties the query and results.
func (s *Service) ClearSearch(ctx context.Context) UIState {
	s.mu.Lock()
	s.searchGen++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	s.state.Query = ""
	s.state.SearchPending = false
	s.state.SearchResults = []marketdata.SearchResult{}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.publishSearch(state)
	return state
}

// runSearch performs the debounced symbol search. Results are discarded
// when another Search or ClearSearch superseded gen while the request was
// in flight.
func (s *Service) runSearch(gen int64, query string) {
	results, err := s.client.SearchSymbol(context.Background(), query)

	s.mu.Lock()
	if gen != s.searchGen {
		s.mu.Unlock()
		slog.Debug("controller: dropping stale search results", "query", query)
		return
	}
	s.cancelPending = nil
	s.state.SearchPending = false
	if err != nil {
		s.setErrorLocked("search", err)
		state := s.snapshotLocked()
		s.mu.Unlock()
		slog.Warn("controller: search failed", "query", query, "error", err)
		s.publishState(state)
		return
	}
	s.state.SearchResults = results
	s.state.LastError = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("controller: search completed", "query", query, "results", len(results))
	s.publishSearch(state)
}

// Watchlist returns the stored symbols in insertion order.
func (s *Service) Watchlist(ctx context.Context) []string {
	return s.store.List()
}

// HasSymbol reports whether symbol is on the watchlist.
func (s *Service) HasSymbol(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.TrimSpace(symbol)
	if err := requireNonEmpty(symbol, "symbol"); err != nil {
		return false, err
	}
	return s.store.Contains(symbol), nil
}

// AddSymbol appends symbol to the watchlist and returns the updated list.
func (s *Service) AddSymbol(ctx context.Context, symbol string) ([]string, error) {
	symbol = strings.TrimSpace(symbol)
	if err := requireNonEmpty(symbol, "symbol"); err != nil {
		return nil, err
	}
	if err := s.store.Add(symbol); err != nil {
		s.recordError("add_symbol", err)
		return nil, err
	}
	symbols := s.syncWatchlist()
	slog.Info("controller: symbol added", "symbol", symbol, "watchlist_size", len(symbols))
	return symbols, nil
}

// RemoveSymbol deletes every occurrence of symbol and returns the updated
// list. The symbol's quote state goes with it.
func (s *Service) RemoveSymbol(ctx context.Context, symbol string) ([]string, error) {
	symbol = strings.TrimSpace(symbol)
	if err := requireNonEmpty(symbol, "symbol"); err != nil {
		return nil, err
	}
	if err := s.store.Remove(symbol); err != nil {
		s.recordError("remove_symbol", err)
		return nil, err
	}

	s.mu.Lock()
	delete(s.state.Quotes, symbol)
	s.mu.Unlock()

	symbols := s.syncWatchlist()
	slog.Info("controller: symbol removed", "symbol", symbol, "watchlist_size", len(symbols))
	return symbols, nil
}

// FetchQuote loads the change figure and then the real-time price for
// symbol. Either call failing fails the whole operation and leaves the
// stored quote untouched.
func (s *Service) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if err := requireNonEmpty(symbol, "symbol"); err != nil {
		return Quote{}, err
	}

	snap, err := s.client.StockPrice(ctx, symbol)
	if err != nil {
		s.recordError("fetch_quote", err)
		slog.Warn("controller: quote fetch failed", "symbol", symbol, "error", err)
		return Quote{}, err
	}

	q := Quote{
		Symbol:    symbol,
		Price:     snap.Price,
		Change:    snap.Change,
		Direction: direction(snap.Change),
		Source:    SourceRest,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.state.Quotes[symbol] = q
	s.state.LastError = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.journalQuote(q)
	s.publishQuote(q, state)
	return q, nil
}

// RefreshQuotes fetches a quote for every distinct watchlist symbol.
func (s *Service) RefreshQuotes(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary
	seen := make(map[string]bool)
	for _, symbol := range s.store.List() {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, err := s.FetchQuote(ctx, symbol); err != nil {
			summary.Failed++
			continue
		}
		summary.Updated++
	}
	slog.Info("controller: quotes refreshed", "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// Quotes returns a copy of the per-symbol quote state.
func (s *Service) Quotes(ctx context.Context) map[string]Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Quotes
}

// Quote returns the stored quote for symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if err := requireNonEmpty(symbol, "symbol"); err != nil {
		return Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.state.Quotes[symbol]
	if !ok {
		return Quote{}, &marketdata.CodedError{
			Code:    marketdata.CodeNotFound,
			Message: "no quote for " + symbol,
		}
	}
	return q, nil
}

// ApplyStreamPrice folds a streamed price tick into the quote state. The
// change figure carries over from the previous quote; direction is derived
// from the price move when both prices parse.
func (s *Service) ApplyStreamPrice(symbol, price string, at time.Time) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || price == "" {
		return
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	s.mu.Lock()
	prev, ok := s.state.Quotes[symbol]
	q := Quote{
		Symbol:    symbol,
		Price:     price,
		Change:    "0",
		Source:    SourceStream,
		UpdatedAt: at,
	}
	if ok {
		q.Change = prev.Change
		if dir := priceDirection(prev.Price, price); dir != "" {
			q.Direction = dir
		} else {
			q.Direction = prev.Direction
		}
	}
	s.state.Quotes[symbol] = q
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.journalQuote(q)
	s.publishQuote(q, state)
}

// syncWatchlist refreshes state.Watchlist from the store and publishes the
// change.
func (s *Service) syncWatchlist() []string {
	symbols := s.store.List()

	s.mu.Lock()
	s.state.Watchlist = symbols
	s.state.LastError = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.publishWatchlist(symbols, state)
	return symbols
}

func (s *Service) recordError(op string, err error) {
	s.mu.Lock()
	s.setErrorLocked(op, err)
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.publishState(state)
}

func (s *Service) setErrorLocked(op string, err error) {
	opErr := &OpError{
		Op:      op,
		Message: err.Error(),
		At:      time.Now().UTC(),
	}
	var coded *marketdata.CodedError
	if errors.As(err, &coded) {
		opErr.Code = coded.Code
	}
	s.state.LastError = opErr
}

// snapshotLocked deep-copies the state so callers can read it lock-free.
func (s *Service) snapshotLocked() UIState {
	snap := s.state
	snap.SearchResults = make([]marketdata.SearchResult, len(s.state.SearchResults))
	copy(snap.SearchResults, s.state.SearchResults)
	snap.Watchlist = make([]string, len(s.state.Watchlist))
	copy(snap.Watchlist, s.state.Watchlist)
	snap.Quotes = make(map[string]Quote, len(s.state.Quotes))
	for symbol, q := range s.state.Quotes {
		snap.Quotes[symbol] = q
	}
	if s.state.LastError != nil {
		lastErr := *s.state.LastError
		snap.LastError = &lastErr
	}
	return snap
}

type searchEvent struct {
	Query   string                    `json:"query"`
	Results []marketdata.SearchResult `json:"results"`
}

type watchlistEvent struct {
	Symbols []string `json:"symbols"`
}

func (s *Service) publishState(state UIState) {
	if s.broker == nil {
		return
	}
	s.broker.PublishJSON(feed.TopicState, state)
}

func (s *Service) publishSearch(state UIState) {
	if s.broker == nil {
		return
	}
	s.broker.PublishJSON(feed.TopicSearch, searchEvent{Query: state.Query, Results: state.SearchResults})
	s.broker.PublishJSON(feed.TopicState, state)
}

func (s *Service) publishWatchlist(symbols []string, state UIState) {
	if s.broker == nil {
		return
	}
	s.broker.PublishJSON(feed.TopicWatchlist, watchlistEvent{Symbols: symbols})
	s.broker.PublishJSON(feed.TopicState, state)
}

func (s *Service) publishQuote(q Quote, state UIState) {
	if s.broker == nil {
		return
	}
	s.broker.PublishJSON(feed.TopicQuote, q)
	s.broker.PublishJSON(feed.TopicState, state)
}

func (s *Service) journalQuote(q Quote) {
	if s.journal == nil {
		return
	}
	rec := journal.Record{
		Time:   q.UpdatedAt,
		Symbol: q.Symbol,
		Price:  q.Price,
		Change: q.Change,
		Source: q.Source,
	}
	if err := s.journal.Write(rec); err != nil {
		slog.Warn("controller: journal write failed", "symbol", q.Symbol, "error", err)
	}
}

func requireNonEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &marketdata.CodedError{Code: marketdata.CodeValidation, Message: fieldName + " is required"}
	}
	return nil
}
