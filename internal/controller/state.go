package controller

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vicxruiz/stockly/internal/marketdata"
)

// Quote sources.
const (
	SourceRest   = "rest"
	SourceStream = "stream"
)

// Quote directions, derived from the change figure or from consecutive
// stream prices.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// Quote is the per-symbol observable quote state. Price and Change stay
// strings end to end; parsing happens only to derive Direction.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	Change    string    `json:"change"`
	Direction string    `json:"direction,omitempty"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpError records the most recent failed operation.
type OpError struct {
	Op      string    `json:"op"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// UIState is a snapshot of everything a client renders.
type UIState struct {
	Query         string                    `json:"query"`
	SearchPending bool                      `json:"search_pending"`
	SearchResults []marketdata.SearchResult `json:"search_results"`
	Watchlist     []string                  `json:"watchlist"`
	Quotes        map[string]Quote          `json:"quotes"`
	LastError     *OpError                  `json:"last_error,omitempty"`
}

// SearchStatus reports how a search intent was handled.
type SearchStatus struct {
	Query     string `json:"query"`
	Scheduled bool   `json:"scheduled"`
}

// RefreshSummary counts the outcome of a watchlist-wide quote refresh.
type RefreshSummary struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// direction classifies a change figure. Unparseable input yields "".
func direction(change string) string {
	d, err := decimal.NewFromString(change)
	if err != nil {
		return ""
	}
	switch d.Sign() {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// priceDirection classifies the move from prev to next. Unparseable input
// yields "".
func priceDirection(prev, next string) string {
	p, err := decimal.NewFromString(prev)
	if err != nil {
		return ""
	}
	n, err := decimal.NewFromString(next)
	if err != nil {
		return ""
	}
	switch n.Cmp(p) {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionFlat
	}
}
