// Package api exposes the controller over a versioned HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vicxruiz/stockly/internal/controller"
	"github.com/vicxruiz/stockly/internal/feed"
	"github.com/vicxruiz/stockly/internal/marketdata"
)

type Service interface {
	State(ctx context.Context) controller.UIState
	Search(ctx context.Context, query string) controller.SearchStatus
	ClearSearch(ctx context.Context) controller.UIState
	Watchlist(ctx context.Context) []string
	AddSymbol(ctx context.Context, symbol string) ([]string, error)
	RemoveSymbol(ctx context.Context, symbol string) ([]string, error)
	HasSymbol(ctx context.Context, symbol string) (bool, error)
	Quotes(ctx context.Context) map[string]controller.Quote
	Quote(ctx context.Context, symbol string) (controller.Quote, error)
	FetchQuote(ctx context.Context, symbol string) (controller.Quote, error)
	RefreshQuotes(ctx context.Context) (controller.RefreshSummary, error)
}

// NewServer wires the API routes. broker may be nil, which disables the
// /api/v1/events stream.
func NewServer(svc Service, broker *feed.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Stockly Controller API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})
	router.Get("/docs/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(eventsDocsHTML)); err != nil {
			slog.Debug("events docs response write failed", "error", err)
		}
	})
	if broker != nil {
		router.Get("/api/v1/events", feed.SSEHandler(broker))
	}

	registerSearchHandlers(api, svc)
	registerWatchlistHandlers(api, svc)
	registerQuoteHandlers(api, svc)
	registerMiscHandlers(api, svc, broker)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *marketdata.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case marketdata.CodeValidation, marketdata.CodeInvalidRequest:
			return huma.Error400BadRequest(coded.Message)
		case marketdata.CodeNotFound:
			return huma.Error404NotFound(coded.Message)
		case marketdata.CodeNetwork, marketdata.CodeDecode:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
