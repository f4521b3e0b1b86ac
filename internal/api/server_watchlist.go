package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func registerWatchlistHandlers(api huma.API, svc Service) {
	type watchlistOutput struct {
		Body struct {
			Symbols []string `json:"symbols"`
			Count   int      `json:"count"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-watchlist", Method: http.MethodGet, Path: "/api/v1/watchlist", Summary: "List watchlist symbols in insertion order", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *struct{}) (*watchlistOutput, error) {
			symbols := svc.Watchlist(ctx)
			out := &watchlistOutput{}
			out.Body.Symbols = symbols
			out.Body.Count = len(symbols)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "add-symbol", Method: http.MethodPost, Path: "/api/v1/watchlist/symbols", Summary: "Append a symbol to the watchlist", Description: "Adding a symbol that is already present appends another occurrence.", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Symbol string `json:"symbol" required:"true"`
			}
		}) (*watchlistOutput, error) {
			symbols, err := svc.AddSymbol(ctx, input.Body.Symbol)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &watchlistOutput{}
			out.Body.Symbols = symbols
			out.Body.Count = len(symbols)
			return out, nil
		})

	type symbolPathInput struct {
		Symbol string `path:"symbol"`
	}
	huma.Register(api, huma.Operation{OperationID: "remove-symbol", Method: http.MethodDelete, Path: "/api/v1/watchlist/symbols/{symbol}", Summary: "Remove every occurrence of a symbol", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *symbolPathInput) (*watchlistOutput, error) {
			symbols, err := svc.RemoveSymbol(ctx, input.Symbol)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &watchlistOutput{}
			out.Body.Symbols = symbols
			out.Body.Count = len(symbols)
			return out, nil
		})

	type hasSymbolOutput struct {
		Body struct {
			Symbol  string `json:"symbol"`
			Present bool   `json:"present"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "has-symbol", Method: http.MethodGet, Path: "/api/v1/watchlist/symbols/{symbol}", Summary: "Check watchlist membership", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *symbolPathInput) (*hasSymbolOutput, error) {
			present, err := svc.HasSymbol(ctx, input.Symbol)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &hasSymbolOutput{}
			out.Body.Symbol = input.Symbol
			out.Body.Present = present
			return out, nil
		})
}
