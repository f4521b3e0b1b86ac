package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vicxruiz/stockly/internal/controller"
)

func registerQuoteHandlers(api huma.API, svc Service) {
	type quotesOutput struct {
		Body struct {
			Quotes map[string]controller.Quote `json:"quotes"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-quotes", Method: http.MethodGet, Path: "/api/v1/quotes", Summary: "List the per-symbol quote state", Tags: []string{"Quotes"}},
		func(ctx context.Context, input *struct{}) (*quotesOutput, error) {
			out := &quotesOutput{}
			out.Body.Quotes = svc.Quotes(ctx)
			return out, nil
		})

	type symbolPathInput struct {
		Symbol string `path:"symbol"`
	}
	type quoteOutput struct {
		Body controller.Quote
	}
	huma.Register(api, huma.Operation{OperationID: "get-quote", Method: http.MethodGet, Path: "/api/v1/quotes/{symbol}", Summary: "Get the stored quote for a symbol", Tags: []string{"Quotes"}},
		func(ctx context.Context, input *symbolPathInput) (*quoteOutput, error) {
			q, err := svc.Quote(ctx, input.Symbol)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &quoteOutput{}
			out.Body = q
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "refresh-quote", Method: http.MethodPost, Path: "/api/v1/quotes/{symbol}/refresh", Summary: "Fetch a fresh quote from the upstream API", Description: "Loads the day change and then the real-time price. Either call failing fails the whole refresh.", Tags: []string{"Quotes"}},
		func(ctx context.Context, input *symbolPathInput) (*quoteOutput, error) {
			q, err := svc.FetchQuote(ctx, input.Symbol)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &quoteOutput{}
			out.Body = q
			return out, nil
		})

	type refreshAllOutput struct {
		Body controller.RefreshSummary
	}
	huma.Register(api, huma.Operation{OperationID: "refresh-quotes", Method: http.MethodPost, Path: "/api/v1/quotes/refresh", Summary: "Refresh quotes for every watchlist symbol", Tags: []string{"Quotes"}},
		func(ctx context.Context, input *struct{}) (*refreshAllOutput, error) {
			summary, err := svc.RefreshQuotes(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &refreshAllOutput{}
			out.Body = summary
			return out, nil
		})
}
