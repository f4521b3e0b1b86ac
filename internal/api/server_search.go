package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vicxruiz/stockly/internal/controller"
)

func registerSearchHandlers(api huma.API, svc Service) {
	type searchInput struct {
		Body struct {
			Query string `json:"query" doc:"Live search text. Blank clears the current results."`
		}
	}
	type searchOutput struct {
		Body controller.SearchStatus
	}
	huma.Register(api, huma.Operation{OperationID: "search", Method: http.MethodPost, Path: "/api/v1/search", Summary: "Schedule a debounced symbol search", Tags: []string{"Search"}},
		func(ctx context.Context, input *searchInput) (*searchOutput, error) {
			out := &searchOutput{}
			out.Body = svc.Search(ctx, input.Body.Query)
			return out, nil
		})

	type stateOutput struct {
		Body controller.UIState
	}
	huma.Register(api, huma.Operation{OperationID: "clear-search", Method: http.MethodDelete, Path: "/api/v1/search", Summary: "Cancel any pending search and clear results", Tags: []string{"Search"}},
		func(ctx context.Context, input *struct{}) (*stateOutput, error) {
			out := &stateOutput{}
			out.Body = svc.ClearSearch(ctx)
			return out, nil
		})
}
