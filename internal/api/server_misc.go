package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vicxruiz/stockly/internal/controller"
	"github.com/vicxruiz/stockly/internal/feed"
)

func registerMiscHandlers(api huma.API, svc Service, broker *feed.Broker) {
	type healthOutput struct {
		Body struct {
			Status        string `json:"status"`
			WatchlistSize int    `json:"watchlist_size"`
			FeedClients   int    `json:"feed_clients"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			out.Body.WatchlistSize = len(svc.Watchlist(ctx))
			if broker != nil {
				out.Body.FeedClients = broker.ClientCount()
			}
			return out, nil
		})

	type stateOutput struct {
		Body controller.UIState
	}
	huma.Register(api, huma.Operation{OperationID: "get-state", Method: http.MethodGet, Path: "/api/v1/state", Summary: "Get the full UI state snapshot", Tags: []string{"State"}},
		func(ctx context.Context, input *struct{}) (*stateOutput, error) {
			out := &stateOutput{}
			out.Body = svc.State(ctx)
			return out, nil
		})
}
