//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// testSymbol is appended and removed by these tests; pick something no real
// watchlist would hold.
const testSymbol = "ITEST"

type watchlistBody struct {
	Symbols []string `json:"symbols"`
	Count   int      `json:"count"`
}

// removeSymbol strips every occurrence of symbol, ignoring the outcome.
func removeSymbol(t *testing.T, symbol string) {
	t.Helper()
	resp := env.DELETE(t, "/api/v1/watchlist/symbols/"+symbol)
	resp.Body.Close()
}

func countOf(symbols []string, symbol string) int {
	n := 0
	for _, s := range symbols {
		if s == symbol {
			n++
		}
	}
	return n
}

func TestWatchlistAddContainsRemove(t *testing.T) {
	t.Cleanup(func() { removeSymbol(t, testSymbol) })

	resp := env.POST(t, "/api/v1/watchlist/symbols", map[string]any{"symbol": testSymbol})
	requireStatus(t, resp, http.StatusOK)
	added := decodeJSON[watchlistBody](t, resp)
	if countOf(added.Symbols, testSymbol) == 0 {
		t.Fatalf("watchlist %v missing %s after add", added.Symbols, testSymbol)
	}

	resp = env.GET(t, "/api/v1/watchlist/symbols/"+testSymbol)
	requireStatus(t, resp, http.StatusOK)
	member := decodeJSON[struct {
		Symbol  string `json:"symbol"`
		Present bool   `json:"present"`
	}](t, resp)
	if !member.Present {
		t.Fatalf("present = false after add")
	}

	resp = env.DELETE(t, "/api/v1/watchlist/symbols/"+testSymbol)
	requireStatus(t, resp, http.StatusOK)
	removed := decodeJSON[watchlistBody](t, resp)
	if countOf(removed.Symbols, testSymbol) != 0 {
		t.Fatalf("watchlist %v still holds %s after remove", removed.Symbols, testSymbol)
	}

	resp = env.GET(t, "/api/v1/watchlist/symbols/"+testSymbol)
	requireStatus(t, resp, http.StatusOK)
	member = decodeJSON[struct {
		Symbol  string `json:"symbol"`
		Present bool   `json:"present"`
	}](t, resp)
	if member.Present {
		t.Fatalf("present = true after remove")
	}
}

func TestWatchlistDuplicateAppends(t *testing.T) {
	t.Cleanup(func() { removeSymbol(t, testSymbol) })

	resp := env.POST(t, "/api/v1/watchlist/symbols", map[string]any{"symbol": testSymbol})
	requireStatus(t, resp, http.StatusOK)
	first := decodeJSON[watchlistBody](t, resp)

	resp = env.POST(t, "/api/v1/watchlist/symbols", map[string]any{"symbol": testSymbol})
	requireStatus(t, resp, http.StatusOK)
	second := decodeJSON[watchlistBody](t, resp)

	if second.Count != first.Count+1 {
		t.Fatalf("count after duplicate add = %d, want %d", second.Count, first.Count+1)
	}
	if countOf(second.Symbols, testSymbol) != countOf(first.Symbols, testSymbol)+1 {
		t.Fatalf("duplicate add did not append another occurrence: %v", second.Symbols)
	}
}

func TestWatchlistRejectsBlankSymbol(t *testing.T) {
	resp := env.POST(t, "/api/v1/watchlist/symbols", map[string]any{"symbol": "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
