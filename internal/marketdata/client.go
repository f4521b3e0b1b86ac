package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	userAgent      = "stockly-controller/1.0"
)

// Client talks to the twelvedata REST API. Every call is a single plain GET:
// no caching, no deduplication, no retries. Errors are terminal and carry
// one of the CodedError codes.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL falls back to the public
// twelvedata endpoint. A zero timeout leaves the transport on system
// defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchSymbol looks up instruments matching query via /symbol_search.
func (c *Client) SearchSymbol(ctx context.Context, query string) ([]SearchResult, error) {
	var payload struct {
		Data []struct {
			Symbol         string `json:"symbol"`
			Exchange       string `json:"exchange"`
			Currency       string `json:"currency"`
			InstrumentName string `json:"instrument_name"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("symbol", query)
	if err := c.getJSON(ctx, "/symbol_search", params, &payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Data))
	for _, d := range payload.Data {
		results = append(results, SearchResult{
			Symbol:   d.Symbol,
			Exchange: d.Exchange,
			Currency: d.Currency,
			Name:     d.InstrumentName,
		})
	}
	return results, nil
}

// QuoteChange fetches the day change figure for symbol via /quote. A null or
// missing change comes back as "0".
func (c *Client) QuoteChange(ctx context.Context, symbol string) (string, error) {
	var payload struct {
		Change *string `json:"change"`
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	if err := c.getJSON(ctx, "/quote", params, &payload); err != nil {
		return "", err
	}
	return stringOrZero(payload.Change), nil
}

// RealTimePrice fetches the current price for symbol via /price. A null or
// missing price comes back as "0".
func (c *Client) RealTimePrice(ctx context.Context, symbol string) (string, error) {
	var payload struct {
		Price *string `json:"price"`
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	if err := c.getJSON(ctx, "/price", params, &payload); err != nil {
		return "", err
	}
	return stringOrZero(payload.Price), nil
}

// StockPrice fetches the change figure and then the price for symbol,
// strictly in that order. The first failing call aborts the pair; a partial
// snapshot is never returned.
func (c *Client) StockPrice(ctx context.Context, symbol string) (QuoteSnapshot, error) {
	change, err := c.QuoteChange(ctx, symbol)
	if err != nil {
		return QuoteSnapshot{}, err
	}
	price, err := c.RealTimePrice(ctx, symbol)
	if err != nil {
		return QuoteSnapshot{}, err
	}
	return QuoteSnapshot{Symbol: symbol, Change: change, Price: price}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return newError(CodeInvalidRequest, "build url for "+path, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return newError(CodeInvalidRequest, "build request for "+path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(CodeNetwork, "request "+path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(CodeNetwork, "read response for "+path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return newError(CodeNetwork, fmt.Sprintf("%s: HTTP %d", path, resp.StatusCode), nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(CodeDecode, "decode response for "+path, err)
	}
	return nil
}

func stringOrZero(s *string) string {
	if s == nil {
		return "0"
	}
	return *s
}
