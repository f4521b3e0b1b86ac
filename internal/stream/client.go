// Package stream maintains the twelvedata price WebSocket and dispatches
// price ticks to registered handlers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const (
	// DefaultURL is the twelvedata real-time price endpoint.
	DefaultURL = "wss://ws.twelvedata.com/v1/quotes/price"

	DefaultReconnectDelay    = 5 * time.Second
	DefaultHeartbeatInterval = 10 * time.Second
)

// Config carries the connection settings for a Client.
type Config struct {
	URL               string
	APIKey            string
	ReconnectDelay    time.Duration
	HeartbeatInterval time.Duration
	Symbols           []string
}

// PriceEvent is one price tick. Price keeps the server's decimal text.
type PriceEvent struct {
	Symbol    string
	Price     string
	Timestamp int64
}

type priceHandler struct {
	id int64
	fn func(PriceEvent)
}

// Client subscribes to price updates for a mutable symbol set and keeps the
// connection alive across server drops.
type Client struct {
	cfg Config

	mu      sync.Mutex
	conn    net.Conn
	desired map[string]bool

	handlerMu sync.RWMutex
	handlers  []priceHandler
	nextID    atomic.Int64
}

// NewClient returns a Client for cfg. Zero fields fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	c := &Client{cfg: cfg, desired: make(map[string]bool)}
	for _, symbol := range cfg.Symbols {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			c.desired[symbol] = true
		}
	}
	return c
}

// OnPrice registers fn for every price tick. Returns an unregister function.
func (c *Client) OnPrice(fn func(PriceEvent)) func() {
	id := c.nextID.Add(1)
	c.handlerMu.Lock()
	c.handlers = append(c.handlers, priceHandler{id: id, fn: fn})
	c.handlerMu.Unlock()
	return func() {
		c.handlerMu.Lock()
		defer c.handlerMu.Unlock()
		for i, h := range c.handlers {
			if h.id == id {
				c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
				break
			}
		}
	}
}

// SetSymbols replaces the subscription set. On a live connection only the
// difference is sent; otherwise the set applies on the next connect.
func (c *Client) SetSymbols(symbols []string) error {
	next := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			next[symbol] = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var added, removed []string
	for symbol := range next {
		if !c.desired[symbol] {
			added = append(added, symbol)
		}
	}
	for symbol := range c.desired {
		if !next[symbol] {
			removed = append(removed, symbol)
		}
	}
	c.desired = next
	sort.Strings(added)
	sort.Strings(removed)

	if c.conn == nil {
		return nil
	}
	if len(removed) > 0 {
		if err := c.writeActionLocked("unsubscribe", removed); err != nil {
			return err
		}
	}
	if len(added) > 0 {
		if err := c.writeActionLocked("subscribe", added); err != nil {
			return err
		}
	}
	return nil
}

// Run connects and reads until ctx is cancelled, reconnecting after the
// configured delay whenever the session drops.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("stream: session ended", "error", err, "reconnect_in", c.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	wsURL, err := c.dialURL()
	if err != nil {
		return err
	}

	conn, _, _, err := ws.Dial(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("stream: dial: %w", err)
	}
	slog.Info("stream: connected", "url", c.cfg.URL)

	c.mu.Lock()
	c.conn = conn
	symbols := sortedSymbols(c.desired)
	var subErr error
	if len(symbols) > 0 {
		subErr = c.writeActionLocked("subscribe", symbols)
	}
	c.mu.Unlock()
	if subErr != nil {
		c.teardown(conn)
		return subErr
	}

	// Unblocks the read loop when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	hbCtx, cancelHB := context.WithCancel(ctx)
	defer cancelHB()
	go c.heartbeatLoop(hbCtx)

	err = c.readLoop(conn)
	c.teardown(conn)
	return err
}

func (c *Client) teardown(conn net.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Client) readLoop(conn net.Conn) error {
	for {
		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			return fmt.Errorf("stream: read: %w", err)
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg struct {
		Event     string      `json:"event"`
		Symbol    string      `json:"symbol"`
		Price     json.Number `json:"price"`
		Timestamp int64       `json:"timestamp"`
		Status    string      `json:"status"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Debug("stream: skipping unparseable message", "error", err)
		return
	}

	switch msg.Event {
	case "price":
		if msg.Symbol == "" || msg.Price.String() == "" {
			return
		}
		c.dispatch(PriceEvent{Symbol: msg.Symbol, Price: msg.Price.String(), Timestamp: msg.Timestamp})
	case "subscribe-status":
		slog.Debug("stream: subscribe status", "status", msg.Status)
	case "heartbeat":
	default:
		slog.Debug("stream: ignoring event", "event", msg.Event)
	}
}

func (c *Client) dispatch(evt PriceEvent) {
	c.handlerMu.RLock()
	handlers := make([]priceHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.handlerMu.RUnlock()
	for _, h := range handlers {
		h.fn(evt)
	}
}

func (c *Client) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.writeJSONLocked(struct {
				Action string `json:"action"`
			}{Action: "heartbeat"})
			c.mu.Unlock()
			if err != nil {
				slog.Debug("stream: heartbeat failed", "error", err)
				return
			}
		}
	}
}

func (c *Client) writeActionLocked(action string, symbols []string) error {
	req := struct {
		Action string `json:"action"`
		Params struct {
			Symbols string `json:"symbols"`
		} `json:"params"`
	}{Action: action}
	req.Params.Symbols = strings.Join(symbols, ",")
	return c.writeJSONLocked(req)
}

func (c *Client) writeJSONLocked(v any) error {
	if c.conn == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stream: marshal: %w", err)
	}
	if err := wsutil.WriteClientText(c.conn, data); err != nil {
		return fmt.Errorf("stream: write: %w", err)
	}
	return nil
}

func (c *Client) dialURL() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("stream: parse url: %w", err)
	}
	if c.cfg.APIKey != "" {
		q := u.Query()
		q.Set("apikey", c.cfg.APIKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func sortedSymbols(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for symbol := range set {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}
