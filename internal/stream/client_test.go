package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

func TestHandleMessage_DispatchesPrice(t *testing.T) {
	c := NewClient(Config{})

	var got PriceEvent
	fired := 0
	c.OnPrice(func(evt PriceEvent) {
		got = evt
		fired++
	})

	c.handleMessage([]byte(`{"event":"price","symbol":"AAPL","currency":"USD","timestamp":1646861100,"price":127.19}`))

	if fired != 1 {
		t.Fatalf("handler fired %d times; want 1", fired)
	}
	if got.Symbol != "AAPL" {
		t.Fatalf("event symbol = %q; want AAPL", got.Symbol)
	}
	if got.Price != "127.19" {
		t.Fatalf("event price = %q; want decimal text preserved", got.Price)
	}
	if got.Timestamp != 1646861100 {
		t.Fatalf("event timestamp = %d; want 1646861100", got.Timestamp)
	}
}

func TestHandleMessage_SkipsIncompleteAndForeign(t *testing.T) {
	c := NewClient(Config{})

	fired := 0
	c.OnPrice(func(PriceEvent) { fired++ })

	c.handleMessage([]byte(`{"event":"price","price":127.19}`))
	c.handleMessage([]byte(`{"event":"price","symbol":"AAPL"}`))
	c.handleMessage([]byte(`{"event":"subscribe-status","status":"ok"}`))
	c.handleMessage([]byte(`{"event":"heartbeat","status":"ok"}`))
	c.handleMessage([]byte(`not json`))

	if fired != 0 {
		t.Fatalf("handler fired %d times; want 0", fired)
	}
}

func TestOnPrice_Unregister(t *testing.T) {
	c := NewClient(Config{})

	fired := 0
	unregister := c.OnPrice(func(PriceEvent) { fired++ })
	unregister()

	c.handleMessage([]byte(`{"event":"price","symbol":"AAPL","price":127.19}`))
	if fired != 0 {
		t.Fatalf("handler fired %d times after unregister; want 0", fired)
	}
}

func newWSServer(t *testing.T, wantKey string, handler func(conn net.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantKey != "" {
			if got := r.URL.Query().Get("apikey"); got != wantKey {
				t.Errorf("apikey param = %q; want %q", got, wantKey)
			}
		}
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientSubscribesAndDispatches(t *testing.T) {
	received := make(chan string, 8)
	srv := newWSServer(t, "test-key", func(conn net.Conn) {
		for {
			data, err := wsutil.ReadClientText(conn)
			if err != nil {
				return
			}
			received <- string(data)

			var msg struct {
				Action string `json:"action"`
			}
			if json.Unmarshal(data, &msg) == nil && msg.Action == "subscribe" {
				evt := `{"event":"price","symbol":"AAPL","currency":"USD","timestamp":1646861100,"price":127.19}`
				if err := wsutil.WriteServerText(conn, []byte(evt)); err != nil {
					return
				}
			}
		}
	})
	defer srv.Close()

	c := NewClient(Config{
		URL:               wsURL(srv),
		APIKey:            "test-key",
		ReconnectDelay:    50 * time.Millisecond,
		HeartbeatInterval: time.Hour,
		Symbols:           []string{"AAPL"},
	})

	prices := make(chan PriceEvent, 1)
	unregister := c.OnPrice(func(evt PriceEvent) { prices <- evt })
	defer unregister()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case frame := <-received:
		if !strings.Contains(frame, `"action":"subscribe"`) || !strings.Contains(frame, `"symbols":"AAPL"`) {
			t.Fatalf("first frame = %s; want AAPL subscribe", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received subscribe frame")
	}

	select {
	case evt := <-prices:
		if evt.Symbol != "AAPL" || evt.Price != "127.19" {
			t.Fatalf("price event = %+v; want AAPL at 127.19", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("price event never dispatched")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v; want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestSetSymbols_SendsDiffOnLiveConnection(t *testing.T) {
	received := make(chan string, 8)
	srv := newWSServer(t, "", func(conn net.Conn) {
		for {
			data, err := wsutil.ReadClientText(conn)
			if err != nil {
				return
			}
			received <- string(data)
		}
	})
	defer srv.Close()

	c := NewClient(Config{
		URL:               wsURL(srv),
		ReconnectDelay:    50 * time.Millisecond,
		HeartbeatInterval: time.Hour,
		Symbols:           []string{"AAPL"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	select {
	case frame := <-received:
		if !strings.Contains(frame, `"symbols":"AAPL"`) {
			t.Fatalf("initial frame = %s; want AAPL subscribe", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received initial subscribe")
	}

	if err := c.SetSymbols([]string{"TSLA"}); err != nil {
		t.Fatalf("SetSymbols() error = %v", err)
	}

	want := []struct{ action, symbols string }{
		{"unsubscribe", "AAPL"},
		{"subscribe", "TSLA"},
	}
	for _, step := range want {
		select {
		case frame := <-received:
			if !strings.Contains(frame, `"action":"`+step.action+`"`) || !strings.Contains(frame, `"symbols":"`+step.symbols+`"`) {
				t.Fatalf("frame = %s; want %s for %s", frame, step.action, step.symbols)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("server never received %s frame", step.action)
		}
	}
}

func TestSetSymbols_NoopWhileDisconnected(t *testing.T) {
	c := NewClient(Config{})
	if err := c.SetSymbols([]string{"AAPL", " ", "TSLA"}); err != nil {
		t.Fatalf("SetSymbols() error = %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.desired["AAPL"] || !c.desired["TSLA"] || len(c.desired) != 2 {
		t.Fatalf("desired = %v; want AAPL and TSLA", c.desired)
	}
}

func TestRun_ReconnectsAfterDrop(t *testing.T) {
	var sessions atomic.Int64
	srv := newWSServer(t, "", func(conn net.Conn) {
		sessions.Add(1)
		conn.Close()
	})
	defer srv.Close()

	c := NewClient(Config{
		URL:               wsURL(srv),
		ReconnectDelay:    20 * time.Millisecond,
		HeartbeatInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for sessions.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("sessions = %d; want at least 2 after drops", sessions.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
