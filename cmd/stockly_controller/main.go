package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vicxruiz/stockly/internal/api"
	"github.com/vicxruiz/stockly/internal/config"
	"github.com/vicxruiz/stockly/internal/controller"
	"github.com/vicxruiz/stockly/internal/feed"
	"github.com/vicxruiz/stockly/internal/journal"
	"github.com/vicxruiz/stockly/internal/marketdata"
	"github.com/vicxruiz/stockly/internal/netutil"
	"github.com/vicxruiz/stockly/internal/stream"
	"github.com/vicxruiz/stockly/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("stockly_controller config loaded",
		"bind_addr", cfg.BindAddr,
		"base_url", cfg.BaseURL,
		"store_path", cfg.StorePath,
		"debounce_ms", cfg.DebounceMS,
		"stream_enabled", cfg.StreamEnabled,
		"journal_dir", cfg.JournalDir,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.PickBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to pick bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	store, err := watchlist.Open(cfg.StorePath)
	if err != nil {
		slog.Error("failed to open watchlist store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Debug("watchlist store close failed", "error", err)
		}
	}()

	client := marketdata.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout())
	broker := feed.NewBroker(cfg.FeedBuffer)

	opts := []controller.Option{
		controller.WithDebounceDelay(cfg.Debounce()),
		controller.WithFeed(broker),
	}
	if cfg.JournalDir != "" {
		jw := journal.NewWriter(cfg.JournalDir, 256, cfg.JournalMaxMB)
		defer func() {
			if err := jw.Close(); err != nil {
				slog.Debug("quote journal close failed", "error", err)
			}
		}()
		opts = append(opts, controller.WithJournal(jw))
	}

	svc := controller.NewService(client, store, opts...)
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Debug("controller close failed", "error", err)
		}
	}()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if cfg.StreamEnabled {
		if err := startStream(rootCtx, cfg, svc, store, broker); err != nil {
			slog.Error("failed to start price stream", "config", cfg.StreamConfig, "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{Addr: bindAddr, Handler: api.NewServer(svc, broker)}

	go func() {
		slog.Info("stockly_controller listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("stockly_controller server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	rootCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("stockly_controller shutdown failed", "error", err)
	}
}

// startStream connects the live price WebSocket, forwards ticks into the
// controller, and keeps the subscription set aligned with the watchlist.
func startStream(ctx context.Context, cfg *config.Config, svc *controller.Service, store *watchlist.Store, broker *feed.Broker) error {
	streamCfg := stream.Config{
		URL:     cfg.WSURL,
		APIKey:  cfg.APIKey,
		Symbols: store.List(),
	}
	if cfg.StreamConfig != "" {
		tuning, err := stream.LoadTuning(cfg.StreamConfig)
		if err != nil {
			return err
		}
		tuning.Apply(&streamCfg)
	}

	wsClient := stream.NewClient(streamCfg)
	wsClient.OnPrice(func(evt stream.PriceEvent) {
		at := time.Now().UTC()
		if evt.Timestamp > 0 {
			at = time.Unix(evt.Timestamp, 0).UTC()
		}
		svc.ApplyStreamPrice(evt.Symbol, evt.Price, at)
	})

	go func() {
		if err := wsClient.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("price stream stopped", "error", err)
		}
	}()
	go followWatchlist(ctx, broker, wsClient)
	return nil
}

// followWatchlist resubscribes the price stream whenever the watchlist
// changes.
func followWatchlist(ctx context.Context, broker *feed.Broker, wsClient *stream.Client) {
	id, events := broker.Subscribe()
	defer broker.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if evt.Topic != feed.TopicWatchlist {
				continue
			}
			var payload struct {
				Symbols []string `json:"symbols"`
			}
			if err := json.Unmarshal([]byte(evt.Payload), &payload); err != nil {
				slog.Debug("watchlist event decode failed", "error", err)
				continue
			}
			if err := wsClient.SetSymbols(payload.Symbols); err != nil {
				slog.Warn("stream resubscribe failed", "error", err)
			}
		}
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
