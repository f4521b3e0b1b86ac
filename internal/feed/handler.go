package feed

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// SSEHandler streams broker events to the client as server-sent events.
// The optional ?topics= query parameter is a comma-separated list limiting
// which topics are forwarded; absent means all topics.
func SSEHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		wanted := parseTopics(r.URL.Query().Get("topics"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		id, events := broker.Subscribe()
		defer broker.Unsubscribe(id)
		slog.Debug("feed: subscriber connected", "subscriber", id, "remote", r.RemoteAddr)

		for {
			select {
			case <-r.Context().Done():
				slog.Debug("feed: subscriber disconnected", "subscriber", id)
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				if wanted != nil && !wanted[evt.Topic] {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Topic, evt.Payload); err != nil {
					slog.Debug("feed: write to subscriber failed", "subscriber", id, "error", err)
					return
				}
				flusher.Flush()
			}
		}
	}
}

// parseTopics returns nil for "match everything" or a set of topic names.
func parseTopics(raw string) map[string]bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	wanted := make(map[string]bool)
	for _, topic := range strings.Split(raw, ",") {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			wanted[topic] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}
	return wanted
}
