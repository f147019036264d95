package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Virv12/mpris-over-http/backend/mpris"
	"github.com/Virv12/mpris-over-http/config"
	"github.com/Virv12/mpris-over-http/events"
	"github.com/Virv12/mpris-over-http/logger"
)

// MetadataHandler streams one player's live state as SSE "update" events.
// The stream always terminates observably: when the watcher ends for any
// reason a single "end" event is the last thing written.
func MetadataHandler(m *mpris.Backend, cfg *config.ApiConfig) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		sub, err := m.Subscribe(busName)
		if err != nil {
			// Not found and friends surface as plain errors before any
			// stream output.
			handleCommandResult(w, err)
			return
		}
		defer sub.Close()

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		streamSnapshots(r.Context(), w, flusher, sub.Updates(), cfg.KeepAlive)
	})
}

// streamSnapshots encodes the snapshot feed plus keep-alive pulses until the
// feed closes or the client goes away. Split from the handler so the framing
// can be exercised with a plain channel.
func streamSnapshots(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, updates <-chan *mpris.Snapshot, keepAliveDuration time.Duration) {
	keepAlive := time.NewTimer(keepAliveDuration)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected; the watcher notices on its next publish.
			return
		case <-keepAlive.C:
			// Comment pulse, ignored by EventSource clients. Defeats
			// idle-connection timeouts at intermediary proxies.
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				logger.Warn("[sse] failed to send keepalive, closing: %v", err)
				return
			}
			flusher.Flush()
			keepAlive.Reset(keepAliveDuration)
		case snap, ok := <-updates:
			if !ok {
				// Feed ended (player gone or read failure): terminal event,
				// then nothing more.
				fmt.Fprintf(w, "event: %s\ndata:\n\n", events.TypeEnd)
				flusher.Flush()
				return
			}
			if err := sendToFlusher(flusher, w, events.Event{Type: events.TypeUpdate, Data: snap}); err != nil {
				return
			}
			keepAlive.Reset(keepAliveDuration)
		}
	}
}

func sendToFlusher(flusher http.Flusher, w http.ResponseWriter, e events.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		logger.Warn("[sse] failed to marshal event data: %v", err)
		return err
	}
	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		logger.Error("[sse] failed to write to flusher: %v", err)
		return err
	}
	flusher.Flush()
	return nil
}
