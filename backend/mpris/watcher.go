package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"

	idbus "github.com/Virv12/mpris-over-http/backend/internal/dbus"
	"github.com/Virv12/mpris-over-http/logger"
)

// watcher produces the live snapshot sequence for one subscription. Each
// subscription owns its own watcher goroutine and its own signal channel on
// the shared bus connection; nothing is shared across subscriptions.
type watcher struct {
	backend *Backend
	player  *Player
	sub     *Subscription
	signals chan *dbus.Signal

	// position advances without upstream events while playing, so a ticker
	// re-reads the full state at this interval when Running is true
	refresh time.Duration
	playing bool
}

// Subscribe opens a state stream for busName. The player is resolved once,
// up front: a missing player surfaces here as PlayerNotFoundError instead of
// an empty stream. The returned subscription must be Closed by the caller.
func (m *Backend) Subscribe(busName string) (*Subscription, error) {
	player, err := m.Resolve(busName)
	if err != nil {
		return nil, err
	}

	w := &watcher{
		backend: m,
		player:  player,
		sub:     newSubscription(),
		signals: make(chan *dbus.Signal, 16),
		refresh: m.refresh,
	}
	m.conn.Signal(w.signals)
	go w.run()

	logger.Debug("[mpris] subscribed to %s", busName)
	return w.sub, nil
}

func (w *watcher) run() {
	defer func() {
		w.backend.conn.RemoveSignal(w.signals)
		w.sub.finish()
		logger.Debug("[mpris] watcher for %s stopped", w.player.BusName)
	}()

	// Eager first snapshot so subscribers get an initial state without
	// waiting for an event.
	if !w.emit() {
		return
	}

	ticker := time.NewTicker(w.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-w.backend.ctx.Done():
			return
		case <-w.sub.done:
			return
		case <-ticker.C:
			if w.playing && !w.emit() {
				return
			}
		case sig, ok := <-w.signals:
			if !ok {
				return
			}
			alive, changed := w.handleSignal(sig)
			if !alive {
				return
			}
			if changed && !w.emit() {
				return
			}
		}
	}
}

// handleSignal classifies a bus signal for this watcher's player.
// Returns alive=false when the player disappeared, changed=true when the
// state needs a re-read.
func (w *watcher) handleSignal(sig *dbus.Signal) (alive, changed bool) {
	switch sig.Name {
	case idbus.PROP_CHANGED_SIGNAL:
		// Signals carry the unique name (:1.107), not the well-known name
		if sig.Sender != w.player.uniqueName {
			return true, false
		}
		_, iface, err := idbus.FilterSignal(sig)
		if err != nil || iface != MPRIS_PLAYER_IFACE {
			return true, false
		}
		return true, true

	case MPRIS_SEEKED_SIGNAL:
		return true, sig.Sender == w.player.uniqueName

	case idbus.NAME_OWNER_CHANGED:
		// Body: bus name, old owner, new owner
		if len(sig.Body) < 3 {
			return true, false
		}
		name, _ := sig.Body[0].(string)
		newOwner, _ := sig.Body[2].(string)
		if name == w.player.BusName && newOwner == "" {
			logger.Info("[mpris] player %s disappeared, ending stream", name)
			return false, false
		}
		return true, false
	}
	return true, false
}

// emit rebuilds a full snapshot and publishes it. Any read failure ends the
// subscription: a partial snapshot is worse than an early end.
func (w *watcher) emit() bool {
	snap, err := w.player.Snapshot()
	if err != nil {
		logger.Warn("[mpris] snapshot of %s failed, ending stream: %v", w.player.BusName, err)
		return false
	}
	w.playing = snap.Running
	return w.sub.publish(snap)
}
