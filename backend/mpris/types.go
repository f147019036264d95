package mpris

import (
	"context"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// PlaybackStatus represents the current playback state
type PlaybackStatus string

// Backend manages connections to media players via MPRIS
type Backend struct {
	conn *dbus.Conn

	// application context; cancellation stops all subscription watchers
	ctx context.Context

	// how often a subscription re-reads Position while playing
	refresh time.Duration
}

// Player is a live handle to one MPRIS media player. Handles are only
// valid for the duration of a single operation; players may disappear
// between lookups, so handles are never cached.
type Player struct {
	conn       *dbus.Conn
	uniqueName string // unique D-Bus connection name (e.g. :1.107)

	BusName string `json:"bus_name"`
}

// Capabilities represents the transport actions a player currently permits
type Capabilities struct {
	CanControl    bool `json:"can_control"`
	CanGoNext     bool `json:"can_go_next"`
	CanGoPrevious bool `json:"can_go_previous"`
	CanSeek       bool `json:"can_seek"`
}

// Snapshot is a complete, point-in-time description of a player's state.
// Built fresh on every event and never mutated. Every field except Running
// is optional: nil means "unknown", not zero.
type Snapshot struct {
	Position     *int64       `json:"position,omitempty"`
	Length       *int64       `json:"length,omitempty"`
	Title        *string      `json:"title,omitempty"`
	Running      bool         `json:"running"`
	Rate         *float64     `json:"rate,omitempty"`
	Volume       *float64     `json:"volume,omitempty"`
	ArtHash      uint64       `json:"art_hash"`
	Capabilities Capabilities `json:"capabilities"`
}

// Subscription represents one client's interest in one player's state
// stream. It owns the coalescing single-slot channel between the watcher
// goroutine and the HTTP handler.
type Subscription struct {
	out  chan *Snapshot
	done chan struct{}
	once sync.Once
}
