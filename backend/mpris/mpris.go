package mpris

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	idbus "github.com/Virv12/mpris-over-http/backend/internal/dbus"
	"github.com/Virv12/mpris-over-http/logger"
)

// validateBusName validates that a busName is MPRIS-compliant
func validateBusName(busName string) error {
	if busName == "" {
		return &InvalidBusNameError{BusName: busName, Reason: "empty bus name"}
	}
	if !strings.HasPrefix(busName, MPRIS_PREFIX+".") {
		return &InvalidBusNameError{BusName: busName, Reason: "must start with org.mpris.MediaPlayer2."}
	}
	// Check that it doesn't contain dangerous characters
	if strings.Contains(busName, "..") || strings.Contains(busName, "/") || strings.ContainsAny(busName, "\x00\r\n") {
		return &InvalidBusNameError{BusName: busName, Reason: "contains illegal characters"}
	}
	return nil
}

// New connects to the session bus and creates a new MPRIS backend
func New(ctx context.Context, timeout, refresh time.Duration) (*Backend, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		idbus.DefaultTimeout = timeout
	}
	if refresh <= 0 {
		refresh = 2 * time.Second
	}

	return &Backend{
		conn:    conn,
		ctx:     ctx,
		refresh: refresh,
	}, nil
}

// Start subscribes to the D-Bus signals the subscription watchers rely on:
// PropertiesChanged and Seeked (player state changes) and NameOwnerChanged
// (player appearance/disappearance).
func (m *Backend) Start() error {
	rules := []string{
		"type='signal',interface='" + idbus.DBUS_PROP_IFACE + "',member='PropertiesChanged',arg0namespace='" + MPRIS_PREFIX + "'",
		"type='signal',interface='" + idbus.DBUS_INTERFACE + "',member='NameOwnerChanged',arg0namespace='" + MPRIS_PREFIX + "'",
		"type='signal',interface='" + MPRIS_PLAYER_IFACE + "',member='Seeked'",
	}
	for _, rule := range rules {
		if err := idbus.AddMatchRule(m.conn, rule); err != nil {
			return err
		}
	}

	logger.Info("[mpris] backend started (D-Bus signal-based)")
	return nil
}

// ListPlayers enumerates the bus names of all currently active MPRIS players.
// The order is whatever the bus yields. A bus-level failure is a DiscoveryError;
// individual players vanishing mid-enumeration are not.
func (m *Backend) ListPlayers() ([]string, error) {
	var names []string
	call := m.conn.BusObject().Call(idbus.BUS_LIST_NAMES, 0)
	if err := idbus.CallWithTimeout(call); err != nil {
		return nil, &DiscoveryError{Err: err}
	}
	if err := call.Store(&names); err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	players := make([]string, 0)
	for _, name := range names {
		if strings.HasPrefix(name, MPRIS_PREFIX+".") {
			players = append(players, name)
		}
	}

	logger.Debug("[mpris] listed %d players", len(players))
	return players, nil
}

// Resolve returns a live handle for busName, or a PlayerNotFoundError if no
// such player currently owns the name. Handles are per-operation only.
func (m *Backend) Resolve(busName string) (*Player, error) {
	if err := validateBusName(busName); err != nil {
		return nil, err
	}

	owner, err := m.getNameOwner(busName)
	if err != nil {
		var dbusErr dbus.Error
		if errors.As(err, &dbusErr) {
			// NameHasNoOwner and friends: the player is simply gone
			return nil, &PlayerNotFoundError{BusName: busName}
		}
		return nil, err
	}

	return &Player{
		conn:       m.conn,
		uniqueName: owner,
		BusName:    busName,
	}, nil
}

func (m *Backend) getNameOwner(busName string) (string, error) {
	var owner string
	call := m.conn.BusObject().Call(idbus.BUS_GET_NAME_OWNER, 0, busName)
	if err := idbus.CallWithTimeout(call); err != nil {
		return "", err
	}
	if err := call.Store(&owner); err != nil {
		return "", err
	}
	return owner, nil
}

// Close closes the bus connection. Closing also closes every registered
// signal channel, which terminates any watcher still running; the conn stays
// non-nil so their cleanup can run against it.
func (m *Backend) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
