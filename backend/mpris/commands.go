package mpris

import (
	idbus "github.com/Virv12/mpris-over-http/backend/internal/dbus"
	"github.com/Virv12/mpris-over-http/logger"
)

// Commands resolve the player fresh and gate on its live capability flags
// before transmitting anything, so "the call went out" and "the action was
// possible" are never conflated. No retries; one attempt per call.

// LoadCapabilities reads the player's current capability flags.
func (p *Player) LoadCapabilities() (Capabilities, error) {
	props, err := idbus.GetAllProperties(p.getObj(), MPRIS_PLAYER_IFACE)
	if err != nil {
		return Capabilities{}, err
	}
	return Capabilities{
		CanControl:    idbus.MapBool(props, "CanControl"),
		CanGoNext:     idbus.MapBool(props, "CanGoNext"),
		CanGoPrevious: idbus.MapBool(props, "CanGoPrevious"),
		CanSeek:       idbus.MapBool(props, "CanSeek"),
	}, nil
}

// PlayPause toggles between playing and paused
func (m *Backend) PlayPause(busName string) error {
	player, caps, err := m.resolveWithCaps(busName)
	if err != nil {
		return err
	}
	if !caps.CanControl {
		return &CapabilityError{Required: "CanControl"}
	}

	logger.Debug("[mpris] toggling play/pause for %s", busName)
	return idbus.CallMethod(player.getObj(), MPRIS_METHOD_PLAY_PAUSE)
}

// Next skips to the next track
func (m *Backend) Next(busName string) error {
	player, caps, err := m.resolveWithCaps(busName)
	if err != nil {
		return err
	}
	if !caps.CanGoNext {
		return &CapabilityError{Required: "CanGoNext"}
	}

	logger.Debug("[mpris] next track for %s", busName)
	return idbus.CallMethod(player.getObj(), MPRIS_METHOD_NEXT)
}

// Previous goes back to the previous track
func (m *Backend) Previous(busName string) error {
	player, caps, err := m.resolveWithCaps(busName)
	if err != nil {
		return err
	}
	if !caps.CanGoPrevious {
		return &CapabilityError{Required: "CanGoPrevious"}
	}

	logger.Debug("[mpris] previous track for %s", busName)
	return idbus.CallMethod(player.getObj(), MPRIS_METHOD_PREVIOUS)
}

// Seek moves the playback position by a signed offset in microseconds.
// The offset may go backward or forward; any clamping is the player's job.
func (m *Backend) Seek(busName string, offset int64) error {
	player, caps, err := m.resolveWithCaps(busName)
	if err != nil {
		return err
	}
	if !caps.CanSeek {
		return &CapabilityError{Required: "CanSeek"}
	}

	logger.Debug("[mpris] seeking %d for %s", offset, busName)
	return idbus.CallMethod(player.getObj(), MPRIS_METHOD_SEEK, offset)
}

func (m *Backend) resolveWithCaps(busName string) (*Player, Capabilities, error) {
	player, err := m.Resolve(busName)
	if err != nil {
		return nil, Capabilities{}, err
	}
	caps, err := player.LoadCapabilities()
	if err != nil {
		return nil, Capabilities{}, err
	}
	return player, caps, nil
}
