package mpris

// CapabilityError indicates that an action is not supported by the player
type CapabilityError struct {
	Required string
}

func (e *CapabilityError) Error() string {
	return "action not allowed (requires " + e.Required + ")"
}

// PlayerNotFoundError indicates that a player doesn't exist
type PlayerNotFoundError struct {
	BusName string
}

func (e *PlayerNotFoundError) Error() string {
	return "player not found: " + e.BusName
}

// InvalidBusNameError indicates that a busName is invalid
type InvalidBusNameError struct {
	BusName string
	Reason  string
}

func (e *InvalidBusNameError) Error() string {
	return "invalid player name: " + e.Reason
}

// DiscoveryError indicates that player enumeration itself failed,
// e.g. the session bus is unreachable.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return "player discovery failed: " + e.Err.Error()
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
