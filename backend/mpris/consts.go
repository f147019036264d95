package mpris

const (
	// MPRIS D-Bus constants
	MPRIS_PREFIX       = "org.mpris.MediaPlayer2"
	MPRIS_PATH         = "/org/mpris/MediaPlayer2"
	MPRIS_INTERFACE    = "org.mpris.MediaPlayer2"
	MPRIS_PLAYER_IFACE = "org.mpris.MediaPlayer2.Player"

	// MPRIS Player methods
	MPRIS_METHOD_PLAY_PAUSE = MPRIS_PLAYER_IFACE + ".PlayPause"
	MPRIS_METHOD_NEXT       = MPRIS_PLAYER_IFACE + ".Next"
	MPRIS_METHOD_PREVIOUS   = MPRIS_PLAYER_IFACE + ".Previous"
	MPRIS_METHOD_SEEK       = MPRIS_PLAYER_IFACE + ".Seek"

	// MPRIS Player signals
	MPRIS_SEEKED_SIGNAL = MPRIS_PLAYER_IFACE + ".Seeked"
)

const (
	StatusPlaying PlaybackStatus = "Playing"
	StatusPaused  PlaybackStatus = "Paused"
	StatusStopped PlaybackStatus = "Stopped"
)
