package mpris

import (
	"hash/fnv"

	"github.com/godbus/dbus/v5"

	idbus "github.com/Virv12/mpris-over-http/backend/internal/dbus"
)

// ArtHashNone is the art_hash value for players with no art reference.
const ArtHashNone uint64 = 0

// ArtHash derives the cache-busting token clients use to invalidate the
// /icon endpoint. It hashes the raw art reference string, not the image
// bytes: the token only needs to change when the reference does.
func ArtHash(artURL string) uint64 {
	if artURL == "" {
		return ArtHashNone
	}
	h := fnv.New64a()
	h.Write([]byte(artURL))
	return h.Sum64()
}

// Snapshot reads the player's complete current state in one GetAll call.
// A failed read returns an error instead of a partial snapshot, so consumers
// never see state inconsistent with a single point in time.
func (p *Player) Snapshot() (*Snapshot, error) {
	props, err := idbus.GetAllProperties(p.getObj(), MPRIS_PLAYER_IFACE)
	if err != nil {
		return nil, err
	}
	return snapshotFromProps(props), nil
}

// ArtURL reads the player's current art reference. Derived fresh on every
// call; the underlying art can change between plays.
func (p *Player) ArtURL() (string, error) {
	v, err := idbus.GetProperty(p.getObj(), MPRIS_PLAYER_IFACE, "Metadata")
	if err != nil {
		return "", err
	}
	meta, _ := v.Value().(map[string]dbus.Variant)
	return idbus.MapString(meta, "mpris:artUrl"), nil
}

func (p *Player) getObj() dbus.BusObject {
	return idbus.GetObject(p.conn, p.BusName, MPRIS_PATH)
}

// snapshotFromProps builds a Snapshot from an org.mpris.MediaPlayer2.Player
// property map. Properties the player doesn't expose stay nil ("unknown").
func snapshotFromProps(props map[string]dbus.Variant) *Snapshot {
	snap := &Snapshot{
		Running: PlaybackStatus(idbus.MapString(props, "PlaybackStatus")) == StatusPlaying,
		Capabilities: Capabilities{
			CanControl:    idbus.MapBool(props, "CanControl"),
			CanGoNext:     idbus.MapBool(props, "CanGoNext"),
			CanGoPrevious: idbus.MapBool(props, "CanGoPrevious"),
			CanSeek:       idbus.MapBool(props, "CanSeek"),
		},
	}

	if pos, ok := idbus.MapInt64OK(props, "Position"); ok {
		snap.Position = &pos
	}
	if rate, ok := idbus.MapFloat64OK(props, "Rate"); ok {
		snap.Rate = &rate
	}
	if vol, ok := idbus.MapFloat64OK(props, "Volume"); ok {
		snap.Volume = &vol
	}

	var meta map[string]dbus.Variant
	if v, ok := props["Metadata"]; ok {
		meta, _ = v.Value().(map[string]dbus.Variant)
	}
	if title, ok := idbus.MapStringOK(meta, "xesam:title"); ok {
		snap.Title = &title
	}
	if length, ok := metadataLength(meta); ok {
		snap.Length = &length
	}

	snap.ArtHash = ArtHash(idbus.MapString(meta, "mpris:artUrl"))

	return snap
}

// metadataLength extracts mpris:length in microseconds. MPRIS defines it as
// int64 but some players report uint64 or int32, so be lenient.
func metadataLength(meta map[string]dbus.Variant) (int64, bool) {
	v, ok := meta["mpris:length"]
	if !ok {
		return 0, false
	}
	switch val := v.Value().(type) {
	case int64:
		return val, true
	case uint64:
		return int64(val), true
	case int32:
		return int64(val), true
	case uint32:
		return int64(val), true
	}
	return 0, false
}
