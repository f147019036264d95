package events

// Event names emitted on the metadata SSE stream.
const (
	TypeUpdate = "update"
	TypeEnd    = "end"
)

type Event struct {
	Type string
	Data any
}
