package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Virv12/mpris-over-http/backend/mpris"
)

// ListPlayersHandler returns the bus names of all active MPRIS players
func ListPlayersHandler(m *mpris.Backend) http.HandlerFunc {
	return JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return m.ListPlayers()
	})
}

// withPlayer extracts the busName path value and calls next
func withPlayer(
	next func(w http.ResponseWriter, r *http.Request, busName string),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		busName := r.PathValue("player")
		next(w, r, busName)
	}
}

// handleCommandResult maps a command outcome to its status+text response:
// 200 success, 400 rejected or invalid, 404 player not found, 500 transport.
func handleCommandResult(w http.ResponseWriter, err error) {
	if err == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
		return
	}

	var invalidBusNameErr *mpris.InvalidBusNameError
	if errors.As(err, &invalidBusNameErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var notFoundErr *mpris.PlayerNotFoundError
	if errors.As(err, &notFoundErr) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// Capability-rejected commands are a client error, not a server one
	var capErr *mpris.CapabilityError
	if errors.As(err, &capErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func PlayPauseHandler(m *mpris.Backend) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		handleCommandResult(w, m.PlayPause(busName))
	})
}

func NextHandler(m *mpris.Backend) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		handleCommandResult(w, m.Next(busName))
	})
}

func PreviousHandler(m *mpris.Backend) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		handleCommandResult(w, m.Previous(busName))
	})
}

// SeekHandler moves the position by the signed microsecond offset in the path
func SeekHandler(m *mpris.Backend) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		offset, err := strconv.ParseInt(r.PathValue("offset"), 10, 64)
		if err != nil {
			http.Error(w, "offset must be a signed integer (microseconds)", http.StatusBadRequest)
			return
		}
		handleCommandResult(w, m.Seek(busName, offset))
	})
}
