package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Virv12/mpris-over-http/backend/mpris"
)

// TestHandleCommandResult tests the command outcome → HTTP status mapping
func TestHandleCommandResult(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
		wantBodyMatch  string
	}{
		{
			name:           "no error returns 200 with ok line",
			err:            nil,
			wantStatusCode: http.StatusOK,
			wantBodyMatch:  "ok",
		},
		{
			name: "InvalidBusNameError returns 400 Bad Request",
			err: &mpris.InvalidBusNameError{
				BusName: "invalid",
				Reason:  "contains illegal characters",
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyMatch:  "invalid player name",
		},
		{
			name: "PlayerNotFoundError returns 404 Not Found",
			err: &mpris.PlayerNotFoundError{
				BusName: "org.mpris.MediaPlayer2.spotify",
			},
			wantStatusCode: http.StatusNotFound,
			wantBodyMatch:  "player not found",
		},
		{
			name: "CapabilityError returns 400 rejected",
			err: &mpris.CapabilityError{
				Required: "CanSeek",
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyMatch:  "action not allowed",
		},
		{
			name:           "transport error returns 500 Internal Server Error",
			err:            http.ErrServerClosed,
			wantStatusCode: http.StatusInternalServerError,
			wantBodyMatch:  "Server closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleCommandResult(w, tt.err)

			if w.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatusCode)
			}

			if tt.wantBodyMatch != "" {
				body := w.Body.String()
				if !strings.Contains(body, tt.wantBodyMatch) {
					t.Errorf("body = %q, want to contain %q", body, tt.wantBodyMatch)
				}
			}
		})
	}
}

// TestSeekHandler_InvalidOffset verifies a malformed offset never reaches the backend
func TestSeekHandler_InvalidOffset(t *testing.T) {
	handler := SeekHandler(nil) // backend must not be touched

	req := httptest.NewRequest(http.MethodPost, "/seek/org.mpris.MediaPlayer2.vlc/abc", nil)
	req.SetPathValue("player", "org.mpris.MediaPlayer2.vlc")
	req.SetPathValue("offset", "abc")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestWithPlayer tests the middleware for extracting busName
func TestWithPlayer(t *testing.T) {
	var receivedBusName string
	handler := withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		receivedBusName = busName
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/playpause/org.mpris.MediaPlayer2.spotify", nil)
	req.SetPathValue("player", "org.mpris.MediaPlayer2.spotify")
	w := httptest.NewRecorder()

	handler(w, req)

	if receivedBusName != "org.mpris.MediaPlayer2.spotify" {
		t.Errorf("busName = %q, want org.mpris.MediaPlayer2.spotify", receivedBusName)
	}
}
