package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONHandler_EncodesData(t *testing.T) {
	handler := JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return []string{"org.mpris.MediaPlayer2.vlc", "org.mpris.MediaPlayer2.spotify"}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got []string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if len(got) != 2 || got[0] != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("decoded = %v, want the two bus names in order", got)
	}
}

func TestJSONHandler_Error(t *testing.T) {
	handler := JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return nil, errors.New("bus unavailable")
	})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
