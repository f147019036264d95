package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestClassifyArtRef(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind artRefKind
		val  string
	}{
		{"absent", "", artNone, ""},
		{"local file", "file:///home/user/cover.jpg", artFile, "/home/user/cover.jpg"},
		{"http url", "http://example.com/art.png", artRemote, "http://example.com/art.png"},
		{"https url", "https://example.com/art.png", artRemote, "https://example.com/art.png"},
		{"data uri", "data:image/png;base64,iVBOR", artUnsupported, "data:image/png;base64,iVBOR"},
		{"other scheme", "spotify:image:abc", artUnsupported, "spotify:image:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := classifyArtRef(tt.raw)
			if ref.kind != tt.kind {
				t.Errorf("kind = %d, want %d", ref.kind, tt.kind)
			}
			if ref.value != tt.val {
				t.Errorf("value = %q, want %q", ref.value, tt.val)
			}
		})
	}
}

// TestServeLocalArt_RoundTrip verifies a local file of size S yields exactly
// S bytes and a Content-Length of S.
func TestServeLocalArt_RoundTrip(t *testing.T) {
	data := []byte("fake png payload for the local art round-trip")
	path := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	serveLocalArt(w, path)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.Len(); got != len(data) {
		t.Errorf("body length = %d, want %d", got, len(data))
	}
	if got := w.Header().Get("Content-Length"); got != strconv.Itoa(len(data)) {
		t.Errorf("Content-Length = %q, want %d", got, len(data))
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
}

func TestServeLocalArt_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	serveLocalArt(w, filepath.Join(t.TempDir(), "does-not-exist.jpg"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// TestServeRemoteArt_ForwardsHeaders verifies upstream headers pass through verbatim.
func TestServeRemoteArt_ForwardsHeaders(t *testing.T) {
	body := []byte("remote image bytes")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write(body)
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/icon/x/0", nil)
	serveRemoteArt(w, req, upstream.URL)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != string(body) {
		t.Errorf("body = %q, want %q", got, body)
	}
	if got := w.Header().Get("Content-Type"); got != "image/webp" {
		t.Errorf("Content-Type = %q, want image/webp", got)
	}
	if got := w.Header().Get("Content-Length"); got != strconv.Itoa(len(body)) {
		t.Errorf("Content-Length = %q, want %d", got, len(body))
	}
}

// TestServeRemoteArt_NoContentType verifies an absent upstream Content-Type
// is not fabricated while the body still streams through.
func TestServeRemoteArt_NoContentType(t *testing.T) {
	body := []byte{0x89, 0x50, 0x4e, 0x47}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress net/http's content sniffing so no Content-Type is sent.
		w.Header()["Content-Type"] = nil
		w.Write(body)
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/icon/x/0", nil)
	serveRemoteArt(w, req, upstream.URL)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.Len(); got != len(body) {
		t.Errorf("body length = %d, want %d", got, len(body))
	}
	if got, ok := w.Header()["Content-Type"]; ok {
		t.Errorf("Content-Type should be absent, got %v", got)
	}
}

func TestServeRemoteArt_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/icon/x/0", nil)
	serveRemoteArt(w, req, upstream.URL)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestArtContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/a.jpg", "image/jpeg"},
		{"/tmp/a.JPG", "image/jpeg"},
		{"/tmp/a.png", "image/png"},
		{"/tmp/a.webp", "image/webp"},
		{"/tmp/noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := artContentType(tt.path); got != tt.want {
			t.Errorf("artContentType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
