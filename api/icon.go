package api

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Virv12/mpris-over-http/backend/mpris"
	"github.com/Virv12/mpris-over-http/logger"
)

// artClient fetches remote album art. No overall timeout: bodies are
// streamed and the request context already bounds the transfer.
var artClient = &http.Client{
	Transport: &http.Transport{
		ResponseHeaderTimeout: 10 * time.Second,
	},
}

type artRefKind int

const (
	artNone artRefKind = iota
	artFile
	artRemote
	artUnsupported
)

// artRef is the classified form of an MPRIS art reference.
type artRef struct {
	kind  artRefKind
	value string // filesystem path for artFile, URL for artRemote
}

// classifyArtRef sorts a raw mpris:artUrl into the shapes the proxy serves.
// Anything that is neither a local file nor an http(s) URL (data: URIs and
// the like) is unsupported, reported distinctly from absent.
func classifyArtRef(raw string) artRef {
	switch {
	case raw == "":
		return artRef{kind: artNone}
	case strings.HasPrefix(raw, "file://"):
		return artRef{kind: artFile, value: strings.TrimPrefix(raw, "file://")}
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return artRef{kind: artRemote, value: raw}
	default:
		return artRef{kind: artUnsupported, value: raw}
	}
}

// IconHandler proxies the player's current album art. The {token} path
// segment is the art hash from the last snapshot; it exists purely for
// client-side cache invalidation and is never validated here.
func IconHandler(m *mpris.Backend) http.HandlerFunc {
	return withPlayer(func(w http.ResponseWriter, r *http.Request, busName string) {
		player, err := m.Resolve(busName)
		if err != nil {
			handleCommandResult(w, err)
			return
		}

		artURL, err := player.ArtURL()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		switch ref := classifyArtRef(artURL); ref.kind {
		case artNone:
			http.Error(w, "player has no art", http.StatusNotFound)
		case artFile:
			serveLocalArt(w, ref.value)
		case artRemote:
			serveRemoteArt(w, r, ref.value)
		default:
			http.Error(w, "unsupported art reference", http.StatusUnsupportedMediaType)
		}
	})
}

// serveLocalArt streams a local art file with its exact length and a
// best-effort content type inferred from the extension.
func serveLocalArt(w http.ResponseWriter, path string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "art file not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", artContentType(path))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, f); err != nil {
		logger.Warn("[icon] streaming %s interrupted: %v", path, err)
	}
}

// serveRemoteArt streams upstream art through without buffering it fully.
// Upstream Content-Type and Content-Length are forwarded verbatim when
// present and never fabricated when absent.
func serveRemoteArt(w http.ResponseWriter, r *http.Request, url string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	resp, err := artClient.Do(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "upstream returned "+resp.Status, http.StatusBadGateway)
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Warn("[icon] streaming %s interrupted: %v", url, err)
	}
}

// artContentType infers a content type from the file extension, with a
// fallback table for the usual cover-art formats.
func artContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
