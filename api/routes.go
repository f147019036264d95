package api

import (
	"net/http"

	"github.com/Virv12/mpris-over-http/backend/mpris"
	"github.com/Virv12/mpris-over-http/logger"
)

func (s *Server) register(m *mpris.Backend) {
	if m == nil {
		return
	}

	s.mux.HandleFunc("GET /list", ListPlayersHandler(m))
	s.mux.HandleFunc("GET /metadata/{player}", MetadataHandler(m, s.config))
	s.mux.HandleFunc("GET /icon/{player}/{token}", IconHandler(m))

	s.mux.HandleFunc("POST /playpause/{player}", PlayPauseHandler(m))
	s.mux.HandleFunc("POST /seek/{player}/{offset}", SeekHandler(m))
	s.mux.HandleFunc("POST /next/{player}", NextHandler(m))
	s.mux.HandleFunc("POST /prev/{player}", PreviousHandler(m))

	// Optional static UI (the browser client lives outside this server)
	if s.config.StaticDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.config.StaticDir)))
		logger.Info("[api] serving static UI from %s", s.config.StaticDir)
	}
}
