package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// originChecker returns the upgrader's CheckOrigin function. Same-host and
// localhost origins are always accepted; anything else must appear in allowed.
// A single "*" entry accepts every origin.
func (s *Server) originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	_, allowAll := set["*"]

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// No origin header - could be a non-browser client
			return true
		}
		if allowAll {
			return true
		}

		originURL, err := url.Parse(origin)
		if err != nil {
			s.log.Warnf("Invalid origin URL: %s", origin)
			return false
		}

		// Allow same-origin connections
		if r.Host == originURL.Host {
			return true
		}

		// Allow localhost connections for development
		if isLocalHost(originURL.Hostname()) {
			return true
		}

		if _, ok := set[strings.ToLower(origin)]; ok {
			return true
		}

		s.log.Warnf("Rejected WebSocket connection from origin: %s", origin)
		return false
	}
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// codecForFrame picks the decoder for an inbound frame: text frames are JSON,
// binary frames are msgpack.
func codecForFrame(messageType int) Codec {
	if messageType == websocket.BinaryMessage {
		return msgpackCodec{}
	}
	return jsonCodec{}
}
