package server

import (
	"encoding/json"
	"net/http"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/game"
)

// Commands consumed by Run. Each one is applied on the simulation goroutine.

// joinCmd registers a connection; the assigned id is sent on reply, or ""
// if the player could not be added.
type joinCmd struct {
	client *Client
	reply  chan<- string
}

type leaveCmd struct {
	client *Client
}

type inputCmd struct {
	id    string
	keys  game.Keys
	angle float64
}

type shiftCmd struct {
	id string
}

type shootCmd struct {
	id string
}

type statsCmd struct {
	reply chan<- Stats
}

// Stats is the body of /api/stats
type Stats struct {
	Players     int     `json:"players"`
	Light       int     `json:"light"`
	Shadow      int     `json:"shadow"`
	Bullets     int     `json:"bullets"`
	DesyncLevel float64 `json:"desyncLevel"`
	Tick        int64   `json:"tick"`
}

// handleCommand applies one command to the simulation
func (s *Server) handleCommand(cmd interface{}) {
	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- s.handleJoin(c.client)
	case leaveCmd:
		s.handleLeave(c.client)
	case inputCmd:
		s.state.SetInput(c.id, c.keys, c.angle)
	case shiftCmd:
		if s.state.Shift(c.id, s.now()) {
			p, _ := s.state.Player(c.id)
			s.gameLog.Debugf("%s shifted to %s", c.id, p.World)
		}
	case shootCmd:
		if b, ok := s.state.Fire(c.id); ok {
			s.gameLog.Tracef("%s fired bullet %d in %s", c.id, b.ID, b.World)
		}
	case statsCmd:
		c.reply <- s.stats()
	default:
		s.log.Errorf("Unknown command %T", cmd)
	}
}

// handleJoin creates the player entity and queues the init message
func (s *Server) handleJoin(c *Client) string {
	id := newPlayerID()
	if _, ok := s.state.AddPlayer(id); !ok {
		s.log.Errorf("Player id %s already in use", id)
		return ""
	}

	data, err := c.codec.Marshal(newInitMessage(id, s.state.Obstacles()))
	if err != nil {
		s.log.Errorf("Failed to encode init for %s: %v", id, err)
		s.state.RemovePlayer(id)
		return ""
	}

	c.ID = id
	s.clients[id] = c
	s.enqueue(c, data)
	return id
}

// handleLeave removes the player; its bullets keep flying
func (s *Server) handleLeave(c *Client) {
	if registered, ok := s.clients[c.ID]; !ok || registered != c {
		return
	}
	delete(s.clients, c.ID)
	close(c.send)
	s.state.RemovePlayer(c.ID)
	s.log.Infof("Client %s disconnected", c.ID)
}

func (s *Server) stats() Stats {
	counts := s.state.Counts()
	return Stats{
		Players:     counts.Players,
		Light:       counts.Light,
		Shadow:      counts.Shadow,
		Bullets:     counts.Bullets,
		DesyncLevel: s.state.Desync,
		Tick:        s.state.Tick,
	}
}

// handleMessage forwards a decoded client message to the simulation
func (c *Client) handleMessage(msg Inbound) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Errorf("PANIC in handleMessage for client %s, type %s: %v", c.ID, msg.inboundType(), r)
		}
	}()

	switch m := msg.(type) {
	case InputMessage:
		c.server.submit(inputCmd{id: c.ID, keys: m.Keys, angle: m.Angle})
	case ShiftMessage:
		c.server.submit(shiftCmd{id: c.ID})
	case ShootMessage:
		c.server.submit(shootCmd{id: c.ID})
	default:
		c.server.log.Warnf("Unhandled message type %T from %s", msg, c.ID)
	}
}

// HandleStats returns current arena population
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")

	reply := make(chan Stats, 1)
	if !s.submit(statsCmd{reply: reply}) {
		http.Error(w, "server stopped", http.StatusServiceUnavailable)
		return
	}

	select {
	case stats := <-reply:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			s.log.Warnf("Failed to write stats: %v", err)
		}
	case <-s.done:
		http.Error(w, "server stopped", http.StatusServiceUnavailable)
	case <-r.Context().Done():
	}
}
