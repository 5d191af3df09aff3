package server

import (
	"math/rand"
	"testing"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/game"
)

// Test helpers to drive the server without the Run goroutine or real
// connections. This file should only be used for testing.

const testNow int64 = 1_700_000_000_000

// newTestServer returns a server with a deterministic clock and rng
func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	s := NewServer(cfg)
	s.now = func() int64 { return testNow }
	return s
}

// joinFakeClient registers a client with no connection and drains its init
// frame, returning the client and the decoded init message.
func joinFakeClient(t *testing.T, s *Server, codec Codec) (*Client, InitMessage) {
	t.Helper()
	c := s.newClient(nil, codec)
	reply := make(chan string, 1)
	s.handleCommand(joinCmd{client: c, reply: reply})

	id := <-reply
	if id == "" {
		t.Fatalf("join failed")
	}

	var init InitMessage
	select {
	case frame := <-c.send:
		if err := codec.Unmarshal(frame, &init); err != nil {
			t.Fatalf("decode init: %v", err)
		}
	default:
		t.Fatalf("no init frame queued for %s", id)
	}
	return c, init
}

// nextState pops the next queued frame and decodes it as a state message
func nextState(t *testing.T, c *Client) StateMessage {
	t.Helper()
	select {
	case frame := <-c.send:
		var msg StateMessage
		if err := c.codec.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return msg
	default:
		t.Fatalf("no state frame queued for %s", c.ID)
	}
	return StateMessage{}
}

// player fetches a live entity or fails the test
func (s *Server) player(t *testing.T, id string) *game.Player {
	t.Helper()
	p, ok := s.state.Player(id)
	if !ok {
		t.Fatalf("player %s not found", id)
	}
	return p
}
