package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/game"
)

func TestJoinAssignsIDAndSendsInit(t *testing.T) {
	s := newTestServer(t, Config{})
	c, init := joinFakeClient(t, s, jsonCodec{})

	if _, err := uuid.FromString(c.ID); err != nil {
		t.Errorf("player id %q is not a UUID: %v", c.ID, err)
	}
	if init.Type != MsgTypeInit || init.ID != c.ID {
		t.Errorf("init = %s/%s, expected %s/%s", init.Type, init.ID, MsgTypeInit, c.ID)
	}
	if len(init.Obstacles) != len(game.DefaultObstacles()) {
		t.Errorf("init carried %d obstacles, expected %d", len(init.Obstacles), len(game.DefaultObstacles()))
	}
	if init.Width != game.PlayfieldWidth || init.Height != game.PlayfieldHeight {
		t.Errorf("playfield = %dx%d", init.Width, init.Height)
	}

	p := s.player(t, c.ID)
	if p.X != game.DefaultSpawnX || p.Y != game.DefaultSpawnY || p.World != game.DefaultWorld {
		t.Errorf("new player at (%.0f,%.0f) in %s", p.X, p.Y, p.World)
	}
}

func TestJoinGivesDistinctIDs(t *testing.T) {
	s := newTestServer(t, Config{})
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		c, _ := joinFakeClient(t, s, jsonCodec{})
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
	if len(s.state.Players()) != 10 {
		t.Errorf("expected 10 entities, got %d", len(s.state.Players()))
	}
}

func TestLeaveRemovesEntityAndClosesQueue(t *testing.T) {
	s := newTestServer(t, Config{})
	a, _ := joinFakeClient(t, s, jsonCodec{})
	b, _ := joinFakeClient(t, s, jsonCodec{})

	s.handleCommand(shootCmd{id: a.ID})
	s.handleCommand(leaveCmd{client: a})

	if _, ok := s.state.Player(a.ID); ok {
		t.Errorf("entity survived disconnect")
	}
	if _, ok := s.clients[a.ID]; ok {
		t.Errorf("client still registered")
	}
	if _, open := <-a.send; open {
		t.Errorf("send queue should be closed")
	}
	if len(s.state.Bullets()) != 1 {
		t.Errorf("bullets of a disconnected player should stay in flight")
	}

	// A second leave for the same client is a no-op
	s.handleCommand(leaveCmd{client: a})

	s.tick()
	state := nextState(t, b)
	if len(state.State.Players) != 1 || state.State.Players[0].ID != b.ID {
		t.Errorf("snapshot after leave = %+v", state.State.Players)
	}
}

func TestCommandsReachSimulation(t *testing.T) {
	s := newTestServer(t, Config{})
	c, _ := joinFakeClient(t, s, jsonCodec{})
	p := s.player(t, c.ID)

	s.handleCommand(inputCmd{id: c.ID, keys: game.Keys{D: true}, angle: math.Pi})
	if !p.Keys.D || p.Angle != math.Pi {
		t.Errorf("input not applied: keys=%+v angle=%f", p.Keys, p.Angle)
	}

	s.handleCommand(shiftCmd{id: c.ID})
	s.handleCommand(shiftCmd{id: c.ID})
	if p.World != game.WorldShadow {
		t.Errorf("double shift inside cooldown should flip once, world=%s", p.World)
	}

	s.handleCommand(shootCmd{id: c.ID})
	bullets := s.state.Bullets()
	if len(bullets) != 1 || bullets[0].World != game.WorldShadow || bullets[0].VX >= 0 {
		t.Errorf("expected one westbound shadow bullet, got %+v", bullets)
	}

	// Commands for unknown ids are ignored
	s.handleCommand(inputCmd{id: "ghost"})
	s.handleCommand(shiftCmd{id: "ghost"})
	s.handleCommand(shootCmd{id: "ghost"})
	if len(s.state.Bullets()) != 1 {
		t.Errorf("unknown player fired a bullet")
	}
}

func TestTickBroadcastsFullState(t *testing.T) {
	s := newTestServer(t, Config{})
	a, _ := joinFakeClient(t, s, jsonCodec{})
	b, _ := joinFakeClient(t, s, jsonCodec{})
	s.handleCommand(shiftCmd{id: b.ID})

	s.tick()

	for _, c := range []*Client{a, b} {
		msg := nextState(t, c)
		if msg.Type != MsgTypeState {
			t.Errorf("type = %s, expected %s", msg.Type, MsgTypeState)
		}
		if msg.State.Tick != 1 {
			t.Errorf("tick = %d, expected 1", msg.State.Tick)
		}
		if len(msg.State.Players) != 2 {
			t.Errorf("client %s saw %d players, expected both worlds", c.ID, len(msg.State.Players))
		}
	}
}

func TestTickBroadcastsFogOfWar(t *testing.T) {
	s := newTestServer(t, Config{FogOfWar: true})
	a, _ := joinFakeClient(t, s, jsonCodec{})
	b, _ := joinFakeClient(t, s, jsonCodec{})
	c, _ := joinFakeClient(t, s, jsonCodec{})
	s.handleCommand(shiftCmd{id: c.ID})
	s.handleCommand(shootCmd{id: c.ID})

	s.tick()

	light := nextState(t, a)
	if len(light.State.Players) != 2 || len(light.State.Bullets) != 0 {
		t.Errorf("light view = %d players %d bullets, expected 2 and 0",
			len(light.State.Players), len(light.State.Bullets))
	}
	_ = nextState(t, b)

	shadow := nextState(t, c)
	if len(shadow.State.Players) != 1 || shadow.State.Players[0].ID != c.ID {
		t.Errorf("shadow view should only contain the viewer, got %+v", shadow.State.Players)
	}
	if len(shadow.State.Bullets) != 1 {
		t.Errorf("shadow view should contain its own bullet")
	}
}

func TestTickBroadcastsMsgpack(t *testing.T) {
	s := newTestServer(t, Config{})
	js, _ := joinFakeClient(t, s, jsonCodec{})
	mp, init := joinFakeClient(t, s, msgpackCodec{})

	if init.ID != mp.ID {
		t.Errorf("msgpack init id = %q, expected %q", init.ID, mp.ID)
	}

	s.tick()

	jsonState := nextState(t, js)
	mpState := nextState(t, mp)
	if len(mpState.State.Players) != 2 || mpState.State.Tick != jsonState.State.Tick {
		t.Errorf("msgpack state differs: %+v vs %+v", mpState.State, jsonState.State)
	}
}

func TestTickSkipsFullQueue(t *testing.T) {
	s := newTestServer(t, Config{})
	c, _ := joinFakeClient(t, s, jsonCodec{})

	for i := 0; i < sendBufferSize+5; i++ {
		s.tick()
	}

	if len(c.send) != sendBufferSize {
		t.Errorf("queue length = %d, expected it capped at %d", len(c.send), sendBufferSize)
	}
}

func TestHandleMessageRouting(t *testing.T) {
	s := newTestServer(t, Config{})
	c := &Client{ID: "p1", server: s}

	tests := []struct {
		name string
		msg  Inbound
		want interface{}
	}{
		{"input", InputMessage{Type: MsgTypeInput, Keys: game.Keys{W: true}, Angle: 1}, inputCmd{id: "p1", keys: game.Keys{W: true}, angle: 1}},
		{"shift", ShiftMessage{Type: MsgTypeShift}, shiftCmd{id: "p1"}},
		{"shoot", ShootMessage{Type: MsgTypeShoot}, shootCmd{id: "p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.handleMessage(tt.msg)
			select {
			case got := <-s.commands:
				if got != tt.want {
					t.Errorf("command = %#v, expected %#v", got, tt.want)
				}
			default:
				t.Errorf("no command submitted")
			}
		})
	}
}

func TestStatsCommand(t *testing.T) {
	s := newTestServer(t, Config{})
	joinFakeClient(t, s, jsonCodec{})
	b, _ := joinFakeClient(t, s, jsonCodec{})
	s.handleCommand(shiftCmd{id: b.ID})
	s.handleCommand(shootCmd{id: b.ID})
	s.tick()

	reply := make(chan Stats, 1)
	s.handleCommand(statsCmd{reply: reply})
	stats := <-reply

	expected := Stats{Players: 2, Light: 1, Shadow: 1, Bullets: 1, Tick: 1}
	if stats != expected {
		t.Errorf("stats = %+v, expected %+v", stats, expected)
	}
}

func TestHandleStatsHTTP(t *testing.T) {
	s := newTestServer(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	rec := httptest.NewRecorder()
	s.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Players != 0 {
		t.Errorf("players = %d, expected 0", stats.Players)
	}

	cancel()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}

	rec = httptest.NewRecorder()
	s.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after stop = %d, expected %d", rec.Code, http.StatusServiceUnavailable)
	}
}
