package server

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/time/rate"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 54 * time.Second

	// Largest inbound frame accepted from a client
	maxMessageSize = 4096

	// Outbound frames buffered per client before state updates are skipped
	sendBufferSize = 64

	commandBufferSize = 256
)

// Config holds the server settings that come from the process configuration.
type Config struct {
	Log     slog.Logger // SRVR subsystem
	GameLog slog.Logger // GAME subsystem

	FogOfWar       bool
	MsgRate        rate.Limit // Inbound messages per second per connection, 0 = unlimited
	MsgBurst       int
	AllowedOrigins []string

	// Obstacles overrides the arena layout; nil uses game.DefaultObstacles.
	Obstacles []game.Obstacle
	// Rand seeds respawn positions; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Client represents a connected player
type Client struct {
	ID      string
	conn    *websocket.Conn
	send    chan []byte
	codec   Codec
	limiter *rate.Limiter
	server  *Server
}

// Server owns the simulation. Only the goroutine running Run touches state
// and clients; everything else talks to it through commands.
type Server struct {
	cfg      Config
	log      slog.Logger
	gameLog  slog.Logger
	upgrader websocket.Upgrader

	commands chan interface{}
	done     chan struct{}

	state   *game.State
	clients map[string]*Client

	now func() int64
}

// NewServer creates a new game server
func NewServer(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = slog.Disabled
	}
	if cfg.GameLog == nil {
		cfg.GameLog = slog.Disabled
	}
	if cfg.Obstacles == nil {
		cfg.Obstacles = game.DefaultObstacles()
	}
	if cfg.MsgRate <= 0 {
		cfg.MsgRate = rate.Inf
	}
	if cfg.MsgBurst <= 0 {
		cfg.MsgBurst = 1
	}

	s := &Server{
		cfg:      cfg,
		log:      cfg.Log,
		gameLog:  cfg.GameLog,
		commands: make(chan interface{}, commandBufferSize),
		done:     make(chan struct{}),
		state:    game.NewState(cfg.Obstacles, cfg.Rand),
		clients:  make(map[string]*Client),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:       s.originChecker(cfg.AllowedOrigins),
		EnableCompression: true, // Enable per-message deflate compression
	}
	return s
}

// Run drives the fixed-rate tick and applies commands until ctx is done.
// Every connected client is closed on return.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.closeClients()

	ticker := time.NewTicker(game.TickInterval)
	defer ticker.Stop()

	s.log.Infof("Simulation running at %d Hz with %d obstacles", game.TickRate, len(s.cfg.Obstacles))

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("Simulation stopped at tick %d", s.state.Tick)
			return nil
		case cmd := <-s.commands:
			s.handleCommand(cmd)
		case <-ticker.C:
			s.tick()
		}
	}
}

// submit hands a command to the Run goroutine. It returns false once the
// server has stopped.
func (s *Server) submit(cmd interface{}) bool {
	select {
	case s.commands <- cmd:
		return true
	case <-s.done:
		return false
	}
}

// tick advances the simulation once and broadcasts the result
func (s *Server) tick() {
	events := s.state.Step(s.now())
	s.logEvents(events)
	s.broadcastState()
}

func (s *Server) logEvents(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventHit:
			s.gameLog.Debugf("Bullet %d from %s hit %s for %d in %s", e.Bullet, e.Source, e.Player, e.Damage, e.World)
		case game.EventKill:
			s.gameLog.Infof("%s killed by %s in %s (desync %.1f)", e.Player, e.Source, e.World, s.state.Desync)
		case game.EventRespawn:
			s.gameLog.Debugf("%s respawned in %s", e.Player, e.World)
		}
	}
}

// broadcastState sends the current snapshot to every client. With fog of war
// each client gets its own filtered view; otherwise one frame per codec is
// encoded and shared.
func (s *Server) broadcastState() {
	if len(s.clients) == 0 {
		return
	}
	snap := s.state.Snapshot()

	if !s.cfg.FogOfWar {
		frames := make(map[string][]byte, 2)
		msg := newStateMessage(snap)
		for _, c := range s.clients {
			data, ok := frames[c.codec.Name()]
			if !ok {
				var err error
				data, err = c.codec.Marshal(msg)
				if err != nil {
					s.log.Errorf("Failed to encode state as %s: %v", c.codec.Name(), err)
					return
				}
				frames[c.codec.Name()] = data
			}
			s.enqueue(c, data)
		}
		return
	}

	for _, c := range s.clients {
		p, ok := s.state.Player(c.ID)
		if !ok {
			continue
		}
		data, err := c.codec.Marshal(newStateMessage(snap.Visible(p.World, c.ID)))
		if err != nil {
			s.log.Errorf("Failed to encode state for %s: %v", c.ID, err)
			continue
		}
		s.enqueue(c, data)
	}
}

// enqueue never blocks the simulation; a full queue drops the frame
func (s *Server) enqueue(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		s.log.Tracef("Client %s send buffer full, skipping frame", c.ID)
	}
}

// closeClients removes every client and closes its send queue
func (s *Server) closeClients() {
	for id, c := range s.clients {
		s.state.RemovePlayer(id)
		close(c.send)
		delete(s.clients, id)
	}
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("WebSocket upgrade error: %v", err)
		return
	}

	client := s.newClient(conn, codec)

	reply := make(chan string, 1)
	if !s.submit(joinCmd{client: client, reply: reply}) {
		conn.Close()
		return
	}
	select {
	case id := <-reply:
		if id == "" {
			conn.Close()
			return
		}
		s.log.Infof("Client %s connected from %s (%s)", id, r.RemoteAddr, codec.Name())
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) newClient(conn *websocket.Conn, codec Codec) *Client {
	return &Client{
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		codec:   codec,
		limiter: rate.NewLimiter(s.cfg.MsgRate, s.cfg.MsgBurst),
		server:  s,
	}
}

// newPlayerID returns a random v4 UUID string
func newPlayerID() string {
	return uuid.NewV4().String()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		c.server.submit(leaveCmd{client: c})
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warnf("WebSocket error for %s: %v", c.ID, err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.server.log.Tracef("Rate limited message from %s dropped", c.ID)
			continue
		}

		msg, err := DecodeInbound(codecForFrame(messageType), data)
		if err != nil {
			c.server.log.Warnf("Malformed message from %s: %v", c.ID, err)
			continue
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(c.codec.MessageType(), message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
