package game

import (
	"math/rand"
	"time"
)

// State holds the entire simulation state. It is not safe for concurrent use;
// the server owns it from a single goroutine.
type State struct {
	Tick   int64
	Desync float64

	players []*Player
	index   map[string]*Player
	bullets []*Bullet

	obstacles    []Obstacle
	nextBulletID uint64
	rng          *rand.Rand
	grid         *SpatialGrid
}

// NewState creates an empty arena with the given obstacle layout. A nil rng
// is replaced by a time-seeded one.
func NewState(obstacles []Obstacle, rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &State{
		index:        make(map[string]*Player),
		bullets:      make([]*Bullet, 0),
		obstacles:    obstacles,
		nextBulletID: 1,
		rng:          rng,
		grid:         NewSpatialGrid(),
	}
}

// AddPlayer inserts a fresh player at the default spawn. It returns false if
// the id is already taken.
func (s *State) AddPlayer(id string) (*Player, bool) {
	if id == "" {
		return nil, false
	}
	if _, exists := s.index[id]; exists {
		return nil, false
	}
	p := &Player{
		ID:     id,
		X:      DefaultSpawnX,
		Y:      DefaultSpawnY,
		World:  DefaultWorld,
		Health: MaxHealth,
	}
	s.players = append(s.players, p)
	s.index[id] = p
	return p, true
}

// RemovePlayer deletes the player. Bullets it fired stay in flight.
func (s *State) RemovePlayer(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	return true
}

// Player looks up a player by id.
func (s *State) Player(id string) (*Player, bool) {
	p, ok := s.index[id]
	return p, ok
}

// Players returns live players in join order.
func (s *State) Players() []*Player {
	return s.players
}

// Bullets returns bullets in flight in spawn order.
func (s *State) Bullets() []*Bullet {
	return s.bullets
}

// Obstacles returns the static layout.
func (s *State) Obstacles() []Obstacle {
	return s.obstacles
}

// AddBullet appends a bullet and assigns it the next id.
func (s *State) AddBullet(b *Bullet) *Bullet {
	b.ID = s.nextBulletID
	s.nextBulletID++
	s.bullets = append(s.bullets, b)
	return b
}
