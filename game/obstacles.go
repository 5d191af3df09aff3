package game

// Obstacle is a static wall. An empty World means it exists in both worlds.
type Obstacle struct {
	Rect
	World World `json:"world,omitempty" msgpack:"world,omitempty"`
}

// ExistsIn reports whether the obstacle blocks entities in world w.
func (o Obstacle) ExistsIn(w World) bool {
	return o.World == "" || o.World == w
}

// DefaultObstacles returns the arena layout. The first two walls are shared by
// both worlds; the rest only exist on one side, so shifting opens a path.
func DefaultObstacles() []Obstacle {
	return []Obstacle{
		{Rect: Rect{X: 300, Y: 200, W: 80, H: 20}},
		{Rect: Rect{X: 450, Y: 350, W: 120, H: 25}},

		{Rect: Rect{X: 200, Y: 420, W: 20, H: 120}, World: WorldLight},
		{Rect: Rect{X: 560, Y: 80, W: 140, H: 20}, World: WorldLight},

		{Rect: Rect{X: 620, Y: 220, W: 20, H: 140}, World: WorldShadow},
		{Rect: Rect{X: 120, Y: 260, W: 120, H: 20}, World: WorldShadow},
	}
}
