package game

import (
	"math"
	"time"
)

// Playfield and timing
const (
	PlayfieldWidth  = 800
	PlayfieldHeight = 600

	TickRate     = 60
	TickInterval = time.Second / TickRate
	TickSeconds  = 1.0 / TickRate
)

// Tuning constants
const (
	PlayerSpeed = 220.0 // units per second
	PlayerSize  = 20.0  // side of the player's collision box
	MaxHealth   = 100

	BulletSpeed       = 480.0 // units per second
	BulletSize        = 4.0
	BulletSpawnOffset = 20.0
	BulletDamage      = 15

	// HitRadius is exclusive: a bullet hits when its distance to the
	// target is strictly less than this value.
	HitRadius = 22.0

	RespawnDelayMs  = 2000
	ShiftCooldownMs = 3000

	DesyncGain  = 10.0
	DesyncDecay = 0.05
	DesyncMax   = 100.0

	DefaultSpawnX = 100.0
	DefaultSpawnY = 100.0
)

// World identifies which of the two overlapping planes an entity lives in.
type World string

const (
	WorldLight  World = "light"
	WorldShadow World = "shadow"
)

// DefaultWorld is the world new players join.
const DefaultWorld = WorldLight

// Valid reports whether w is one of the two worlds.
func (w World) Valid() bool {
	return w == WorldLight || w == WorldShadow
}

// Other returns the opposite world.
func (w World) Other() World {
	if w == WorldLight {
		return WorldShadow
	}
	return WorldLight
}

// Keys holds the four directional input flags.
type Keys struct {
	W bool `json:"w" msgpack:"w"`
	A bool `json:"a" msgpack:"a"`
	S bool `json:"s" msgpack:"s"`
	D bool `json:"d" msgpack:"d"`
}

// Direction returns the unnormalized movement intent for the pressed keys.
func (k Keys) Direction() (float64, float64) {
	var ax, ay float64
	if k.W {
		ay--
	}
	if k.S {
		ay++
	}
	if k.A {
		ax--
	}
	if k.D {
		ax++
	}
	return ax, ay
}

// Player represents a connected player
type Player struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	VX    float64 `json:"vx" msgpack:"vx"`
	VY    float64 `json:"vy" msgpack:"vy"`
	Angle float64 `json:"angle" msgpack:"angle"` // Facing in radians
	World World   `json:"world" msgpack:"world"`

	Health int  `json:"health" msgpack:"health"`
	Keys   Keys `json:"keys" msgpack:"keys"`

	LastShift int64 `json:"lastShift" msgpack:"lastShift"` // Unix ms of last accepted shift
	DeadUntil int64 `json:"deadUntil" msgpack:"deadUntil"` // Unix ms, 0 while alive

	Kills  int `json:"kills" msgpack:"kills"`
	Deaths int `json:"deaths" msgpack:"deaths"`
}

// Dead reports whether the player is inside a death window.
func (p *Player) Dead() bool {
	return p.DeadUntil != 0
}

// Box returns the player's collision box centred on (x, y).
func (p *Player) Box(x, y float64) Rect {
	return Rect{X: x - PlayerSize/2, Y: y - PlayerSize/2, W: PlayerSize, H: PlayerSize}
}

// Bullet represents a projectile in flight
type Bullet struct {
	ID    uint64  `json:"id" msgpack:"id"`
	Owner string  `json:"owner" msgpack:"owner"` // Player ID, lookup only
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	VX    float64 `json:"vx" msgpack:"vx"`
	VY    float64 `json:"vy" msgpack:"vy"`
	World World   `json:"world" msgpack:"world"`
}

// Box returns the bullet's collision box.
func (b *Bullet) Box() Rect {
	return Rect{X: b.X - BulletSize/2, Y: b.Y - BulletSize/2, W: BulletSize, H: BulletSize}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

// Overlaps reports whether two rectangles intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Distance calculates distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// SanitizeAngle maps NaN and infinities to 0 and wraps the result into [0, 2*PI).
func SanitizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
