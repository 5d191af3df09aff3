package game

import "math"

// SetInput stores the latest directional flags and facing for a player.
// Returns false if the player does not exist.
func (s *State) SetInput(id string, keys Keys, angle float64) bool {
	p, ok := s.index[id]
	if !ok {
		return false
	}
	p.Keys = keys
	p.Angle = SanitizeAngle(angle)
	return true
}

// Shift flips the player's world if the cooldown has elapsed. Requests from
// dead players or inside the cooldown are ignored and return false.
func (s *State) Shift(id string, now int64) bool {
	p, ok := s.index[id]
	if !ok || p.Dead() {
		return false
	}
	if now-p.LastShift < ShiftCooldownMs {
		return false
	}
	p.World = p.World.Other()
	p.LastShift = now
	return true
}

// Fire spawns a bullet in front of the player along its facing. Dead players
// cannot fire.
func (s *State) Fire(id string) (*Bullet, bool) {
	p, ok := s.index[id]
	if !ok || p.Dead() {
		return nil, false
	}

	cos, sin := math.Cos(p.Angle), math.Sin(p.Angle)
	b := s.AddBullet(&Bullet{
		Owner: p.ID,
		X:     p.X + cos*BulletSpawnOffset,
		Y:     p.Y + sin*BulletSpawnOffset,
		VX:    cos * BulletSpeed,
		VY:    sin * BulletSpeed,
		World: p.World,
	})
	return b, true
}
