package game

// spawnAttempts bounds the search for an obstacle-free spawn point.
const spawnAttempts = 32

// spawnMargin keeps respawns away from the playfield edge.
const spawnMargin = PlayerSize

// randomSpawn picks a position inside the playfield whose player box is clear
// of obstacles in world w. Falls back to the default spawn if none is found.
func (s *State) randomSpawn(w World) (float64, float64) {
	for i := 0; i < spawnAttempts; i++ {
		x := spawnMargin + s.rng.Float64()*(PlayfieldWidth-2*spawnMargin)
		y := spawnMargin + s.rng.Float64()*(PlayfieldHeight-2*spawnMargin)
		box := Rect{X: x - PlayerSize/2, Y: y - PlayerSize/2, W: PlayerSize, H: PlayerSize}
		if InPlayfield(box) && !Collides(box, w, s.obstacles) {
			return x, y
		}
	}
	return DefaultSpawnX, DefaultSpawnY
}

// respawnPlayer brings a dead player back with full health at a random spot.
func (s *State) respawnPlayer(p *Player) {
	p.DeadUntil = 0
	p.Health = MaxHealth
	p.VX, p.VY = 0, 0
	p.X, p.Y = s.randomSpawn(p.World)
}
