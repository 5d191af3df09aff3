package game

// ApplyDamage subtracts damage from the player's health, clamping at zero.
// Returns the amount actually applied and whether the hit was lethal.
// Dead players take no damage.
func ApplyDamage(p *Player, damage int) (int, bool) {
	if p == nil || damage <= 0 || p.Dead() {
		return 0, false
	}

	applied := damage
	if applied > p.Health {
		applied = p.Health
	}
	p.Health -= applied

	return applied, p.Health <= 0
}

// killPlayer opens the player's death window and credits the killer.
func (s *State) killPlayer(target *Player, killerID string, now int64) {
	target.Health = 0
	target.DeadUntil = now + RespawnDelayMs
	target.VX, target.VY = 0, 0
	target.Deaths++

	if killer, ok := s.index[killerID]; ok && killer != target {
		killer.Kills++
	}

	s.Desync = clamp(s.Desync+DesyncGain, 0, DesyncMax)
}
