package game

import "math"

// EventKind classifies things that happened during a tick.
type EventKind int

const (
	EventHit EventKind = iota
	EventKill
	EventRespawn
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventKill:
		return "kill"
	case EventRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// Event describes a notable outcome of a tick, for logging by the caller.
type Event struct {
	Kind   EventKind
	Player string // Player affected
	Source string // Owner of the bullet for hits and kills
	Bullet uint64
	Damage int
	World  World
}

// Step advances the simulation by one tick. now is the wall clock in unix
// milliseconds. The phase order is fixed: players, bullets, hits, decay.
func (s *State) Step(now int64) []Event {
	s.Tick++
	var events []Event

	for _, p := range s.players {
		if p.Dead() {
			if now > p.DeadUntil {
				s.respawnPlayer(p)
				events = append(events, Event{Kind: EventRespawn, Player: p.ID, World: p.World})
			}
			continue
		}
		s.movePlayer(p)
	}

	s.updateBullets()
	events = s.resolveHits(now, events)

	s.Desync = math.Max(0, s.Desync-DesyncDecay)

	return events
}

// movePlayer integrates one tick of movement, testing each axis separately so
// a player sliding along a wall keeps moving along it.
func (s *State) movePlayer(p *Player) {
	ax, ay := p.Keys.Direction()
	length := math.Hypot(ax, ay)
	if length == 0 {
		p.VX, p.VY = 0, 0
		return
	}

	dx := ax / length * PlayerSpeed * TickSeconds
	dy := ay / length * PlayerSpeed * TickSeconds
	startX, startY := p.X, p.Y

	if dx != 0 {
		box := p.Box(p.X+dx, p.Y)
		if InPlayfield(box) && !Collides(box, p.World, s.obstacles) {
			p.X += dx
		}
	}
	if dy != 0 {
		box := p.Box(p.X, p.Y+dy)
		if InPlayfield(box) && !Collides(box, p.World, s.obstacles) {
			p.Y += dy
		}
	}

	p.VX = (p.X - startX) / TickSeconds
	p.VY = (p.Y - startY) / TickSeconds
}

// updateBullets moves every bullet and drops the ones that left the playfield
// or hit a wall in their world. Uses in-place filtering to avoid allocating
// a new slice every tick.
func (s *State) updateBullets() {
	writeIdx := 0
	for _, b := range s.bullets {
		b.X += b.VX * TickSeconds
		b.Y += b.VY * TickSeconds

		if !pointInPlayfield(b.X, b.Y) {
			continue
		}
		if Collides(b.Box(), b.World, s.obstacles) {
			continue
		}

		s.bullets[writeIdx] = b
		writeIdx++
	}
	clearTail(s.bullets, writeIdx)
	s.bullets = s.bullets[:writeIdx]
}

// resolveHits tests surviving bullets against players in the same world.
// Only the first player in join order within range is hit.
func (s *State) resolveHits(now int64, events []Event) []Event {
	s.grid.IndexPlayers(s.players)

	writeIdx := 0
	for _, b := range s.bullets {
		hit := false
		for _, i := range s.grid.GetNearby(b.X, b.Y) {
			p := s.players[i]
			if p.Dead() || p.World != b.World || p.ID == b.Owner {
				continue
			}
			if Distance(b.X, b.Y, p.X, p.Y) >= HitRadius {
				continue
			}

			applied, lethal := ApplyDamage(p, BulletDamage)
			events = append(events, Event{
				Kind: EventHit, Player: p.ID, Source: b.Owner,
				Bullet: b.ID, Damage: applied, World: b.World,
			})
			if lethal {
				s.killPlayer(p, b.Owner, now)
				events = append(events, Event{
					Kind: EventKill, Player: p.ID, Source: b.Owner,
					Bullet: b.ID, World: b.World,
				})
			}
			hit = true
			break
		}

		if hit {
			continue
		}
		s.bullets[writeIdx] = b
		writeIdx++
	}
	clearTail(s.bullets, writeIdx)
	s.bullets = s.bullets[:writeIdx]

	return events
}

// clearTail nils out dropped pointers so they can be collected.
func clearTail(bullets []*Bullet, from int) {
	for i := from; i < len(bullets); i++ {
		bullets[i] = nil
	}
}
