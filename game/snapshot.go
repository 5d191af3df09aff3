package game

// Snapshot is a value copy of the simulation at the end of a tick.
type Snapshot struct {
	Tick        int64
	Players     []Player
	Bullets     []Bullet
	DesyncLevel float64
}

// Snapshot copies every player and bullet.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.Tick,
		Players:     make([]Player, 0, len(s.players)),
		Bullets:     make([]Bullet, 0, len(s.bullets)),
		DesyncLevel: s.Desync,
	}
	for _, p := range s.players {
		snap.Players = append(snap.Players, *p)
	}
	for _, b := range s.bullets {
		snap.Bullets = append(snap.Bullets, *b)
	}
	return snap
}

// Visible returns the part of the snapshot a viewer in world w may see:
// players and bullets in w, plus the viewer itself.
func (snap Snapshot) Visible(w World, viewerID string) Snapshot {
	out := Snapshot{
		Tick:        snap.Tick,
		Players:     make([]Player, 0, len(snap.Players)),
		Bullets:     make([]Bullet, 0, len(snap.Bullets)),
		DesyncLevel: snap.DesyncLevel,
	}
	for _, p := range snap.Players {
		if p.World == w || p.ID == viewerID {
			out.Players = append(out.Players, p)
		}
	}
	for _, b := range snap.Bullets {
		if b.World == w {
			out.Bullets = append(out.Bullets, b)
		}
	}
	return out
}

// Counts summarises the arena for the stats endpoint.
type Counts struct {
	Players int
	Light   int
	Shadow  int
	Bullets int
}

// Counts returns population per world.
func (s *State) Counts() Counts {
	c := Counts{Players: len(s.players), Bullets: len(s.bullets)}
	for _, p := range s.players {
		switch p.World {
		case WorldLight:
			c.Light++
		case WorldShadow:
			c.Shadow++
		}
	}
	return c
}
