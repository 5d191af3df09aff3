package game

// Collides reports whether r intersects any obstacle that exists in world w.
// Obstacles tagged for the other world are ignored.
func Collides(r Rect, w World, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if !o.ExistsIn(w) {
			continue
		}
		if r.Overlaps(o.Rect) {
			return true
		}
	}
	return false
}

// InPlayfield reports whether r lies entirely inside the playfield.
func InPlayfield(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.W <= PlayfieldWidth && r.Y+r.H <= PlayfieldHeight
}

// pointInPlayfield is the bullet bound check: bullets are destroyed once
// their centre leaves the playfield.
func pointInPlayfield(x, y float64) bool {
	return x >= 0 && x <= PlayfieldWidth && y >= 0 && y <= PlayfieldHeight
}
