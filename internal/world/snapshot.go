package world

// Snapshot is a point-in-time copy of the world, safe to read without the lock.
type Snapshot struct {
	Tick        uint64
	Players     []Player // join order
	Projectiles []Projectile
}

// Snapshot copies every player and projectile under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tick:        s.tick,
		Players:     make([]Player, 0, len(s.order)),
		Projectiles: make([]Projectile, 0, len(s.shots)),
	}
	for _, id := range s.order {
		snap.Players = append(snap.Players, *s.players[id])
	}
	for _, b := range s.shots {
		snap.Projectiles = append(snap.Projectiles, *b)
	}
	return snap
}
