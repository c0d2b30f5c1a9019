package world

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// SessionID identifies a connected client for the lifetime of its connection.
type SessionID string

// Player holds in-memory data for a connected player.
type Player struct {
	ID     SessionID
	Name   string
	X      float64
	Y      float64
	Angle  float64 // radians
	Health int     // 0..MaxHealth
	Kills  int
}

// Projectile is a bullet in flight. Owner may refer to a player that has
// already disconnected.
type Projectile struct {
	X     float64
	Y     float64
	Angle float64
	Owner SessionID
}

// Keys is the set of movement keys held by a client (w/s/a/d).
type Keys struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// HitContext is handed to a DamageFunc for every projectile hit.
type HitContext struct {
	Base           int
	DefenderHealth int
	OwnerKills     int // -1 when the owner has disconnected
}

// DamageFunc computes the damage dealt by one hit.
type DamageFunc func(HitContext) int

// Kill describes a defender dropping to zero health during a tick.
type Kill struct {
	Tick     uint64
	Killer   SessionID
	Victim   SessionID
	Credited bool // false when the killer was no longer connected
}

// State is the single source of truth for players and projectiles.
// Every exported method takes the lock for its whole duration, so intent
// application and tick passes never interleave.
type State struct {
	mu sync.Mutex

	tuning  Tuning
	rng     *rand.Rand
	damage  DamageFunc
	tick    uint64
	players map[SessionID]*Player
	order   []SessionID // join order; collision scan order
	shots   []*Projectile
}

func NewState(tuning Tuning) *State {
	return NewStateWithSeed(tuning, time.Now().UnixNano())
}

// NewStateWithSeed builds a State whose names and spawn points come from a
// deterministic random source.
func NewStateWithSeed(tuning Tuning, seed int64) *State {
	return &State{
		tuning:  tuning,
		rng:     rand.New(rand.NewSource(seed)),
		players: make(map[SessionID]*Player, 32),
		order:   make([]SessionID, 0, 32),
		shots:   make([]*Projectile, 0, 128),
	}
}

// SetDamageFunc replaces the hit damage rule. nil restores the flat tuning damage.
func (s *State) SetDamageFunc(fn DamageFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.damage = fn
}

func (s *State) Tuning() Tuning { return s.tuning }

// AddPlayer creates a player with a generated name and a random spawn point.
// An existing entry for id is returned unchanged.
func (s *State) AddPlayer(id SessionID) Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.players[id]; ok {
		return *p
	}
	p := &Player{
		ID:     id,
		Name:   fmt.Sprintf("Player%d", s.rng.Intn(NameSuffixRange)),
		Health: s.tuning.MaxHealth,
	}
	p.X, p.Y = s.spawnPoint()
	s.players[id] = p
	s.order = append(s.order, id)
	return *p
}

// RemovePlayer deletes the player. Removing an absent id is a no-op.
func (s *State) RemovePlayer(id SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Move stores the facing angle and steps the player once per held key, then
// clamps to the arena. Diagonals are not normalised.
func (s *State) Move(id SessionID, keys Keys, angle float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return false
	}
	p.Angle = angle

	step := s.tuning.MoveStep
	if keys.Up {
		p.Y -= step
	}
	if keys.Down {
		p.Y += step
	}
	if keys.Left {
		p.X -= step
	}
	if keys.Right {
		p.X += step
	}
	p.X, p.Y = s.tuning.clampToArena(p.X, p.Y)
	return true
}

// Fire appends a projectile at the player's position travelling along its facing.
func (s *State) Fire(id SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return false
	}
	s.shots = append(s.shots, &Projectile{X: p.X, Y: p.Y, Angle: p.Angle, Owner: id})
	return true
}

// Step advances the world by one tick and returns the kills it produced.
func (s *State) Step() []Kill {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	var kills []Kill

	kept := s.shots[:0]
	for _, b := range s.shots {
		b.X += math.Cos(b.Angle) * s.tuning.ProjectileSpeed
		b.Y += math.Sin(b.Angle) * s.tuning.ProjectileSpeed

		hit := false
		for _, id := range s.order {
			if id == b.Owner {
				continue
			}
			p := s.players[id]
			if math.Hypot(p.X-b.X, p.Y-b.Y) >= s.tuning.HitRadius {
				continue
			}
			hit = true
			if k, died := s.applyHit(b, p); died {
				kills = append(kills, k)
			}
			break
		}

		if hit || s.tuning.outOfBounds(b.X, b.Y) {
			continue
		}
		kept = append(kept, b)
	}
	// drop stale pointers from the tail so removed projectiles can be collected
	for i := len(kept); i < len(s.shots); i++ {
		s.shots[i] = nil
	}
	s.shots = kept
	return kills
}

func (s *State) applyHit(b *Projectile, p *Player) (Kill, bool) {
	owner, ownerPresent := s.players[b.Owner]

	dmg := s.tuning.Damage
	if s.damage != nil {
		ctx := HitContext{Base: s.tuning.Damage, DefenderHealth: p.Health, OwnerKills: -1}
		if ownerPresent {
			ctx.OwnerKills = owner.Kills
		}
		dmg = s.damage(ctx)
		if dmg < 0 {
			dmg = 0
		}
	}

	p.Health -= dmg
	if p.Health > 0 {
		return Kill{}, false
	}

	k := Kill{Tick: s.tick, Killer: b.Owner, Victim: p.ID}
	if ownerPresent {
		owner.Kills++
		k.Credited = true
	}
	p.Health = s.tuning.MaxHealth
	p.X, p.Y = s.spawnPoint()
	return k, true
}

func (s *State) spawnPoint() (float64, float64) {
	t := s.tuning
	x := t.SpawnMinX + s.rng.Float64()*(t.SpawnMaxX-t.SpawnMinX)
	y := t.SpawnMinY + s.rng.Float64()*(t.SpawnMaxY-t.SpawnMinY)
	return x, y
}

// Player returns a copy of the player entry.
func (s *State) Player(id SessionID) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (s *State) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

func (s *State) ProjectileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shots)
}
