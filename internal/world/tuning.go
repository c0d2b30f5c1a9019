package world

// Arena defaults. Every value can be overridden from data/yaml/arena.yaml.
const (
	ArenaWidth      = 1600.0
	ArenaHeight     = 1200.0
	MoveMargin      = 10.0
	MoveStep        = 3.0
	ProjectileSpeed = 5.0
	HitRadius       = 15.0
	HitDamage       = 25
	MaxHealth       = 100

	SpawnMinX = 100.0
	SpawnMaxX = 900.0 // exclusive
	SpawnMinY = 100.0
	SpawnMaxY = 600.0 // exclusive

	NameSuffixRange = 10000
)

// Tuning holds the numeric rules of the arena.
type Tuning struct {
	Width           float64
	Height          float64
	Margin          float64
	MoveStep        float64
	ProjectileSpeed float64
	HitRadius       float64
	Damage          int
	MaxHealth       int
	SpawnMinX       float64
	SpawnMaxX       float64
	SpawnMinY       float64
	SpawnMaxY       float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Width:           ArenaWidth,
		Height:          ArenaHeight,
		Margin:          MoveMargin,
		MoveStep:        MoveStep,
		ProjectileSpeed: ProjectileSpeed,
		HitRadius:       HitRadius,
		Damage:          HitDamage,
		MaxHealth:       MaxHealth,
		SpawnMinX:       SpawnMinX,
		SpawnMaxX:       SpawnMaxX,
		SpawnMinY:       SpawnMinY,
		SpawnMaxY:       SpawnMaxY,
	}
}

// clampToArena keeps a player inside [margin, size-margin] on both axes.
func (t Tuning) clampToArena(x, y float64) (float64, float64) {
	return clamp(x, t.Margin, t.Width-t.Margin), clamp(y, t.Margin, t.Height-t.Margin)
}

// outOfBounds reports whether a projectile has left [0,W]x[0,H].
func (t Tuning) outOfBounds(x, y float64) bool {
	return x < 0 || x > t.Width || y < 0 || y > t.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
