package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solanharrison/stickman-fps-server/internal/world"
)

type spawnBox struct {
	MinX *float64 `yaml:"min_x"`
	MaxX *float64 `yaml:"max_x"` // exclusive
	MinY *float64 `yaml:"min_y"`
	MaxY *float64 `yaml:"max_y"` // exclusive
}

// arenaFile mirrors data/yaml/arena.yaml. Absent keys keep the built-in value.
type arenaFile struct {
	Width           *float64 `yaml:"width"`
	Height          *float64 `yaml:"height"`
	Margin          *float64 `yaml:"margin"`
	MoveStep        *float64 `yaml:"move_step"`
	ProjectileSpeed *float64 `yaml:"projectile_speed"`
	HitRadius       *float64 `yaml:"hit_radius"`
	Damage          *int     `yaml:"damage"`
	MaxHealth       *int     `yaml:"max_health"`
	Spawn           spawnBox `yaml:"spawn"`
}

// LoadArenaTuning overlays the YAML file at path onto world.DefaultTuning.
// A missing file yields the defaults.
func LoadArenaTuning(path string) (world.Tuning, error) {
	t := world.DefaultTuning()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read arena tuning: %w", err)
	}
	var f arenaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return t, fmt.Errorf("parse arena tuning: %w", err)
	}

	setF(&t.Width, f.Width)
	setF(&t.Height, f.Height)
	setF(&t.Margin, f.Margin)
	setF(&t.MoveStep, f.MoveStep)
	setF(&t.ProjectileSpeed, f.ProjectileSpeed)
	setF(&t.HitRadius, f.HitRadius)
	setI(&t.Damage, f.Damage)
	setI(&t.MaxHealth, f.MaxHealth)
	setF(&t.SpawnMinX, f.Spawn.MinX)
	setF(&t.SpawnMaxX, f.Spawn.MaxX)
	setF(&t.SpawnMinY, f.Spawn.MinY)
	setF(&t.SpawnMaxY, f.Spawn.MaxY)

	if err := validate(t); err != nil {
		return world.DefaultTuning(), fmt.Errorf("arena tuning %s: %w", path, err)
	}
	return t, nil
}

func validate(t world.Tuning) error {
	switch {
	case t.Width <= 2*t.Margin || t.Height <= 2*t.Margin:
		return fmt.Errorf("arena %gx%g too small for margin %g", t.Width, t.Height, t.Margin)
	case t.MaxHealth <= 0:
		return fmt.Errorf("max_health must be positive")
	case t.HitRadius <= 0:
		return fmt.Errorf("hit_radius must be positive")
	case t.SpawnMaxX <= t.SpawnMinX || t.SpawnMaxY <= t.SpawnMinY:
		return fmt.Errorf("empty spawn box")
	}
	return nil
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setI(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
