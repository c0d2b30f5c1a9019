package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// DamageHook is the global Lua function consulted for every projectile hit.
const DamageHook = "calc_projectile_damage"

// Engine wraps a single gopher-lua VM. Calls are serialised by a mutex;
// in practice only the game loop calls in.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads every .lua file in dir in name order.
// A missing dir yields an engine with no hooks.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasHook reports whether a global Lua function with the given name exists.
func (e *Engine) HasHook(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// DamageFunc returns the Lua damage hook as a world.DamageFunc, or nil when
// no script defines it.
func (e *Engine) DamageFunc() world.DamageFunc {
	if !e.HasHook(DamageHook) {
		return nil
	}
	return e.CalcProjectileDamage
}

// CalcProjectileDamage calls calc_projectile_damage(ctx). Any script error or
// a non-numeric result falls back to the base damage.
func (e *Engine) CalcProjectileDamage(ctx world.HitContext) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn, ok := e.vm.GetGlobal(DamageHook).(*lua.LFunction)
	if !ok {
		return ctx.Base
	}

	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("defender_health", lua.LNumber(ctx.DefenderHealth))
	t.RawSetString("owner_kills", lua.LNumber(ctx.OwnerKills))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua "+DamageHook+" error", zap.Error(err))
		return ctx.Base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		e.log.Error("lua "+DamageHook+" returned non-number", zap.String("type", result.Type().String()))
		return ctx.Base
	}
	return clampDamage(float64(n))
}

// clampDamage bounds script output to [0, MaxInt32] before the int conversion.
func clampDamage(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int(v)
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
