package scripting

import (
	"embed"
	"fmt"
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/data"
)

// Builtin selects the intent script shipped with the binary.
const Builtin = "builtin"

//go:embed scripts/*.lua
var scripts embed.FS

// Engine wraps a single gopher-lua VM running the enemy intent policy.
// Single-goroutine access only; the scheduler keeps intent generation in a
// batch of its own through the Script resource.
type Engine struct {
	vm       *lua.LState
	enemies  *data.EnemyTable
	fallback *data.TablePolicy
	log      *zap.Logger
}

// NewEngine creates a Lua VM and loads the intent script. path is either
// Builtin or a .lua file on disk. Any failure inside choose_intent falls
// back to the weighted table policy.
func NewEngine(path string, enemies *data.EnemyTable, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("random_int", vm.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(rng.IntN(n)))
		return 1
	}))

	e := &Engine{
		vm:       vm,
		enemies:  enemies,
		fallback: data.NewTablePolicy(enemies, rng),
		log:      log,
	}
	if err := e.load(path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load intent script: %w", err)
	}
	if vm.GetGlobal("choose_intent") == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("intent script %s does not define choose_intent", path)
	}
	return e, nil
}

func (e *Engine) load(path string) error {
	if path == Builtin {
		src, err := scripts.ReadFile("scripts/intent.lua")
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load builtin: %w", err)
		}
		e.log.Debug("loaded lua script", zap.String("file", "builtin:intent.lua"))
		return nil
	}
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// ChooseIntent calls Lua choose_intent(ctx) and returns the declared intent.
func (e *Engine) ChooseIntent(ctx data.IntentContext) component.Intent {
	fn := e.vm.GetGlobal("choose_intent")
	if fn == lua.LNil {
		e.log.Error("lua function choose_intent not found")
		return e.fallback.ChooseIntent(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("enemy", lua.LString(ctx.Enemy.String()))
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("round", lua.LNumber(ctx.Round))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("hero_health", lua.LNumber(ctx.HeroHealth))

	opts := e.vm.NewTable()
	if def := e.enemies.Get(ctx.Enemy); def != nil {
		for i, o := range def.Intents {
			row := e.vm.NewTable()
			row.RawSetString("kind", lua.LString(o.Kind.String()))
			row.RawSetString("amount", lua.LNumber(o.Amount))
			row.RawSetString("weight", lua.LNumber(o.Weight))
			opts.RawSetInt(i+1, row)
		}
	}
	t.RawSetString("options", opts)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua choose_intent error", zap.Error(err), zap.String("enemy", ctx.Name))
		return e.fallback.ChooseIntent(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua choose_intent returned non-table", zap.String("enemy", ctx.Name))
		return e.fallback.ChooseIntent(ctx)
	}
	kind, err := component.ParseIntentKind(lStr(rt, "kind"))
	if err != nil {
		e.log.Error("lua choose_intent returned bad kind", zap.Error(err), zap.String("enemy", ctx.Name))
		return e.fallback.ChooseIntent(ctx)
	}
	amount := lInt(rt, "amount")
	if amount < 0 {
		amount = 0
	}
	return component.Intent{Type: kind, Magnitude: amount}
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
