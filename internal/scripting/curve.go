package scripting

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/wizardry/internal/game/leveling"
)

// MaxScriptedLevel is how far a scripted threshold curve is evaluated. The
// whole table is computed eagerly so the Lua VM can be closed before the
// curve is used; levels beyond the table extend linearly by the last step,
// which preserves strict monotonicity.
const MaxScriptedLevel = 1000

// LoadCurveFromFile reads a Lua script defining `function threshold(level)`
// and returns it as a validated leveling.Curve.
//
// Precondition: path must point to a readable Lua file.
// Postcondition: Returns a curve that passed leveling.ValidateCurve over
// [1, MaxScriptedLevel], or a non-nil error (including for non-increasing
// curves, which are configuration errors).
func LoadCurveFromFile(path string) (leveling.Curve, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading curve script %s: %w", path, err)
	}
	return LoadCurve(string(src))
}

// LoadCurve compiles a Lua chunk defining `function threshold(level)` and
// evaluates it for every level in [1, MaxScriptedLevel].
//
// Postcondition: The returned curve is total, positive, and strictly
// increasing; the Lua VM is closed before returning.
func LoadCurve(src string) (leveling.Curve, error) {
	L := newSandboxedState(0)
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("evaluating curve script: %w", err)
	}

	fn, ok := L.GetGlobal("threshold").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("curve script must define function threshold(level)")
	}

	table := make([]int, MaxScriptedLevel+1)
	for level := 1; level <= MaxScriptedLevel; level++ {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(level)); err != nil {
			return nil, fmt.Errorf("calling threshold(%d): %w", level, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		num, ok := ret.(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("threshold(%d) returned %s, want number", level, ret.Type())
		}
		table[level] = int(num)
	}

	lastStep := table[MaxScriptedLevel] - table[MaxScriptedLevel-1]
	curve := leveling.Curve(func(level int) int {
		if level < 1 {
			level = 1
		}
		if level <= MaxScriptedLevel {
			return table[level]
		}
		return table[MaxScriptedLevel] + (level-MaxScriptedLevel)*lastStep
	})

	if err := leveling.ValidateCurve(curve, MaxScriptedLevel); err != nil {
		return nil, err
	}
	return curve, nil
}
