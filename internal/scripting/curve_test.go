package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wizardry/internal/scripting"
)

// TestLoadCurve_Linear verifies a simple scripted curve evaluates correctly.
func TestLoadCurve_Linear(t *testing.T) {
	curve, err := scripting.LoadCurve(`function threshold(level) return level * 100 end`)
	require.NoError(t, err)

	assert.Equal(t, 100, curve(1))
	assert.Equal(t, 500, curve(5))
	assert.Equal(t, 100000, curve(1000))
}

// TestLoadCurve_NonlinearScript verifies script arithmetic beyond the stock
// shape works.
func TestLoadCurve_NonlinearScript(t *testing.T) {
	curve, err := scripting.LoadCurve(`function threshold(level) return 50 * level * level + 50 * level end`)
	require.NoError(t, err)

	assert.Equal(t, 100, curve(1))
	assert.Equal(t, 300, curve(2))
	assert.Equal(t, 600, curve(3))
}

// TestLoadCurve_ExtrapolatesBeyondTable verifies levels past the evaluated
// table extend linearly by the last step, staying strictly increasing.
func TestLoadCurve_ExtrapolatesBeyondTable(t *testing.T) {
	curve, err := scripting.LoadCurve(`function threshold(level) return level * 100 end`)
	require.NoError(t, err)

	last := curve(scripting.MaxScriptedLevel)
	assert.Equal(t, last+100, curve(scripting.MaxScriptedLevel+1))
	assert.Equal(t, last+500, curve(scripting.MaxScriptedLevel+5))
}

// TestLoadCurve_RejectsNonIncreasing verifies a flat curve is a
// configuration error.
func TestLoadCurve_RejectsNonIncreasing(t *testing.T) {
	_, err := scripting.LoadCurve(`function threshold(level) return 100 end`)
	assert.Error(t, err)
}

// TestLoadCurve_RejectsNonPositive verifies zero or negative thresholds fail.
func TestLoadCurve_RejectsNonPositive(t *testing.T) {
	_, err := scripting.LoadCurve(`function threshold(level) return level - 1 end`)
	assert.Error(t, err)
}

// TestLoadCurve_MissingFunction verifies a script without threshold() fails.
func TestLoadCurve_MissingFunction(t *testing.T) {
	_, err := scripting.LoadCurve(`x = 42`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

// TestLoadCurve_SyntaxError verifies broken Lua is reported.
func TestLoadCurve_SyntaxError(t *testing.T) {
	_, err := scripting.LoadCurve(`function threshold(level`)
	assert.Error(t, err)
}

// TestLoadCurve_NonNumberReturn verifies a non-numeric threshold fails.
func TestLoadCurve_NonNumberReturn(t *testing.T) {
	_, err := scripting.LoadCurve(`function threshold(level) return "a lot" end`)
	assert.Error(t, err)
}

// TestLoadCurve_SandboxBlocksIO verifies the sandbox strips filesystem and
// loader primitives from curve scripts.
func TestLoadCurve_SandboxBlocksIO(t *testing.T) {
	_, err := scripting.LoadCurve(`
		function threshold(level)
			local f = io.open("/etc/passwd")
			return level * 100
		end
	`)
	assert.Error(t, err, "io must not be available to curve scripts")

	_, err = scripting.LoadCurve(`
		function threshold(level)
			dofile("other.lua")
			return level * 100
		end
	`)
	assert.Error(t, err, "dofile must not be available to curve scripts")
}

// TestLoadCurve_InstructionLimit verifies a runaway script is cut off
// instead of hanging the loader.
func TestLoadCurve_InstructionLimit(t *testing.T) {
	_, err := scripting.LoadCurve(`function threshold(level) while true do end end`)
	assert.Error(t, err)
}

// TestLoadCurveFromFile round-trips a script through the filesystem.
func TestLoadCurveFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function threshold(level) return level * 100 end`), 0o644))

	curve, err := scripting.LoadCurveFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 300, curve(3))
}

// TestLoadCurveFromFile_Missing verifies a missing script path is an error.
func TestLoadCurveFromFile_Missing(t *testing.T) {
	_, err := scripting.LoadCurveFromFile(filepath.Join(t.TempDir(), "nope.lua"))
	assert.Error(t, err)
}

// TestLoadCurveFromFile_ShippedScript loads the repository's stock curve.
func TestLoadCurveFromFile_ShippedScript(t *testing.T) {
	curve, err := scripting.LoadCurveFromFile("../../content/scripts/levels.lua")
	require.NoError(t, err)
	assert.Equal(t, 100, curve(1))
}
