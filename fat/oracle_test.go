package fat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinyfat/msdosfsck/fat"
)

func TestAutoOracle_AlwaysDefault(t *testing.T) {
	o := fat.AutoOracle{}
	assert.True(t, o.Ask(true, "fix?"))
	assert.False(t, o.Ask(false, "fix?"))
}

func TestScriptedOracle_ReplaysThenFallsBackToDefault(t *testing.T) {
	o := &fat.ScriptedOracle{Answers: []bool{true, false}}
	assert.True(t, o.Ask(false, "a"))
	assert.False(t, o.Ask(true, "b"))
	assert.True(t, o.Ask(true, "c")) // exhausted, falls back to default
	assert.Equal(t, 3, o.Calls())
	assert.Equal(t, []string{"a", "b", "c"}, o.Prompts)
}

func TestInteractiveOracle_ParsesYesNoAndDefaults(t *testing.T) {
	var out strings.Builder
	o := fat.InteractiveOracle{In: strings.NewReader("y\n"), Out: &out}
	assert.True(t, o.Ask(false, "fix"))
	assert.Contains(t, out.String(), "fix?")

	o2 := fat.InteractiveOracle{In: strings.NewReader("\n"), Out: &out}
	assert.True(t, o2.Ask(true, "fix"))

	o3 := fat.InteractiveOracle{In: strings.NewReader(""), Out: &out}
	assert.False(t, o3.Ask(false, "fix"))
}
