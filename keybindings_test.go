package applescene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("redo: LeftControl LeftShift Z")
	require.NoError(t, err)
	assert.Equal(t, ActionRedo, b.Action)
	assert.Equal(t, []Key{KeyControl, KeyShift, KeyZ}, b.Keys)

	b, err = ParseBinding("  CAMERAFORWARD :  w  ")
	require.NoError(t, err)
	assert.Equal(t, ActionCameraForward, b.Action)
	assert.Equal(t, []Key{KeyW}, b.Keys)

	b, err = ParseBinding("save: LeftControl RightControl S")
	require.NoError(t, err)
	assert.Equal(t, []Key{KeyControl, KeyS}, b.Keys, "folded modifiers are deduplicated")

	for _, line := range []string{
		"save LeftControl S",
		"explode: X",
		"save: Hyper S",
		"save:",
	} {
		_, err := ParseBinding(line)
		assert.ErrorIs(t, err, ErrMalformedBinding, line)
	}
}

func TestParseKeymap_SkipsMalformedLines(t *testing.T) {
	log := &recordLogger{}
	m, err := ParseKeymap([]byte(`
# editor keys
save: LeftControl S
bogus line
undo: LeftControl Z
undo: LeftControl U
`), log)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedBinding)
	assert.Contains(t, err.Error(), "line 4")
	assert.True(t, log.contains("WARN", "line 4"))

	require.Len(t, m.Bindings(), 2)
	undo, ok := m.Binding(ActionUndo)
	require.True(t, ok)
	assert.Equal(t, []Key{KeyControl, KeyU}, undo.Keys, "later lines replace earlier ones")
}

func TestLoadKeymap_Missing(t *testing.T) {
	_, err := LoadKeymap(newMemFS(), "/nope/keys.txt", nil)
	assert.ErrorIs(t, err, ErrResourceMissing)
	assert.True(t, IsFatal(err))
}

func TestDefaultKeymap_CoversCatalog(t *testing.T) {
	m := DefaultKeymap()
	for _, a := range Actions {
		_, ok := m.Binding(a)
		assert.True(t, ok, "no default binding for %s", a)
	}
}

func TestKeymap_Intents(t *testing.T) {
	m := DefaultKeymap()

	t.Run("discrete fires once", func(t *testing.T) {
		var in Input
		in.Press(KeyControl, KeyZ)
		assert.Equal(t, []Action{ActionUndo}, m.Intents(&in).Actions)

		in.EndFrame()
		assert.Empty(t, m.Intents(&in).Actions, "held chord does not repeat")
	})

	t.Run("longer chord wins", func(t *testing.T) {
		var in Input
		in.Press(KeyControl, KeyShift, KeyZ)
		assert.Equal(t, []Action{ActionRedo}, m.Intents(&in).Actions)
	})

	t.Run("modifier held before key", func(t *testing.T) {
		var in Input
		in.Press(KeyControl)
		in.EndFrame()
		in.Press(KeyS)
		intents := m.Intents(&in)
		assert.Equal(t, []Action{ActionSave}, intents.Actions)
		assert.Equal(t, mgl32.Vec3{}, intents.CameraMove, "ctrl+s does not move the camera")
	})

	t.Run("camera is continuous", func(t *testing.T) {
		var in Input
		in.Press(KeyW, KeyD)
		in.EndFrame()
		intents := m.Intents(&in)
		assert.True(t, intents.Has(ActionCameraForward))
		assert.True(t, intents.Has(ActionCameraRight))
		assert.Equal(t, mgl32.Vec3{1, 0, 1}, intents.CameraMove)

		in.Release(KeyW)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Intents(&in).CameraMove)
	})
}

func TestInput_Edges(t *testing.T) {
	var in Input
	in.Press(KeyA)
	assert.True(t, in.Pressed[KeyA])
	assert.True(t, in.JustPressed[KeyA])

	in.EndFrame()
	in.Press(KeyA)
	assert.False(t, in.JustPressed[KeyA], "still held")

	in.Release(KeyA)
	assert.True(t, in.JustReleased[KeyA])
	assert.False(t, in.Pressed[KeyA])

	in.Press(Key(-1), keyCount)
}

func TestParseKey(t *testing.T) {
	for name, want := range map[string]Key{
		"A": KeyA, "d5": Key5, "LeftShift": KeyShift, "Delete": KeyDelete, "F12": KeyF12,
	} {
		k, ok := ParseKey(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, k, name)
	}
	_, ok := ParseKey("Hyper")
	assert.False(t, ok)
}
