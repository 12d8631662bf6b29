package applescene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const childWithParent = `{"id": "Wheel", "components": [
	{"$type": "TransformInfo", "position": "1 0 0"},
	{"$type": "ParentInfo", "parentId": "Base"}
]}`

func TestAssignParent_CreatesAndRemovesParentInfo(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity)
	crate, base := mustEntity(t, ed, "Crate"), mustEntity(t, ed, "Base")
	before := crate.Doc.Clone()

	require.NoError(t, ed.AssignParent("Crate", "Base"))
	info, _, ok := crate.FindComponent(ParentType)
	require.True(t, ok)
	assert.Equal(t, "Base", property(t, info, fieldParentID))
	assert.Same(t, base.Button, crate.Button.Parent())
	p, ok := Get[ParentInfo](ed.World, crate.Handle)
	require.True(t, ok)
	assert.Equal(t, "Base", p.ParentID)
	assert.Equal(t, 3, crate.Panel.Len())

	require.True(t, ed.Undo())
	assert.True(t, crate.Doc.Equal(before))
	assert.Same(t, ed.EntitiesPanel, crate.Button.Parent())
	assert.Equal(t, 1, ed.EntitiesPanel.IndexOf(crate.Button), "button returns to its old slot")
	assert.False(t, Has[ParentInfo](ed.World, crate.Handle))
	assert.Equal(t, 2, crate.Panel.Len())
}

func TestAssignParent_RewritesExistingParentInfo(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity, childWithParent)
	wheel, crate := mustEntity(t, ed, "Wheel"), mustEntity(t, ed, "Crate")
	require.Same(t, mustEntity(t, ed, "Base").Button, wheel.Button.Parent())

	require.NoError(t, ed.AssignParent("Wheel", "Crate"))
	assert.Equal(t, []string{"TransformInfo", "ParentInfo"}, componentTypes(wheel))
	info, _, _ := wheel.FindComponent(ParentType)
	assert.Equal(t, "Crate", property(t, info, fieldParentID))
	assert.Same(t, crate.Button, wheel.Button.Parent())

	require.True(t, ed.Undo())
	info, _, _ = wheel.FindComponent(ParentType)
	assert.Equal(t, "Base", property(t, info, fieldParentID))
	assert.Same(t, mustEntity(t, ed, "Base").Button, wheel.Button.Parent())
	p, _ := Get[ParentInfo](ed.World, wheel.Handle)
	assert.Equal(t, "Base", p.ParentID)
}

func TestAssignParent_Idempotent(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity)
	crate := mustEntity(t, ed, "Crate")

	cmd, err := NewAssignParentToEntityCommand(ed, crate, "Base")
	require.NoError(t, err)
	cmd.Execute()
	cmd.Execute()

	assert.Equal(t, []string{"TransformInfo", "CollisionBoxInfo", "ParentInfo"}, componentTypes(crate))
	info, _, _ := crate.FindComponent(ParentType)
	assert.Equal(t, "Base", property(t, info, fieldParentID))

	cmd.Undo()
	assert.Equal(t, []string{"TransformInfo", "CollisionBoxInfo"}, componentTypes(crate))
}

func TestAssignParent_IdempotentOnExisting(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity, childWithParent)
	wheel := mustEntity(t, ed, "Wheel")

	cmd, err := NewAssignParentToEntityCommand(ed, wheel, "Crate")
	require.NoError(t, err)
	cmd.Execute()
	cmd.Execute()
	info, _, _ := wheel.FindComponent(ParentType)
	assert.Equal(t, "Crate", property(t, info, fieldParentID))

	cmd.Undo()
	assert.Equal(t, "Base", property(t, info, fieldParentID), "second execute does not overwrite the cached id")
}

func TestAssignParent_RejectsCycles(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity, childWithParent)

	_, err := NewAssignParentToEntityCommand(ed, mustEntity(t, ed, "Base"), "Base")
	assert.ErrorIs(t, err, ErrParentCycle)

	// Wheel is Base's child, so Base may not go under Wheel.
	assert.ErrorIs(t, ed.AssignParent("Base", "Wheel"), ErrParentCycle)
	assert.ErrorIs(t, ed.AssignParent("Base", "Ghost"), ErrNotFound)
	assert.Equal(t, 0, ed.Stream.Len())
}
