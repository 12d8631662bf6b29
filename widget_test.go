package applescene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

func TestWidget_Tree(t *testing.T) {
	root := NewWidget(KindStackPanel, "root", "")
	a := NewWidget(KindButton, "a", "A")
	b := NewWidget(KindButton, "b", "B")
	c := NewWidget(KindLabel, "", "C")
	assert.NotEmpty(t, c.ID)

	root.AddChild(a)
	root.AddChild(b)
	root.InsertChild(0, c)
	assert.Equal(t, []*Widget{c, a, b}, root.Children())
	assert.Len(t, root.ChildrenOfKind(KindButton), 2)

	// reparenting detaches from the old parent
	a.AddChild(b)
	assert.Equal(t, 2, root.Len())
	assert.Same(t, a, b.Parent())

	found, ok := root.FindByID("b")
	require.True(t, ok)
	assert.Same(t, b, found)

	root.InsertChild(99, NewWidget(KindLabel, "end", ""))
	last, _ := root.ChildAt(root.Len() - 1)
	assert.Equal(t, "end", last.ID)

	assert.Equal(t, -1, root.RemoveChild(b))
	b.Detach()
	assert.Nil(t, b.Parent())
	assert.Equal(t, 0, a.Len())
	_, ok = root.ChildAt(-1)
	assert.False(t, ok)
}

func TestWidgetViews_ComponentGrid(t *testing.T) {
	comp := jsondoc.MustParse(`{"$type": "Game.PathInfo, Game", "speed": "2",
		"points": [{"at": "0 0 0"}, {"at": "1 0 0"}]}`)
	views := NewWidgetViews()

	grid := views.BuildComponentWidget(comp)
	assert.Equal(t, KindGrid, grid.Kind)
	require.Equal(t, 3, grid.Len())

	header, _ := grid.ChildAt(0)
	assert.Equal(t, "PathInfo", header.Text)
	box, _ := grid.ChildAt(1)
	assert.Equal(t, "speed: 2", box.Text)

	points, _ := comp.FindArray("points", jsondoc.Ordinal)
	panel, ok := views.ArrayPanel(points)
	require.True(t, ok)
	assert.Same(t, grid, panel.Parent())
	assert.Equal(t, points.Len(), panel.Len())

	views.Forget(comp)
	_, ok = views.ArrayPanel(points)
	assert.False(t, ok)
}

func TestEditor_WidgetLayout(t *testing.T) {
	ed, _, _ := newTestEditor(t, baseEntity, boxEntity, childWithParent)

	assert.Equal(t, 2, ed.Root.Len())
	entities, ok := ed.Root.FindByID(EntitiesWidgetID)
	require.True(t, ok)
	assert.Same(t, ed.EntitiesPanel, entities)

	// Wheel hangs under Base's button.
	base, ok := ed.Root.FindByID("Base")
	require.True(t, ok)
	assert.Same(t, mustEntity(t, ed, "Base").Button, base)
	assert.Equal(t, 2, ed.EntitiesPanel.Len())
	assert.Equal(t, 1, base.Len())

	crate := mustEntity(t, ed, "Crate")
	assert.Equal(t, 2, crate.Panel.Len(), "one grid per component")

	ed.Select(crate)
	assert.Same(t, crate, ed.Selected())
	assert.Equal(t, []*Widget{crate.Panel}, ed.Inspector.Children())
	ed.Select(mustEntity(t, ed, "Base"))
	assert.Len(t, ed.Inspector.Children(), 1)
	assert.Nil(t, crate.Panel.Parent())
	ed.Select(nil)
	assert.Equal(t, 0, ed.Inspector.Len())
}
