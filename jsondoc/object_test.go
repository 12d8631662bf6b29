package jsondoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entityText = `{
	"id": "Base",
	"components": [
		{"$type": "TransformInfo", "position": "0 0 0", "enabled": true},
		{"$type": "CollisionBoxInfo", "halfExtent": "1 1 1", "extra": {"weight": 2.5}}
	]
}`

func TestObject_FindProperty(t *testing.T) {
	root := MustParse(entityText)

	id, ok := root.FindProperty("id", Ordinal)
	require.True(t, ok)
	s, ok := id.AsString()
	assert.True(t, ok)
	assert.Equal(t, "Base", s)

	_, ok = root.FindProperty("ID", Ordinal)
	assert.False(t, ok, "ordinal lookup must be case sensitive")

	_, ok = root.FindProperty("ID", IgnoreCase)
	assert.True(t, ok)

	_, ok = root.FindProperty("missing", IgnoreCase)
	assert.False(t, ok)
}

func TestObject_FindArrayAndChild(t *testing.T) {
	root := MustParse(entityText)

	comps, ok := root.FindArray("components", Ordinal)
	require.True(t, ok)
	require.Equal(t, 2, comps.Len())

	box, _ := comps.At(1)
	extra, ok := box.FindChild("extra", Ordinal)
	require.True(t, ok)
	assert.Same(t, box, extra.Parent())

	w, ok := extra.FindProperty("weight", Ordinal)
	require.True(t, ok)
	n, _ := w.AsNumber()
	assert.Equal(t, 2.5, n)

	_, ok = root.FindArray("nope", Ordinal)
	assert.False(t, ok)
}

func TestObject_ParentBackReferences(t *testing.T) {
	root := MustParse(entityText)
	comps, _ := root.FindArray("components", Ordinal)

	for _, e := range comps.Elements() {
		assert.Same(t, root, e.Parent())
		assert.Same(t, comps, e.Owner())
	}
	assert.Same(t, root, comps.Parent())
}

func TestObject_MoveBetweenTrees(t *testing.T) {
	a := MustParse(`{"components": [{"$type": "A"}, {"$type": "B"}, {"$type": "C"}]}`)
	b := MustParse(`{"components": [{"$type": "X"}]}`)
	aComps, _ := a.FindArray("components", Ordinal)
	bComps, _ := b.FindArray("components", Ordinal)

	moved, _ := aComps.At(1)
	bComps.Insert(0, moved)

	assert.Equal(t, 2, aComps.Len())
	assert.Equal(t, 2, bComps.Len())
	assert.Same(t, b, moved.Parent())
	assert.Same(t, bComps, moved.Owner())

	first, _ := aComps.At(0)
	second, _ := aComps.At(1)
	assert.Equal(t, "A", typeName(first))
	assert.Equal(t, "C", typeName(second))

	moved.Detach()
	assert.Nil(t, moved.Parent())
	assert.Equal(t, 1, bComps.Len())
}

func TestObject_ChildMoveRewiresParent(t *testing.T) {
	a := NewObject("a")
	b := NewObject("b")
	c := NewObject("c")

	a.AddChild(c)
	assert.Same(t, a, c.Parent())

	b.AddChild(c)
	assert.Same(t, b, c.Parent())
	assert.Empty(t, a.Children())
	assert.Equal(t, 1, len(b.Children()))
}

func TestObject_AttachBeneathItselfPanics(t *testing.T) {
	a := NewObject("a")
	b := NewObject("b")
	a.AddChild(b)

	assert.Panics(t, func() { b.AddChild(a) })
}

func TestArray_InsertRemovePreservesOrder(t *testing.T) {
	arr := NewArray("items",
		MustParse(`{"n": "A"}`),
		MustParse(`{"n": "B"}`),
		MustParse(`{"n": "C"}`),
	)

	for i := 0; i < 3; i++ {
		e, _ := arr.At(i)
		got, ok := arr.RemoveAt(i)
		require.True(t, ok)
		assert.Same(t, e, got)
		assert.Nil(t, got.Owner())

		arr.Insert(i, got)
		assert.Equal(t, []string{"A", "B", "C"}, names(arr))
	}

	_, ok := arr.RemoveAt(3)
	assert.False(t, ok)
	assert.Equal(t, -1, arr.Remove(NewObject("stranger")))
}

func TestObject_CloneIsIndependent(t *testing.T) {
	orig := MustParse(entityText)
	clone := orig.Clone()

	require.True(t, orig.Equal(clone))
	assert.Nil(t, clone.Parent())

	comps, _ := clone.FindArray("components", Ordinal)
	tr, _ := comps.At(0)
	pos, _ := tr.FindProperty("position", Ordinal)
	pos.SetString("5 5 5")

	box, _ := comps.At(1)
	extra, _ := box.FindChild("extra", Ordinal)
	w, _ := extra.FindProperty("weight", Ordinal)
	w.SetNumber(9)

	origComps, _ := orig.FindArray("components", Ordinal)
	origTr, _ := origComps.At(0)
	origPos, _ := origTr.StringProperty("position")
	assert.Equal(t, "0 0 0", origPos)

	origBox, _ := origComps.At(1)
	origExtra, _ := origBox.FindChild("extra", Ordinal)
	origW, _ := origExtra.FindProperty("weight", Ordinal)
	n, _ := origW.AsNumber()
	assert.Equal(t, 2.5, n)

	assert.False(t, orig.Equal(clone))
	assert.Same(t, comps, tr.Owner())
	assert.Same(t, clone, tr.Parent())
}

func TestValue_KindTracksPayload(t *testing.T) {
	v := NewString("x", "hello")
	assert.Equal(t, KindString, v.Kind())

	v.SetNumber(3)
	assert.Equal(t, KindNumber, v.Kind())
	_, ok := v.AsString()
	assert.False(t, ok)

	v.SetBool(true)
	assert.Equal(t, KindTrue, v.Kind())
	v.SetBool(false)
	assert.Equal(t, KindFalse, v.Kind())
	b, ok := v.AsBool()
	assert.True(t, ok)
	assert.False(t, b)

	v.SetNull()
	assert.True(t, v.IsNull())
	assert.Nil(t, v.Interface())

	other := NewString("y", "copied")
	v.Assign(other)
	assert.Equal(t, "x", v.Name())
	assert.Equal(t, "copied", v.Text())
}

func TestObject_SetStringAddsOrOverwrites(t *testing.T) {
	o := NewObject("")
	o.SetString("parentId", "A")
	o.SetString("parentId", "B")

	assert.Len(t, o.Properties(), 1)
	got, _ := o.StringProperty("parentId")
	assert.Equal(t, "B", got)

	p, _ := o.FindProperty("parentId", Ordinal)
	assert.Equal(t, 0, o.RemoveProperty(p))
	assert.Nil(t, p.Parent())
	assert.Equal(t, -1, o.RemoveProperty(p))
}

func typeName(o *Object) string {
	s, _ := o.TypeName()
	return s
}

func names(a *Array) []string {
	var out []string
	for _, e := range a.Elements() {
		s, _ := e.StringProperty("n")
		out = append(out, s)
	}
	return out
}
