package applescene

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_NewWorld(t *testing.T) {
	w := NewWorld()

	if len(w.archetypes) != 0 {
		t.Errorf("Expected archetypes to be empty, got %v", w.archetypes)
	}
	if w.Len() != 0 {
		t.Errorf("Expected no entities, got %d", w.Len())
	}
	if w.entityIdCounter != 0 {
		t.Errorf("Expected entityIdCounter to be 0, got %v", w.entityIdCounter)
	}
}

func TestWorld_CreateEntity(t *testing.T) {
	type TestComponent struct{ x string }

	w := NewWorld()
	empty := w.CreateEntity()
	withComp := w.CreateEntity(TestComponent{x: "test"})

	assert.True(t, w.Alive(empty))
	assert.True(t, w.Alive(withComp))
	assert.NotEqual(t, w.entityIndex[empty], w.entityIndex[withComp],
		"entities with different components ended up in the same archetype")

	got, ok := Get[TestComponent](w, withComp)
	require.True(t, ok)
	assert.Equal(t, "test", got.x)
}

func TestWorld_SetAddsAndReplaces(t *testing.T) {
	type A struct{ a int }
	type B struct{ b string }

	w := NewWorld()
	eid := w.CreateEntity(A{a: 1})

	require.True(t, w.Set(eid, &B{b: "hello"}))
	assert.True(t, Has[A](w, eid))
	assert.True(t, Has[B](w, eid))

	require.True(t, w.Set(eid, A{a: 42}))
	a, _ := Get[A](w, eid)
	assert.Equal(t, 42, a.a)
	b, _ := Get[B](w, eid)
	assert.Equal(t, "hello", b.b)

	assert.Len(t, w.Components(eid), 2)
}

func TestWorld_Remove(t *testing.T) {
	type A struct{ a int }
	type B struct{ b string }
	type C struct{}

	w := NewWorld()
	eid := w.CreateEntity(A{a: 7}, B{b: "x"})

	require.True(t, w.Remove(eid, B{}))
	assert.False(t, Has[B](w, eid))
	a, ok := Get[A](w, eid)
	require.True(t, ok)
	assert.Equal(t, 7, a.a)

	// Removing a type the entity never had is a no-op.
	require.True(t, w.Remove(eid, C{}))
	assert.True(t, Has[A](w, eid))
}

func TestWorld_DisposeEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	w := NewWorld()
	id := w.CreateEntity(Position{1, 2})
	other := w.CreateEntity(Position{3, 4})

	assert.True(t, w.DisposeEntity(id))
	assert.False(t, w.Alive(id))
	assert.False(t, w.DisposeEntity(id))
	assert.False(t, w.Set(id, Position{}))
	assert.Nil(t, w.Components(id))

	// The recycled row is reused without disturbing the survivor.
	reborn := w.CreateEntity(Position{5, 6})
	assert.NotEqual(t, id, reborn)
	p, _ := Get[Position](w, other)
	assert.Equal(t, Position{3, 4}, p)
	p, _ = Get[Position](w, reborn)
	assert.Equal(t, Position{5, 6}, p)
}

func TestWorld_InvalidComponentPanics(t *testing.T) {
	w := NewWorld()
	assert.Panics(t, func() { w.CreateEntity(123) })
}

func TestWorld_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	w := NewWorld()
	id1 := w.getComponentId(reflect.TypeOf(Position{}))
	id2 := w.getComponentId(reflect.TypeOf(Position{}))
	assert.Equal(t, id1, id2)
	assert.Equal(t, reflect.TypeOf(Position{}), w.componentIdTypeMap[id1])
}

func TestWorld_ArchetypeKeys(t *testing.T) {
	assert.Equal(t, archetypeKey{1, 2, 3}, dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3}))
	assert.Equal(t, archetypeKey{1, 2, 3, 4}, combineArchetypeKeys([]componentId{1, 2, 3}, []componentId{4, 3, 2, 1}))
}

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	w := NewWorld()
	w.CreateEntity(Comp1{a: 1})
	id2 := w.CreateEntity(Comp1{a: 2}, Comp2{b: 1.37})
	id3 := w.CreateEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{})
	w.CreateEntity(Comp1{a: 4}, Comp3{})
	w.CreateEntity(Comp2{b: 3.14})

	var ids []EntityId
	var as []int
	MakeQuery2[Comp1, Comp2](w).Map(func(eid EntityId, c1 *Comp1, c2 *Comp2) bool {
		ids = append(ids, eid)
		as = append(as, c1.a)
		return true
	})
	assert.Equal(t, []EntityId{id2, id3}, ids)
	assert.Equal(t, []int{2, 3}, as)

	count := 0
	MakeQuery1[Comp1](w).Map(func(eid EntityId, c *Comp1) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count, "returning false must stop the walk")
}
