package applescene

import (
	"reflect"
	"slices"
)

// Queries visit matching entities in ascending entity id order so that
// anything derived from them (listings, world transforms) is deterministic.
type Query1[A any] struct{ world *World }
type Query2[A, B any] struct{ world *World }

func MakeQuery1[A any](w *World) Query1[A]       { return Query1[A]{world: w} }
func MakeQuery2[A, B any](w *World) Query2[A, B] { return Query2[A, B]{world: w} }

// Map calls m for each entity carrying A. Returning false stops the walk.
// The pointer is only valid for the duration of the call.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1, ok := q.world.componentTypeIdMap[reflect.TypeFor[A]()]
	if !ok {
		return
	}

	for _, eid := range q.world.sortedEntities() {
		arch := q.world.archetypes[q.world.entityIndex[eid]]
		data1, ok := arch.componentData[id1]
		if !ok {
			continue
		}
		r := arch.entities[eid]
		if !m(eid, &data1.([]A)[r]) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1, ok1 := q.world.componentTypeIdMap[reflect.TypeFor[A]()]
	id2, ok2 := q.world.componentTypeIdMap[reflect.TypeFor[B]()]
	if !ok1 || !ok2 {
		return
	}

	for _, eid := range q.world.sortedEntities() {
		arch := q.world.archetypes[q.world.entityIndex[eid]]
		data1, ok := arch.componentData[id1]
		if !ok {
			continue
		}
		data2, ok := arch.componentData[id2]
		if !ok {
			continue
		}
		r := arch.entities[eid]
		if !m(eid, &data1.([]A)[r], &data2.([]B)[r]) {
			return
		}
	}
}

func (w *World) sortedEntities() []EntityId {
	ids := make([]EntityId, 0, len(w.entityIndex))
	for eid := range w.entityIndex {
		ids = append(ids, eid)
	}
	slices.Sort(ids)
	return ids
}
