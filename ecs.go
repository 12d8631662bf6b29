package applescene

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// World is the live simulation mirror of the scene: an archetype ECS where
// every entity owns at most one component per Go type.
type World struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	entityIdCounter    EntityId
	componentIdCounter componentId
	componentTypeIdMap map[reflect.Type]componentId
	componentIdTypeMap map[componentId]reflect.Type
}

func NewWorld() *World {
	return &World{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // typed slices via reflection
	recycled      []row
}

// CreateEntity allocates a new entity holding the given components. Each
// component must be a struct or a pointer to a struct.
func (w *World) CreateEntity(components ...any) EntityId {
	entityId := w.nextEntityId()
	archId, arch := w.archetypeFor(w.keyOf(components...))

	r := w.reserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		w.writeComponent(arch, r, component)
	}
	w.entityIndex[entityId] = archId
	return entityId
}

// DisposeEntity drops the entity and all its components. Handles are never
// reused, so a disposed entity cannot be brought back.
func (w *World) DisposeEntity(entityId EntityId) bool {
	if !w.Alive(entityId) {
		return false
	}
	w.recycleEntity(entityId)
	return true
}

func (w *World) Alive(entityId EntityId) bool {
	_, ok := w.entityIndex[entityId]
	return ok
}

func (w *World) Len() int {
	return len(w.entityIndex)
}

// Set writes each component, replacing existing ones of the same type and
// moving the entity to a wider archetype for new types.
func (w *World) Set(entityId EntityId, components ...any) bool {
	srcArchId, ok := w.entityIndex[entityId]
	if !ok {
		return false
	}
	srcArch := w.archetypes[srcArchId]
	srcRow := srcArch.entities[entityId]

	dstKey := combineArchetypeKeys(srcArch.key, w.keyOf(components...))
	if slices.Equal(dstKey, srcArch.key) {
		for _, component := range components {
			w.writeComponent(srcArch, srcRow, component)
		}
		return true
	}

	dstArchId, dstArch := w.archetypeFor(dstKey)
	dstRow := w.reserveRow(dstArch)
	w.moveComponents(srcArch, srcRow, dstArch, dstRow)
	for _, component := range components {
		w.writeComponent(dstArch, dstRow, component)
	}

	w.recycleEntity(entityId)
	dstArch.entities[entityId] = dstRow
	w.entityIndex[entityId] = dstArchId
	return true
}

// Remove drops the components whose types match the given values. Types
// the entity does not carry are ignored.
func (w *World) Remove(entityId EntityId, components ...any) bool {
	srcArchId, ok := w.entityIndex[entityId]
	if !ok {
		return false
	}
	srcArch := w.archetypes[srcArchId]
	srcRow := srcArch.entities[entityId]

	removeSet := make(set[componentId])
	for _, c := range components {
		removeSet[w.getComponentId(componentType(c))] = struct{}{}
	}

	var dstKey archetypeKey
	for _, compId := range srcArch.key {
		if _, shouldRemove := removeSet[compId]; !shouldRemove {
			dstKey = append(dstKey, compId)
		}
	}
	if len(dstKey) == len(srcArch.key) {
		return true
	}

	dstArchId, dstArch := w.archetypeFor(dstKey)
	dstRow := w.reserveRow(dstArch)
	w.moveComponents(srcArch, srcRow, dstArch, dstRow)
	w.recycleEntity(entityId)

	dstArch.entities[entityId] = dstRow
	w.entityIndex[entityId] = dstArchId
	return true
}

// Components returns copies of every component the entity carries.
func (w *World) Components(entityId EntityId) []any {
	archId, ok := w.entityIndex[entityId]
	if !ok {
		return nil
	}
	arch := w.archetypes[archId]
	r := arch.entities[entityId]

	res := make([]any, 0, len(arch.key))
	for _, compId := range arch.key {
		res = append(res, reflectSliceGet(arch.componentData[compId], int(r)).Interface())
	}
	return res
}

// Get returns a copy of the entity's component of type T.
func Get[T any](w *World, entityId EntityId) (T, bool) {
	var zero T
	p := lookup[T](w, entityId)
	if p == nil {
		return zero, false
	}
	return *p, true
}

func Has[T any](w *World, entityId EntityId) bool {
	return lookup[T](w, entityId) != nil
}

func lookup[T any](w *World, entityId EntityId) *T {
	archId, ok := w.entityIndex[entityId]
	if !ok {
		return nil
	}
	compId, ok := w.componentTypeIdMap[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	arch := w.archetypes[archId]
	data, ok := arch.componentData[compId]
	if !ok {
		return nil
	}
	return &data.([]T)[arch.entities[entityId]]
}

func (w *World) moveComponents(srcArch *archetype, srcRow row, dstArch *archetype, dstRow row) {
	// Only the components both archetypes share can move.
	key := srcArch.key
	if len(dstArch.key) < len(srcArch.key) {
		key = dstArch.key
	}

	for _, compId := range key {
		srcValue := reflectSliceGet(srcArch.componentData[compId], int(srcRow))
		reflectSliceSet(dstArch.componentData[compId], int(dstRow), srcValue)
	}
}

func (w *World) writeComponent(dstArch *archetype, dstRow row, component any) {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	compId := w.getComponentId(componentType(component))
	reflectSliceSet(dstArch.componentData[compId], int(dstRow), value)
}

func (w *World) recycleEntity(entityId EntityId) {
	archId := w.entityIndex[entityId]
	arch := w.archetypes[archId]

	r := arch.entities[entityId]
	for _, compId := range arch.key {
		reflectSliceSet(arch.componentData[compId], int(r), reflect.Zero(w.componentIdTypeMap[compId]))
	}
	arch.recycled = append(arch.recycled, r)

	delete(arch.entities, entityId)
	delete(w.entityIndex, entityId)
}

func (w *World) keyOf(components ...any) archetypeKey {
	var res archetypeKey
	for _, component := range components {
		res = append(res, w.getComponentId(componentType(component)))
	}
	return dedupAndSortArchetypeKey(res)
}

func (w *World) archetypeFor(key archetypeKey) (archetypeId, *archetype) {
	id := getArchetypeId(key)

	if arch, ok := w.archetypes[id]; ok {
		return id, arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any),
	}
	for _, compId := range arch.key {
		arch.componentData[compId] = reflectSliceMake(w.componentIdTypeMap[compId])
	}

	w.archetypes[id] = arch
	return id, arch
}

func (w *World) reserveRow(arch *archetype) row {
	if len(arch.recycled) > 0 {
		r := arch.recycled[len(arch.recycled)-1]
		arch.recycled = arch.recycled[:len(arch.recycled)-1]
		return r
	}

	r := row(len(arch.entities))
	for _, compId := range arch.key {
		arch.componentData[compId] = reflectSliceAppend(
			arch.componentData[compId],
			reflect.Zero(w.componentIdTypeMap[compId]),
		)
	}
	return r
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	return dedupAndSortArchetypeKey(append(slices.Clone(a), b...))
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

// Archetype ids are a hash of the sorted key.
func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	b := make([]byte, 8)
	for _, compId := range key {
		binary.LittleEndian.PutUint64(b, uint64(compId))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (w *World) nextEntityId() EntityId {
	id := w.entityIdCounter
	w.entityIdCounter++
	return id
}

func (w *World) getComponentId(t reflect.Type) componentId {
	if id, ok := w.componentTypeIdMap[t]; ok {
		return id
	}
	id := w.componentIdCounter
	w.componentIdCounter++
	w.componentTypeIdMap[t] = id
	w.componentIdTypeMap[id] = t
	return id
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %v", t))
	}
	return t
}

func reflectSliceMake(elem reflect.Type) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), 0, 1).Interface()
}

func reflectSliceGet(slice any, idx int) reflect.Value {
	return reflect.ValueOf(slice).Index(idx)
}

func reflectSliceSet(slice any, idx int, val reflect.Value) {
	reflect.ValueOf(slice).Index(idx).Set(val)
}

func reflectSliceAppend(slice any, val reflect.Value) any {
	return reflect.Append(reflect.ValueOf(slice), val).Interface()
}
