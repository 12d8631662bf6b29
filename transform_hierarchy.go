package applescene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// WorldTransform composes an entity's transform with those of its ancestors
// (parent * child). Entities without TransformInfo contribute identity, and a
// missing parent ends the chain. Cycles in stored parent ids are cut at the
// first repeated entity.
func (ed *Editor) WorldTransform(id string) (mgl32.Mat4, bool) {
	e, ok := ed.Scene.Find(id)
	if !ok {
		return mgl32.Ident4(), false
	}

	world := mgl32.Ident4()
	seen := map[string]bool{}
	for e != nil && !seen[e.ID] {
		seen[e.ID] = true
		if tr, ok := Get[TransformInfo](ed.World, e.Handle); ok {
			world = tr.Matrix().Mul4(world)
		}
		pid, ok := e.ParentID()
		if !ok {
			break
		}
		e, _ = ed.Scene.Find(pid)
	}
	return world, true
}

// WorldTransforms computes WorldTransform for every entity carrying a
// TransformInfo, keyed by entity id.
func (ed *Editor) WorldTransforms() map[string]mgl32.Mat4 {
	out := make(map[string]mgl32.Mat4)
	MakeQuery2[EntityInfo, TransformInfo](ed.World).Map(func(_ EntityId, info *EntityInfo, _ *TransformInfo) bool {
		if m, ok := ed.WorldTransform(info.ID); ok {
			out[info.ID] = m
		}
		return true
	})
	return out
}
