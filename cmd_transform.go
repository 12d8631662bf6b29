package applescene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// ChangeTransformCommand replaces an entity's TransformInfo with the
// decomposition of a matrix. With scaleComplexBox set the CollisionBoxInfo
// half extent is scaled by the same per-axis factor as the transform.
type ChangeTransformCommand struct {
	commandState

	editor          *Editor
	entity          *Entity
	matrix          mgl32.Mat4
	scaleComplexBox bool

	prevMatrix mgl32.Mat4
	edits      []propertyEdit
	applied    bool
}

func NewChangeTransformCommand(ed *Editor, e *Entity, matrix mgl32.Mat4, scaleComplexBox bool) *ChangeTransformCommand {
	return &ChangeTransformCommand{editor: ed, entity: e, matrix: matrix, scaleComplexBox: scaleComplexBox}
}

// Previous is the transform that was replaced, valid once executed.
func (c *ChangeTransformCommand) Previous() mgl32.Mat4 { return c.prevMatrix }

func (c *ChangeTransformCommand) Execute() {
	if c.applied {
		return
	}
	ed := c.editor
	tr, _, ok := c.entity.FindComponent(TransformType)
	if !ok {
		ed.Log.Debugf("change transform: entity %q has no %s", c.entity.ID, TransformType)
		return
	}

	prevScale, err := vecField(tr, fieldScale, unitVec)
	if err != nil {
		ed.Log.Warnf("change transform: entity %q: %v", c.entity.ID, err)
		return
	}
	prevPos, _ := vecField(tr, fieldPosition, zeroVec)
	prevRot, _ := vecField(tr, fieldRotation, zeroVec)
	c.prevMatrix = ComposeTransform(prevPos, prevRot, prevScale)

	pos, rot, scale := DecomposeTransform(c.matrix)
	pos, rot, scale = snapVec3(pos), snapVec3(rot), snapVec3(scale)

	c.edits = c.edits[:0]
	c.set(tr, fieldPosition, FormatVec3(pos))
	c.set(tr, fieldRotation, FormatVec3(rot))
	c.set(tr, fieldScale, FormatVec3(scale))
	ed.refreshComponent(c.entity, tr)

	if c.scaleComplexBox {
		c.scaleBox(prevScale, scale)
	}

	ed.syncComponent(c.entity, TransformType)
	c.applied = true
}

func (c *ChangeTransformCommand) scaleBox(prev, next mgl32.Vec3) {
	ed := c.editor
	box, _, ok := c.entity.FindComponent(CollisionBoxType)
	if !ok {
		ed.Log.Debugf("change transform: entity %q has no %s to scale", c.entity.ID, CollisionBoxType)
		return
	}
	half, err := vecField(box, fieldHalfExtent, zeroVec)
	if err != nil {
		ed.Log.Warnf("change transform: entity %q: %v", c.entity.ID, err)
		return
	}
	for i := range half {
		// An axis collapsed to zero scale has no ratio to apply.
		if prev[i] != 0 {
			half[i] *= next[i] / prev[i]
		}
	}
	c.set(box, fieldHalfExtent, FormatVec3(snapVec3(half)))
	ed.refreshComponent(c.entity, box)
	ed.syncComponent(c.entity, CollisionBoxType)
}

func (c *ChangeTransformCommand) set(obj *jsondoc.Object, name, text string) {
	edit := propertyEdit{obj: obj, name: name}
	edit.set(text)
	c.edits = append(c.edits, edit)
}

func (c *ChangeTransformCommand) Undo() {
	if !c.applied {
		return
	}
	ed := c.editor
	for i := len(c.edits) - 1; i >= 0; i-- {
		c.edits[i].obj = c.entity.liveComponent(c.edits[i].obj)
		c.edits[i].restore()
	}
	touched := map[*jsondoc.Object]bool{}
	for _, e := range c.edits {
		if !touched[e.obj] {
			touched[e.obj] = true
			ed.refreshComponent(c.entity, e.obj)
		}
	}
	ed.syncComponent(c.entity, TransformType)
	ed.syncComponent(c.entity, CollisionBoxType)
	c.applied = false
}

func (c *ChangeTransformCommand) Redo() { c.Execute() }
