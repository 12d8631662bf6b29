package applescene

import (
	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// resolveElement finds obj in arr. When obj still belongs to an array that
// was since replaced (an entity restored from text), the element of the same
// type at hint stands in for it.
func resolveElement(arr *jsondoc.Array, obj *jsondoc.Object, hint int) (*jsondoc.Object, int) {
	if i := arr.IndexOf(obj); i >= 0 {
		return obj, i
	}
	if owner := obj.Owner(); owner == nil || owner == arr {
		return nil, -1
	}
	e, ok := arr.At(hint)
	if !ok {
		return nil, -1
	}
	want, _ := obj.TypeName()
	if got, _ := e.TypeName(); got != want {
		return nil, -1
	}
	return e, hint
}

// liveComponent maps a component captured from an older document of e onto
// the current one.
func (e *Entity) liveComponent(obj *jsondoc.Object) *jsondoc.Object {
	comps, ok := e.Components()
	if !ok || obj.Owner() == nil {
		return obj
	}
	if c, _ := resolveElement(comps, obj, obj.Owner().IndexOf(obj)); c != nil {
		return c
	}
	return obj
}

// AddComponentCommand appends a copy of a prototype to an entity's
// components.
type AddComponentCommand struct {
	commandState

	editor *Editor
	entity *Entity
	comp   *jsondoc.Object
	index  int
	added  bool
}

func NewAddComponentCommand(ed *Editor, e *Entity, prototype *jsondoc.Object) *AddComponentCommand {
	return &AddComponentCommand{
		editor: ed,
		entity: e,
		comp:   prototype.Clone(),
		index:  -1,
	}
}

// Component is the object the command adds.
func (c *AddComponentCommand) Component() *jsondoc.Object { return c.comp }

func (c *AddComponentCommand) Execute() {
	comps, ok := c.entity.Components()
	if !ok {
		c.editor.Log.Debugf("add component: entity %q has no components array", c.entity.ID)
		return
	}
	c.index = comps.Len()
	comps.Append(c.comp)
	if c.entity.Panel != nil {
		c.entity.Panel.InsertChild(c.index, c.editor.Views.BuildComponentWidget(c.comp))
	}
	c.added = true
	c.sync()
}

func (c *AddComponentCommand) Undo() {
	if !c.added {
		return
	}
	comps, ok := c.entity.Components()
	if !ok {
		return
	}
	comp, i := resolveElement(comps, c.comp, c.index)
	if comp == nil {
		c.editor.Log.Debugf("undo add component: component no longer on entity %q", c.entity.ID)
		return
	}
	comps.RemoveAt(i)
	if w, ok := c.panelChild(i); ok {
		w.Detach()
	}
	c.editor.Views.Forget(comp)
	c.comp = comp
	c.added = false
	c.sync()
}

func (c *AddComponentCommand) Redo() { c.Execute() }

func (c *AddComponentCommand) panelChild(i int) (*Widget, bool) {
	if c.entity.Panel == nil {
		return nil, false
	}
	return c.entity.Panel.ChildAt(i)
}

func (c *AddComponentCommand) sync() { c.editor.componentChanged(c.entity, c.comp) }

// RemoveComponentCommand removes a component and restores it at the same
// index on undo.
type RemoveComponentCommand struct {
	commandState

	editor  *Editor
	entity  *Entity
	comp    *jsondoc.Object
	widget  *Widget
	index   int
	removed bool
}

func NewRemoveComponentCommand(ed *Editor, e *Entity, comp *jsondoc.Object) *RemoveComponentCommand {
	index := -1
	if comps, ok := e.Components(); ok {
		index = comps.IndexOf(comp)
	}
	return &RemoveComponentCommand{editor: ed, entity: e, comp: comp, index: index}
}

func (c *RemoveComponentCommand) Execute() {
	comps, ok := c.entity.Components()
	if !ok {
		c.editor.Log.Debugf("remove component: entity %q has no components array", c.entity.ID)
		return
	}
	comp, i := resolveElement(comps, c.comp, c.index)
	if comp == nil {
		c.editor.Log.Debugf("remove component: component not found on entity %q", c.entity.ID)
		return
	}
	comps.RemoveAt(i)
	c.comp, c.index = comp, i

	c.widget = nil
	if c.entity.Panel != nil {
		if w, ok := c.entity.Panel.ChildAt(i); ok {
			c.entity.Panel.RemoveChild(w)
			c.widget = w
		}
	}
	c.removed = true
	c.sync()
}

func (c *RemoveComponentCommand) Undo() {
	if !c.removed {
		return
	}
	comps, ok := c.entity.Components()
	if !ok {
		return
	}
	comps.Insert(c.index, c.comp)
	if c.entity.Panel != nil {
		w := c.widget
		if w == nil {
			w = c.editor.Views.BuildComponentWidget(c.comp)
		}
		c.entity.Panel.InsertChild(c.index, w)
	}
	c.removed = false
	c.sync()
}

func (c *RemoveComponentCommand) Redo() { c.Execute() }

func (c *RemoveComponentCommand) sync() { c.editor.componentChanged(c.entity, c.comp) }

// componentChanged syncs comp's type into the ECS after it was added to or
// removed from e. A ParentInfo change also moves e's button.
func (ed *Editor) componentChanged(e *Entity, comp *jsondoc.Object) {
	t, ok := comp.TypeName()
	if !ok {
		return
	}
	ed.syncComponent(e, t)
	if IsType(comp, ParentType) && ed.attached(e.Button) {
		ed.placeButton(e)
	}
}
