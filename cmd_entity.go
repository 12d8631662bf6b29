package applescene

import (
	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// AddEntityCommand writes a new entity file and mounts the entity in the
// scene, the ECS and the entity list.
type AddEntityCommand struct {
	commandState

	editor *Editor
	entity *Entity
	index  int
	added  bool
}

func NewAddEntityCommand(ed *Editor, doc *jsondoc.Object) *AddEntityCommand {
	id, _ := doc.StringProperty(idField)
	return &AddEntityCommand{
		editor: ed,
		entity: &Entity{ID: id, Path: ed.Scene.EntityPath(id), Doc: doc},
		index:  -1,
	}
}

func (c *AddEntityCommand) Entity() *Entity { return c.entity }

func (c *AddEntityCommand) Execute() {
	ed, e := c.editor, c.entity
	if !ValidEntityID(e.ID) {
		ed.Log.Warnf("add entity: %q: %v", e.ID, ErrInvalidEntityID)
		return
	}
	if _, exists := ed.Scene.Find(e.ID); exists || ed.FS.Exists(e.Path) {
		ed.Log.Warnf("add entity: %q: %v", e.ID, ErrEntityExists)
		return
	}
	data, err := e.Doc.MarshalIndent()
	if err != nil {
		ed.Log.Errorf("add entity %q: %v", e.ID, err)
		return
	}
	if err := ed.FS.WriteFile(e.Path, data); err != nil {
		ed.Log.Errorf("add entity %q: write %s: %v", e.ID, e.Path, err)
		return
	}

	if c.index < 0 {
		c.index = ed.Scene.Len()
	}
	ed.Scene.insert(c.index, e)
	ed.mount(e)
	ed.placeButton(e)
	c.added = true
	ed.Log.Debugf("added entity %q", e.ID)
}

func (c *AddEntityCommand) Undo() {
	if !c.added {
		return
	}
	ed, e := c.editor, c.entity
	if err := ed.FS.Remove(e.Path); err != nil && !isNotExist(err) {
		ed.Log.Errorf("undo add entity %q: remove %s: %v", e.ID, e.Path, err)
		return
	}
	c.index = ed.Scene.remove(e)
	ed.unmount(e)
	c.added = false
}

func (c *AddEntityCommand) Redo() { c.Execute() }

// RemoveEntityCommand deletes an entity's file and unmounts it. The entity
// is kept as JSON text; undo re-parses it into a fresh document with a new
// ECS entity, since the disposed handle cannot be revived.
type RemoveEntityCommand struct {
	commandState

	editor *Editor
	entity *Entity

	text        []byte
	index       int
	button      *Widget
	buttonIndex int
	children    []*Widget
	removed     bool
}

func NewRemoveEntityCommand(ed *Editor, e *Entity) *RemoveEntityCommand {
	return &RemoveEntityCommand{editor: ed, entity: e, index: -1}
}

func (c *RemoveEntityCommand) Execute() {
	ed, e := c.editor, c.entity
	index := ed.Scene.IndexOf(e)
	if index < 0 {
		ed.Log.Debugf("remove entity %q: not in scene", e.ID)
		return
	}
	text, err := e.Doc.MarshalIndent()
	if err != nil {
		ed.Log.Errorf("remove entity %q: %v", e.ID, err)
		return
	}
	if err := ed.FS.Remove(e.Path); err != nil && !isNotExist(err) {
		ed.Log.Errorf("remove entity %q: remove %s: %v", e.ID, e.Path, err)
		return
	}
	c.text, c.index = text, index

	// Child entities move to the top of the list while their parent is gone.
	c.children = nil
	if e.Button != nil {
		c.button = e.Button.Parent()
		c.buttonIndex = -1
		if c.button != nil {
			c.buttonIndex = c.button.IndexOf(e.Button)
		}
		for _, child := range e.Button.ChildrenOfKind(KindButton) {
			c.children = append(c.children, child)
			ed.EntitiesPanel.AddChild(child)
		}
	}

	ed.Scene.remove(e)
	ed.unmount(e)
	c.removed = true
	ed.Log.Debugf("removed entity %q", e.ID)
}

func (c *RemoveEntityCommand) Undo() {
	if !c.removed {
		return
	}
	ed, e := c.editor, c.entity
	if err := ed.FS.WriteFile(e.Path, c.text); err != nil {
		ed.Log.Errorf("undo remove entity %q: write %s: %v", e.ID, e.Path, err)
		return
	}
	doc, _, err := ParseEntity(c.text)
	if err != nil {
		ed.Log.Errorf("undo remove entity %q: %v", e.ID, err)
		return
	}

	e.Doc = doc
	ed.Scene.insert(c.index, e)
	ed.mount(e)
	if c.button != nil && ed.attached(c.button) {
		c.button.InsertChild(c.buttonIndex, e.Button)
	} else {
		ed.placeButton(e)
	}
	for _, child := range c.children {
		if ed.attached(child) {
			e.Button.AddChild(child)
		}
	}
	c.removed = false
}

func (c *RemoveEntityCommand) Redo() { c.Execute() }
