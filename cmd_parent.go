package applescene

import (
	"fmt"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// AssignParentToEntityCommand points a child's ParentInfo at another entity
// and moves the child's button under the parent's. An existing ParentInfo is
// rewritten in place; otherwise one is added and removed again on undo.
// Executing twice with the same parent leaves a single ParentInfo.
type AssignParentToEntityCommand struct {
	commandState

	editor   *Editor
	child    *Entity
	parentID string

	edit       propertyEdit
	created    *jsondoc.Object
	prevButton *Widget
	prevIndex  int
	applied    bool
}

// NewAssignParentToEntityCommand fails with ErrParentCycle when the parent
// is the child itself or one of its descendants.
func NewAssignParentToEntityCommand(ed *Editor, child *Entity, parentID string) (*AssignParentToEntityCommand, error) {
	if _, ok := ed.Scene.Find(parentID); !ok {
		return nil, NewCommandError(fmt.Sprintf("parent %q", parentID), ErrNotFound)
	}
	seen := map[string]bool{}
	for id := parentID; id != "" && !seen[id]; {
		if id == child.ID {
			return nil, NewCommandError(fmt.Sprintf("%q under %q", child.ID, parentID), ErrParentCycle)
		}
		seen[id] = true
		e, ok := ed.Scene.Find(id)
		if !ok {
			break
		}
		id, _ = e.ParentID()
	}
	return &AssignParentToEntityCommand{editor: ed, child: child, parentID: parentID}, nil
}

func (c *AssignParentToEntityCommand) Execute() {
	ed := c.editor
	if c.applied {
		// Re-applying only reasserts the id and button position.
		if info, _, ok := c.child.FindComponent(ParentType); ok {
			info.SetString(fieldParentID, c.parentID)
			ed.refreshComponent(c.child, info)
		}
		c.moveButton()
		ed.syncComponent(c.child, ParentType)
		return
	}

	comps, ok := c.child.Components()
	if !ok {
		ed.Log.Debugf("assign parent: entity %q has no components array", c.child.ID)
		return
	}

	if info, _, ok := c.child.FindComponent(ParentType); ok {
		c.created = nil
		c.edit = propertyEdit{obj: info, name: fieldParentID}
		c.edit.set(c.parentID)
		ed.refreshComponent(c.child, info)
	} else {
		// redo puts back the object undo took out
		info := c.created
		if info == nil {
			info = c.newParentInfo()
		}
		info.SetString(fieldParentID, c.parentID)
		comps.Append(info)
		if c.child.Panel != nil {
			c.child.Panel.AddChild(ed.Views.BuildComponentWidget(info))
		}
		c.created = info
	}

	if c.child.Button != nil {
		c.prevButton = c.child.Button.Parent()
		c.prevIndex = -1
		if c.prevButton != nil {
			c.prevIndex = c.prevButton.IndexOf(c.child.Button)
		}
	}
	c.moveButton()
	ed.syncComponent(c.child, ParentType)
	c.applied = true
}

func (c *AssignParentToEntityCommand) Undo() {
	if !c.applied {
		return
	}
	ed := c.editor
	if c.created != nil {
		if comps, ok := c.child.Components(); ok {
			c.created = c.child.liveComponent(c.created)
			if i := comps.Remove(c.created); i >= 0 && c.child.Panel != nil {
				if w, ok := c.child.Panel.ChildAt(i); ok {
					w.Detach()
				}
			}
		}
	} else {
		c.edit.obj = c.child.liveComponent(c.edit.obj)
		c.edit.restore()
		ed.refreshComponent(c.child, c.edit.obj)
	}

	if c.child.Button != nil {
		if c.prevButton != nil && ed.attached(c.prevButton) {
			c.prevButton.InsertChild(c.prevIndex, c.child.Button)
		} else {
			ed.EntitiesPanel.AddChild(c.child.Button)
		}
	}
	ed.syncComponent(c.child, ParentType)
	c.applied = false
}

func (c *AssignParentToEntityCommand) Redo() { c.Execute() }

func (c *AssignParentToEntityCommand) newParentInfo() *jsondoc.Object {
	var info *jsondoc.Object
	if p, ok := c.editor.Prototypes.Lookup(ParentType); ok {
		info = p.Clone()
	} else {
		info = jsondoc.NewObject("")
		info.AddProperty(jsondoc.NewString(jsondoc.TypeKey, ParentType))
	}
	info.SetString(fieldParentID, c.parentID)
	return info
}

func (c *AssignParentToEntityCommand) moveButton() {
	if c.child.Button == nil {
		return
	}
	if parent, ok := c.editor.Scene.Find(c.parentID); ok && parent.Button != nil {
		parent.Button.AddChild(c.child.Button)
	}
}
