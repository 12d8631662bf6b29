package applescene

import (
	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// ArrayLocator finds an array again after the document holding it was
// replaced, e.g. by undoing an entity removal.
type ArrayLocator func() (*jsondoc.Array, bool)

// AddArrayElementCommand appends a new element to an array. The element is a
// copy of template, or of the array's first element when template is nil.
// The array's panel is looked up on every step since undoing the owning
// component rebuilds it.
type AddArrayElementCommand struct {
	commandState

	// OnChange runs after every mutation.
	OnChange func()

	// Locate, when set, is asked for the live array before every step.
	Locate ArrayLocator

	array *jsondoc.Array
	views *WidgetViews
	log   Logger
	elem  *jsondoc.Object
	row   elementRow
	index int
	added bool
}

func NewAddArrayElementCommand(array *jsondoc.Array, template *jsondoc.Object, views *WidgetViews, log Logger) *AddArrayElementCommand {
	c := &AddArrayElementCommand{array: array, views: views, log: orNop(log), index: -1}
	if template == nil {
		template, _ = array.At(0)
	}
	if template != nil {
		c.elem = template.Clone()
	}
	return c
}

// Element is the object the command adds, nil when there was nothing to
// copy from.
func (c *AddArrayElementCommand) Element() *jsondoc.Object { return c.elem }

func (c *AddArrayElementCommand) Execute() {
	if c.elem == nil {
		c.log.Debugf("add element to %q: array is empty and no template was given", c.array.Name)
		return
	}
	arr := c.target()
	c.index = arr.Len()
	arr.Append(c.elem)
	c.row.insert(c.views, arr, c.index, c.elem)
	c.added = true
	c.changed()
}

func (c *AddArrayElementCommand) Undo() {
	if !c.added {
		return
	}
	arr := c.target()
	elem, i := resolveElement(arr, c.elem, c.index)
	if elem == nil {
		c.log.Debugf("undo add element to %q: element is gone", arr.Name)
		return
	}
	arr.RemoveAt(i)
	c.row.remove(c.views, arr, i)
	c.elem = elem
	c.added = false
	c.changed()
}

func (c *AddArrayElementCommand) Redo() { c.Execute() }

func (c *AddArrayElementCommand) target() *jsondoc.Array {
	c.array = locate(c.Locate, c.array)
	return c.array
}

func (c *AddArrayElementCommand) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

// RemoveArrayElementCommand removes one element and puts it back at the same
// index on undo. An array is never emptied: removing the only element is a
// no-op.
type RemoveArrayElementCommand struct {
	commandState

	OnChange func()
	Locate   ArrayLocator

	array   *jsondoc.Array
	elem    *jsondoc.Object
	views   *WidgetViews
	log     Logger
	row     elementRow
	index   int
	removed bool
}

func NewRemoveArrayElementCommand(array *jsondoc.Array, elem *jsondoc.Object, views *WidgetViews, log Logger) *RemoveArrayElementCommand {
	return &RemoveArrayElementCommand{
		array: array,
		elem:  elem,
		views: views,
		log:   orNop(log),
		index: array.IndexOf(elem),
	}
}

func (c *RemoveArrayElementCommand) Execute() {
	arr := c.target()
	if arr.Len() <= 1 {
		c.log.Debugf("remove element from %q: the last element cannot be removed", arr.Name)
		return
	}
	elem, i := resolveElement(arr, c.elem, c.index)
	if elem == nil {
		c.log.Debugf("remove element from %q: element not found", arr.Name)
		return
	}
	arr.RemoveAt(i)
	c.elem, c.index = elem, i
	c.row.remove(c.views, arr, i)
	c.removed = true
	c.changed()
}

func (c *RemoveArrayElementCommand) Undo() {
	if !c.removed {
		return
	}
	arr := c.target()
	arr.Insert(c.index, c.elem)
	c.row.insert(c.views, arr, c.index, c.elem)
	c.removed = false
	c.changed()
}

func (c *RemoveArrayElementCommand) Redo() { c.Execute() }

func (c *RemoveArrayElementCommand) target() *jsondoc.Array {
	c.array = locate(c.Locate, c.array)
	return c.array
}

func (c *RemoveArrayElementCommand) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func locate(fn ArrayLocator, fallback *jsondoc.Array) *jsondoc.Array {
	if fn != nil {
		if a, ok := fn(); ok {
			return a
		}
	}
	return fallback
}

// elementRow is the grid of one array element together with the panel it
// was last shown in. A grid is reused only while that panel is still the
// array's live panel.
type elementRow struct {
	widget *Widget
	panel  *Widget
}

func (r *elementRow) insert(views *WidgetViews, array *jsondoc.Array, i int, elem *jsondoc.Object) {
	if views == nil {
		return
	}
	panel, ok := views.ArrayPanel(array)
	if !ok {
		return
	}
	if r.widget == nil || r.panel != panel {
		views.Forget(elem)
		r.widget = views.BuildComponentWidget(elem)
		r.panel = panel
	}
	panel.InsertChild(i, r.widget)
}

func (r *elementRow) remove(views *WidgetViews, array *jsondoc.Array, i int) {
	if views == nil {
		return
	}
	panel, ok := views.ArrayPanel(array)
	if !ok {
		return
	}
	if w, ok := panel.ChildAt(i); ok {
		panel.RemoveChild(w)
		r.widget, r.panel = w, panel
	}
}
