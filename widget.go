package applescene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

type WidgetKind string

const (
	KindStackPanel WidgetKind = "StackPanel"
	KindGrid       WidgetKind = "Grid"
	KindButton     WidgetKind = "Button"
	KindLabel      WidgetKind = "Label"
	KindTextBox    WidgetKind = "TextBox"
)

// Widget is a node of the editor's UI tree. It carries no rendering state,
// only the structure the commands keep in sync with the document.
type Widget struct {
	ID   string
	Kind WidgetKind
	Text string

	parent   *Widget
	children []*Widget
}

// NewWidget creates a detached widget. An empty id gets a random one.
func NewWidget(kind WidgetKind, id, text string) *Widget {
	if id == "" {
		id = uuid.NewString()
	}
	return &Widget{ID: id, Kind: kind, Text: text}
}

func (w *Widget) Parent() *Widget     { return w.parent }
func (w *Widget) Children() []*Widget { return slices.Clone(w.children) }
func (w *Widget) Len() int            { return len(w.children) }

func (w *Widget) ChildAt(i int) (*Widget, bool) {
	if i < 0 || i >= len(w.children) {
		return nil, false
	}
	return w.children[i], true
}

func (w *Widget) IndexOf(c *Widget) int {
	return slices.Index(w.children, c)
}

func (w *Widget) AddChild(c *Widget) {
	w.InsertChild(len(w.children), c)
}

// InsertChild moves c under w at index i, clamped to the valid range.
func (w *Widget) InsertChild(i int, c *Widget) {
	c.Detach()
	w.children = slices.Insert(w.children, min(max(i, 0), len(w.children)), c)
	c.parent = w
}

func (w *Widget) RemoveChild(c *Widget) int {
	i := w.IndexOf(c)
	if i < 0 {
		return -1
	}
	w.children = slices.Delete(w.children, i, i+1)
	c.parent = nil
	return i
}

func (w *Widget) Detach() {
	if w.parent != nil {
		w.parent.RemoveChild(w)
	}
}

// FindByID searches the subtree depth first, w included.
func (w *Widget) FindByID(id string) (*Widget, bool) {
	if w.ID == id {
		return w, true
	}
	for _, c := range w.children {
		if found, ok := c.FindByID(id); ok {
			return found, true
		}
	}
	return nil, false
}

// ChildrenOfKind filters direct children.
func (w *Widget) ChildrenOfKind(kind WidgetKind) []*Widget {
	return lo.Filter(w.children, func(c *Widget, _ int) bool { return c.Kind == kind })
}

// WidgetViews remembers which panel renders which array so that array
// commands can find their widget.
type WidgetViews struct {
	arrays map[*jsondoc.Array]*Widget
}

func NewWidgetViews() *WidgetViews {
	return &WidgetViews{arrays: make(map[*jsondoc.Array]*Widget)}
}

func (v *WidgetViews) ArrayPanel(a *jsondoc.Array) (*Widget, bool) {
	w, ok := v.arrays[a]
	return w, ok
}

// Forget drops the panels of every array under obj.
func (v *WidgetViews) Forget(obj *jsondoc.Object) {
	for _, a := range obj.Arrays() {
		delete(v.arrays, a)
		for _, e := range a.Elements() {
			v.Forget(e)
		}
	}
	for _, c := range obj.Children() {
		v.Forget(c)
	}
}

// BuildComponentWidget renders obj as a Grid: a header label with the
// component's type, a text box per property, a nested grid per child object
// and a StackPanel per array whose children are, in order, one grid per
// element.
func (v *WidgetViews) BuildComponentWidget(obj *jsondoc.Object) *Widget {
	header := obj.Name
	if t, ok := obj.TypeName(); ok {
		header = ShortTypeName(t)
	}

	grid := NewWidget(KindGrid, "", header)
	grid.AddChild(NewWidget(KindLabel, "", header))
	for _, p := range obj.Properties() {
		if p.Name() == jsondoc.TypeKey {
			continue
		}
		grid.AddChild(NewWidget(KindTextBox, "", p.Name()+": "+p.Text()))
	}
	for _, c := range obj.Children() {
		grid.AddChild(v.BuildComponentWidget(c))
	}
	for _, a := range obj.Arrays() {
		grid.AddChild(v.BuildArrayPanel(a))
	}
	return grid
}

func (v *WidgetViews) BuildArrayPanel(a *jsondoc.Array) *Widget {
	panel := NewWidget(KindStackPanel, "", a.Name)
	for _, e := range a.Elements() {
		panel.AddChild(v.BuildComponentWidget(e))
	}
	v.arrays[a] = panel
	return panel
}
