// Package jsondoc is a mutable, ordered JSON tree. Objects keep their scalar
// properties, nested objects and arrays in three separate ordered lists and
// hold a non-owning back-reference to the object that contains them.
package jsondoc

import (
	"fmt"
	"slices"
)

// TypeKey is the reserved property naming a component's schema.
const TypeKey = "$type"

type Object struct {
	Name string

	props    []*Value
	children []*Object
	arrays   []*Array

	// parent is set when the object is a named child of another object,
	// owner when it is an element of an array.
	parent *Object
	owner  *Array
}

func NewObject(name string) *Object {
	return &Object{Name: name}
}

// Parent returns the object that currently contains o, or nil for roots.
// Array elements report the object owning their array.
func (o *Object) Parent() *Object {
	if o.owner != nil {
		return o.owner.parent
	}
	return o.parent
}

// Owner returns the array o is an element of, if any.
func (o *Object) Owner() *Array { return o.owner }

func (o *Object) Root() *Object {
	root := o
	for p := root.Parent(); p != nil; p = root.Parent() {
		root = p
	}
	return root
}

func (o *Object) Properties() []*Value { return slices.Clone(o.props) }
func (o *Object) Children() []*Object  { return slices.Clone(o.children) }
func (o *Object) Arrays() []*Array     { return slices.Clone(o.arrays) }

func (o *Object) FindProperty(name string, cmp Comparison) (*Value, bool) {
	for _, p := range o.props {
		if cmp.match(p.name, name) {
			return p, true
		}
	}
	return nil, false
}

func (o *Object) FindChild(name string, cmp Comparison) (*Object, bool) {
	for _, c := range o.children {
		if cmp.match(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

func (o *Object) FindArray(name string, cmp Comparison) (*Array, bool) {
	for _, a := range o.arrays {
		if cmp.match(a.Name, name) {
			return a, true
		}
	}
	return nil, false
}

// TypeName returns the $type discriminator of a component object.
func (o *Object) TypeName() (string, bool) {
	v, ok := o.FindProperty(TypeKey, Ordinal)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// StringProperty is a shortcut for a string-kinded property lookup.
func (o *Object) StringProperty(name string) (string, bool) {
	v, ok := o.FindProperty(name, Ordinal)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// SetString overwrites the named property, appending it if absent.
func (o *Object) SetString(name, s string) *Value {
	if v, ok := o.FindProperty(name, Ordinal); ok {
		v.SetString(s)
		return v
	}
	v := NewString(name, s)
	o.AddProperty(v)
	return v
}

func (o *Object) AddProperty(v *Value) {
	o.InsertProperty(len(o.props), v)
}

func (o *Object) InsertProperty(i int, v *Value) {
	if v.parent != nil {
		v.parent.RemoveProperty(v)
	}
	o.props = slices.Insert(o.props, clampIndex(i, len(o.props)), v)
	v.parent = o
}

// RemoveProperty detaches v and returns the index it occupied, or -1.
func (o *Object) RemoveProperty(v *Value) int {
	i := slices.Index(o.props, v)
	if i < 0 {
		return -1
	}
	o.props = slices.Delete(o.props, i, i+1)
	v.parent = nil
	return i
}

func (o *Object) AddChild(c *Object) {
	o.InsertChild(len(o.children), c)
}

func (o *Object) InsertChild(i int, c *Object) {
	o.mustAdopt(c)
	c.Detach()
	o.children = slices.Insert(o.children, clampIndex(i, len(o.children)), c)
	c.parent = o
}

func (o *Object) RemoveChild(c *Object) int {
	i := slices.Index(o.children, c)
	if i < 0 {
		return -1
	}
	o.children = slices.Delete(o.children, i, i+1)
	c.parent = nil
	return i
}

func (o *Object) AddArray(a *Array) {
	o.InsertArray(len(o.arrays), a)
}

func (o *Object) InsertArray(i int, a *Array) {
	for _, e := range a.elems {
		o.mustAdopt(e)
	}
	if a.parent != nil {
		a.parent.RemoveArray(a)
	}
	o.arrays = slices.Insert(o.arrays, clampIndex(i, len(o.arrays)), a)
	a.parent = o
}

func (o *Object) RemoveArray(a *Array) int {
	i := slices.Index(o.arrays, a)
	if i < 0 {
		return -1
	}
	o.arrays = slices.Delete(o.arrays, i, i+1)
	a.parent = nil
	return i
}

// Detach removes o from whatever currently contains it.
func (o *Object) Detach() {
	switch {
	case o.owner != nil:
		o.owner.Remove(o)
	case o.parent != nil:
		o.parent.RemoveChild(o)
	}
}

// Clone deep-copies the subtree. The copy is unattached.
func (o *Object) Clone() *Object {
	c := &Object{
		Name:     o.Name,
		props:    make([]*Value, 0, len(o.props)),
		children: make([]*Object, 0, len(o.children)),
		arrays:   make([]*Array, 0, len(o.arrays)),
	}
	for _, p := range o.props {
		cp := p.Clone()
		cp.parent = c
		c.props = append(c.props, cp)
	}
	for _, ch := range o.children {
		cc := ch.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	for _, a := range o.arrays {
		ca := a.Clone()
		ca.parent = c
		c.arrays = append(c.arrays, ca)
	}
	return c
}

// Equal reports whether both trees have the same names, values, and
// child/array membership in the same order. Parents are not compared.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Name != other.Name ||
		len(o.props) != len(other.props) ||
		len(o.children) != len(other.children) ||
		len(o.arrays) != len(other.arrays) {
		return false
	}
	for i := range o.props {
		if !o.props[i].equal(other.props[i]) {
			return false
		}
	}
	for i := range o.children {
		if !o.children[i].Equal(other.children[i]) {
			return false
		}
	}
	for i := range o.arrays {
		if !o.arrays[i].Equal(other.arrays[i]) {
			return false
		}
	}
	return true
}

func (o *Object) isAncestorOf(c *Object) bool {
	for p := c; p != nil; p = p.Parent() {
		if p == o {
			return true
		}
	}
	return false
}

// mustAdopt guards against attaching an object beneath itself.
func (o *Object) mustAdopt(c *Object) {
	if c.isAncestorOf(o) {
		panic(fmt.Sprintf("jsondoc: cannot attach %q beneath itself", c.Name))
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
