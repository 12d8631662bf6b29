package jsondoc

import "slices"

// Array is a named, ordered sequence of objects. By convention every element
// follows the same schema and the first one serves as a template for new ones.
type Array struct {
	Name string

	elems  []*Object
	parent *Object
}

func NewArray(name string, elems ...*Object) *Array {
	a := &Array{Name: name}
	for _, e := range elems {
		a.Append(e)
	}
	return a
}

func (a *Array) Parent() *Object     { return a.parent }
func (a *Array) Len() int            { return len(a.elems) }
func (a *Array) Elements() []*Object { return slices.Clone(a.elems) }

func (a *Array) At(i int) (*Object, bool) {
	if i < 0 || i >= len(a.elems) {
		return nil, false
	}
	return a.elems[i], true
}

func (a *Array) IndexOf(e *Object) int {
	return slices.Index(a.elems, e)
}

func (a *Array) Append(e *Object) {
	a.Insert(len(a.elems), e)
}

// Insert places e at index i (clamped to the valid range), moving it out of
// any container it currently belongs to.
func (a *Array) Insert(i int, e *Object) {
	if a.parent != nil {
		a.parent.mustAdopt(e)
	}
	e.Detach()
	a.elems = slices.Insert(a.elems, clampIndex(i, len(a.elems)), e)
	e.owner = a
}

func (a *Array) RemoveAt(i int) (*Object, bool) {
	e, ok := a.At(i)
	if !ok {
		return nil, false
	}
	a.elems = slices.Delete(a.elems, i, i+1)
	e.owner = nil
	return e, true
}

// Remove detaches e and returns the index it occupied, or -1.
func (a *Array) Remove(e *Object) int {
	i := a.IndexOf(e)
	if i < 0 {
		return -1
	}
	a.RemoveAt(i)
	return i
}

func (a *Array) Clone() *Array {
	c := &Array{Name: a.Name, elems: make([]*Object, 0, len(a.elems))}
	for _, e := range a.elems {
		ce := e.Clone()
		ce.owner = c
		c.elems = append(c.elems, ce)
	}
	return c
}

func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Name != other.Name || len(a.elems) != len(other.elems) {
		return false
	}
	for i := range a.elems {
		if !a.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}
