package applescene

import (
	"fmt"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// PrototypeCatalog holds the default component objects new components are
// cloned from. Entries are never attached to an entity directly.
type PrototypeCatalog struct {
	names  []string
	byName map[string]*jsondoc.Object
}

func NewPrototypeCatalog() *PrototypeCatalog {
	return &PrototypeCatalog{byName: make(map[string]*jsondoc.Object)}
}

// DefaultPrototypeCatalog uses the prototypes of every registered schema.
func DefaultPrototypeCatalog(r *Registry) *PrototypeCatalog {
	c := NewPrototypeCatalog()
	for _, name := range r.Names() {
		s, _ := r.Lookup(name)
		c.Add(s.Prototype.Clone())
	}
	return c
}

// ParsePrototypeCatalog reads {"prototypes": [ {"$type": ...}, ... ]}.
func ParsePrototypeCatalog(data []byte) (*PrototypeCatalog, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, NewParseError("prototype catalog", err)
	}
	arr, ok := doc.FindArray("prototypes", jsondoc.Ordinal)
	if !ok {
		return nil, NewParseError("prototype catalog has no prototypes array", ErrNotFound)
	}

	c := NewPrototypeCatalog()
	for i, p := range arr.Elements() {
		if _, ok := p.TypeName(); !ok {
			return nil, NewParseError(fmt.Sprintf("prototype %d has no $type", i), ErrInvalidEntity)
		}
		p.Detach()
		c.Add(p)
	}
	return c, nil
}

// LoadPrototypeCatalog reads a catalog file. A missing file is fatal.
func LoadPrototypeCatalog(fsys FileSystem, path string) (*PrototypeCatalog, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, NewResourceError("prototype catalog "+path, ErrResourceMissing)
		}
		return nil, NewResourceError("prototype catalog "+path, err)
	}
	return ParsePrototypeCatalog(data)
}

// Add registers p under its short $type name, replacing an earlier entry.
func (c *PrototypeCatalog) Add(p *jsondoc.Object) {
	t, _ := p.TypeName()
	name := ShortTypeName(t)
	if _, exists := c.byName[name]; !exists {
		c.names = append(c.names, name)
	}
	c.byName[name] = p
}

func (c *PrototypeCatalog) Lookup(typeName string) (*jsondoc.Object, bool) {
	p, ok := c.byName[ShortTypeName(typeName)]
	return p, ok
}

func (c *PrototypeCatalog) Names() []string {
	return append([]string(nil), c.names...)
}
