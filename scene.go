package applescene

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

const (
	EntitiesDir     = "Entities"
	SystemsDir      = "Systems"
	ContentDir      = "Content"
	EntityExt       = ".entity"
	WorldExt        = ".world"
	capacityKey     = "WorldMaxCapacity"
	componentsField = "components"
	idField         = "id"

	DefaultWorldCapacity = 128
)

// Entity is one scene entity: its document plus the live mirrors the editor
// attaches while the scene is open.
type Entity struct {
	ID   string
	Path string
	Doc  *jsondoc.Object

	Handle EntityId
	Button *Widget // entry in the entity list
	Panel  *Widget // one grid per component, in document order
}

// Components returns the entity's components array.
func (e *Entity) Components() (*jsondoc.Array, bool) {
	return e.Doc.FindArray(componentsField, jsondoc.Ordinal)
}

// FindComponent returns the first component of the given type and its index.
func (e *Entity) FindComponent(typeName string) (*jsondoc.Object, int, bool) {
	comps, ok := e.Components()
	if !ok {
		return nil, -1, false
	}
	for i, c := range comps.Elements() {
		if IsType(c, typeName) {
			return c, i, true
		}
	}
	return nil, -1, false
}

// ParentID returns the id stored in the entity's ParentInfo component.
func (e *Entity) ParentID() (string, bool) {
	info, _, ok := e.FindComponent(ParentType)
	if !ok {
		return "", false
	}
	id, ok := info.StringProperty(fieldParentID)
	return id, ok && id != ""
}

// NewEntityDoc builds {"id": id, "components": [...]} from clones of the
// given prototypes.
func NewEntityDoc(id string, prototypes ...*jsondoc.Object) *jsondoc.Object {
	doc := jsondoc.NewObject("")
	doc.AddProperty(jsondoc.NewString(idField, id))
	comps := jsondoc.NewArray(componentsField)
	for _, p := range prototypes {
		comps.Append(p.Clone())
	}
	doc.AddArray(comps)
	return doc
}

// ParseEntity parses and validates an entity document.
func ParseEntity(data []byte) (*jsondoc.Object, string, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, "", NewParseError("entity", err)
	}
	id, ok := doc.StringProperty(idField)
	if !ok || id == "" {
		return nil, "", NewParseError("entity has no string id", ErrInvalidEntity)
	}
	comps, ok := doc.FindArray(componentsField, jsondoc.Ordinal)
	if !ok {
		return nil, "", NewParseError(fmt.Sprintf("entity %q has no components array", id), ErrInvalidEntity)
	}
	for i, c := range comps.Elements() {
		if _, ok := c.TypeName(); !ok {
			return nil, "", NewParseError(fmt.Sprintf("entity %q component %d has no $type", id, i), ErrInvalidEntity)
		}
	}
	return doc, id, nil
}

// Scene is an opened scene directory.
type Scene struct {
	Dir         string
	Name        string
	MaxCapacity int

	fs       FileSystem
	entities []*Entity
	problems *multierror.Error
}

func (s *Scene) WorldPath() string {
	return filepath.Join(s.Dir, s.Name+WorldExt)
}

// ValidEntityID reports whether id can name a file directly inside the
// entities directory.
func ValidEntityID(id string) bool {
	if id == "" || id == "." || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return false
	}
	return filepath.Base(id) == id
}

func (s *Scene) EntityPath(id string) string {
	return filepath.Join(s.Dir, EntitiesDir, id+EntityExt)
}

func (s *Scene) Entities() []*Entity { return slices.Clone(s.entities) }
func (s *Scene) Len() int            { return len(s.entities) }

func (s *Scene) IDs() []string {
	return lo.Map(s.entities, func(e *Entity, _ int) string { return e.ID })
}

func (s *Scene) Find(id string) (*Entity, bool) {
	return lo.Find(s.entities, func(e *Entity) bool { return e.ID == id })
}

func (s *Scene) IndexOf(e *Entity) int {
	return slices.Index(s.entities, e)
}

// Problems reports entity files that could not be loaded, or nil.
func (s *Scene) Problems() error {
	return s.problems.ErrorOrNil()
}

func (s *Scene) insert(i int, e *Entity) {
	s.entities = slices.Insert(s.entities, min(max(i, 0), len(s.entities)), e)
}

func (s *Scene) remove(e *Entity) int {
	i := s.IndexOf(e)
	if i >= 0 {
		s.entities = slices.Delete(s.entities, i, i+1)
	}
	return i
}

// CreateScene lays out a new scene directory and writes its world file.
func CreateScene(fsys FileSystem, dir, name string, capacity int) (*Scene, error) {
	if name == "" {
		name = filepath.Base(dir)
	}
	if capacity <= 0 {
		capacity = DefaultWorldCapacity
	}
	s := &Scene{Dir: dir, Name: name, MaxCapacity: capacity, fs: fsys}
	if fsys.Exists(s.WorldPath()) {
		return nil, NewSceneError(s.WorldPath(), ErrSceneExists)
	}

	for _, sub := range []string{EntitiesDir, SystemsDir, ContentDir} {
		if err := fsys.MkdirAll(filepath.Join(dir, sub)); err != nil {
			return nil, NewSceneError("create "+sub, err)
		}
	}
	if err := s.writeWorld(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenScene loads a scene directory. Entity files that fail to parse are
// skipped and reported through Problems; a missing or unreadable world
// descriptor fails the whole call.
func OpenScene(fsys FileSystem, dir string) (*Scene, error) {
	names, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, NewSceneError("read scene directory", err)
	}
	worlds := lo.Filter(names, func(n string, _ int) bool { return filepath.Ext(n) == WorldExt })
	switch len(worlds) {
	case 0:
		return nil, NewSceneError(dir, fmt.Errorf("no %s descriptor: %w", WorldExt, ErrNotFound))
	case 1:
	default:
		return nil, NewSceneError(dir, fmt.Errorf("multiple %s descriptors: %v", WorldExt, worlds))
	}

	s := &Scene{
		Dir:  dir,
		Name: strings.TrimSuffix(worlds[0], WorldExt),
		fs:   fsys,
	}
	data, err := fsys.ReadFile(s.WorldPath())
	if err != nil {
		return nil, NewSceneError("read world descriptor", err)
	}
	if s.MaxCapacity, err = parseWorldDescriptor(data); err != nil {
		return nil, NewSceneError(s.WorldPath(), err)
	}

	entityDir := filepath.Join(dir, EntitiesDir)
	files, err := fsys.ReadDir(entityDir)
	if err != nil {
		if isNotExist(err) {
			return s, nil
		}
		return nil, NewSceneError("read entities directory", err)
	}
	for _, name := range files {
		if filepath.Ext(name) != EntityExt {
			continue
		}
		path := filepath.Join(entityDir, name)
		e, err := loadEntity(fsys, path)
		if err != nil {
			s.problems = multierror.Append(s.problems, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if _, dup := s.Find(e.ID); dup {
			s.problems = multierror.Append(s.problems, fmt.Errorf("%s: %q: %w", path, e.ID, ErrEntityExists))
			continue
		}
		s.entities = append(s.entities, e)
	}
	return s, nil
}

func loadEntity(fsys FileSystem, path string) (*Entity, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, id, err := ParseEntity(data)
	if err != nil {
		return nil, err
	}
	return &Entity{ID: id, Path: path, Doc: doc}, nil
}

// Save writes the world descriptor and every entity file. All files are
// attempted; failures are aggregated.
func (s *Scene) Save() error {
	var result *multierror.Error
	if err := s.writeWorld(); err != nil {
		result = multierror.Append(result, err)
	}
	for _, e := range s.entities {
		if err := s.writeEntity(e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (s *Scene) writeEntity(e *Entity) error {
	data, err := e.Doc.MarshalIndent()
	if err != nil {
		return NewSceneError("encode entity "+e.ID, err)
	}
	if err := s.fs.WriteFile(e.Path, data); err != nil {
		return NewSceneError("write entity "+e.ID, err)
	}
	return nil
}

func (s *Scene) writeWorld() error {
	data := fmt.Sprintf("%s %d\n", capacityKey, s.MaxCapacity)
	if err := s.fs.WriteFile(s.WorldPath(), []byte(data)); err != nil {
		return NewSceneError("write world descriptor", err)
	}
	return nil
}

func parseWorldDescriptor(data []byte) (int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != capacityKey {
			continue
		}
		if len(fields) != 2 {
			return 0, fmt.Errorf("malformed %s line %q", capacityKey, scanner.Text())
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid %s %q", capacityKey, fields[1])
		}
		return n, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s: %w", capacityKey, ErrNotFound)
}
