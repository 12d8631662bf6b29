package applescene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// ComponentSchema describes one component type the editor understands: its
// fields, how to turn its JSON into an ECS component, and its default value.
type ComponentSchema struct {
	Name      string
	Fields    []string
	Prototype *jsondoc.Object

	build func(*jsondoc.Object) (any, error)
	zero  any
}

// Build converts a component object into the ECS value for this schema.
func (s *ComponentSchema) Build(obj *jsondoc.Object) (any, error) {
	return s.build(obj)
}

// Registry maps $type names to schemas. It is filled explicitly at startup.
type Registry struct {
	schemas map[string]*ComponentSchema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*ComponentSchema)}
}

// Register adds a schema whose ECS representation is T.
func Register[T any](r *Registry, name string, prototype *jsondoc.Object, build func(*jsondoc.Object) (T, error)) *ComponentSchema {
	var zero T
	componentType(zero)

	var fields []string
	for _, p := range prototype.Properties() {
		if p.Name() != jsondoc.TypeKey {
			fields = append(fields, p.Name())
		}
	}

	s := &ComponentSchema{
		Name:      name,
		Fields:    fields,
		Prototype: prototype,
		zero:      zero,
		build: func(obj *jsondoc.Object) (any, error) {
			return build(obj)
		},
	}
	r.schemas[name] = s
	return s
}

// Lookup resolves a $type value. Fully qualified names such as
// "GrappleFight.Components.TransformInfo, GrappleFight" resolve by their
// short type name when the full name is not registered.
func (r *Registry) Lookup(typeName string) (*ComponentSchema, bool) {
	if s, ok := r.schemas[typeName]; ok {
		return s, true
	}
	s, ok := r.schemas[ShortTypeName(typeName)]
	return s, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShortTypeName strips assembly and namespace qualifiers from a $type value.
func ShortTypeName(typeName string) string {
	if i := strings.IndexByte(typeName, ','); i >= 0 {
		typeName = typeName[:i]
	}
	typeName = strings.TrimSpace(typeName)
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		typeName = typeName[i+1:]
	}
	return typeName
}

// IsType reports whether obj's $type names the same type as name, comparing
// short type names.
func IsType(obj *jsondoc.Object, name string) bool {
	t, ok := obj.TypeName()
	return ok && ShortTypeName(t) == ShortTypeName(name)
}

// RegisterBuiltins registers the components the editor ships with.
func RegisterBuiltins(r *Registry) {
	Register(r, TransformType,
		jsondoc.MustParse(`{"$type": "TransformInfo", "position": "0 0 0", "rotation": "0 0 0", "scale": "1 1 1"}`),
		parseTransformInfo)

	Register(r, CollisionBoxType,
		jsondoc.MustParse(`{"$type": "CollisionBoxInfo", "position": "0 0 0", "halfExtent": "0 0 0", "rotation": "0 0 0"}`),
		func(obj *jsondoc.Object) (CollisionBoxInfo, error) {
			var b CollisionBoxInfo
			var err error
			if b.Position, err = vecField(obj, fieldPosition, zeroVec); err != nil {
				return b, err
			}
			if b.HalfExtent, err = vecField(obj, fieldHalfExtent, zeroVec); err != nil {
				return b, err
			}
			b.Rotation, err = vecField(obj, fieldRotation, zeroVec)
			return b, err
		})

	Register(r, ParentType,
		jsondoc.MustParse(`{"$type": "ParentInfo", "parentId": ""}`),
		func(obj *jsondoc.Object) (ParentInfo, error) {
			id, _ := obj.StringProperty(fieldParentID)
			return ParentInfo{ParentID: id}, nil
		})
}

func parseTransformInfo(obj *jsondoc.Object) (TransformInfo, error) {
	var t TransformInfo
	var err error
	if t.Position, err = vecField(obj, fieldPosition, zeroVec); err != nil {
		return t, err
	}
	if t.Rotation, err = vecField(obj, fieldRotation, zeroVec); err != nil {
		return t, err
	}
	t.Scale, err = vecField(obj, fieldScale, unitVec)
	return t, err
}

const (
	zeroVec = "0 0 0"
	unitVec = "1 1 1"
)

// vecField reads a vector property, falling back to def when it is absent.
func vecField(obj *jsondoc.Object, name string, def string) (v mgl32.Vec3, err error) {
	s, ok := obj.StringProperty(name)
	if !ok {
		s = def
	}
	v, err = ParseVec3(s)
	if err != nil {
		return v, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
