package applescene

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// memFS is an in-memory FileSystem. Paths listed in failWrite/failRemove
// return errors.
type memFS struct {
	files      map[string][]byte
	dirs       map[string]bool
	failWrite  map[string]bool
	failRemove map[string]bool
}

func newMemFS() *memFS {
	return &memFS{
		files:      map[string][]byte{},
		dirs:       map[string]bool{},
		failWrite:  map[string]bool{},
		failRemove: map[string]bool{},
	}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)
	if m.failWrite[path] {
		return fmt.Errorf("write %s: injected failure", path)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) Remove(path string) error {
	path = filepath.Clean(path)
	if m.failRemove[path] {
		return fmt.Errorf("remove %s: injected failure", path)
	}
	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, path)
	return nil
}

func (m *memFS) Exists(path string) bool {
	path = filepath.Clean(path)
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

func (m *memFS) MkdirAll(path string) error {
	for p := filepath.Clean(path); p != "." && p != "/"; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *memFS) ReadDir(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}
	var names []string
	for p := range m.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

// recordLogger keeps every line for assertions.
type recordLogger struct {
	lines []string
}

func (l *recordLogger) DebugEnabled() bool { return true }
func (l *recordLogger) SetDebug(bool)      {}
func (l *recordLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(format, args...))
}
func (l *recordLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, "INFO "+fmt.Sprintf(format, args...))
}
func (l *recordLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}
func (l *recordLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func (l *recordLogger) contains(level, substr string) bool {
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

const sceneDir = "/scenes/arena"

// newTestEditor opens an empty in-memory scene with the given entity files.
func newTestEditor(t *testing.T, entities ...string) (*Editor, *memFS, *recordLogger) {
	t.Helper()
	fsys := newMemFS()
	_, err := CreateScene(fsys, sceneDir, "arena", 0)
	require.NoError(t, err)

	for _, text := range entities {
		doc, id, err := ParseEntity([]byte(text))
		require.NoError(t, err)
		data, err := doc.MarshalIndent()
		require.NoError(t, err)
		require.NoError(t, fsys.WriteFile(filepath.Join(sceneDir, EntitiesDir, id+EntityExt), data))
	}

	scene, err := OpenScene(fsys, sceneDir)
	require.NoError(t, err)
	require.NoError(t, scene.Problems())

	log := &recordLogger{}
	ed := NewEditor(scene, EditorOptions{Log: log, FS: fsys})
	return ed, fsys, log
}

func mustEntity(t *testing.T, ed *Editor, id string) *Entity {
	t.Helper()
	e, ok := ed.Scene.Find(id)
	require.True(t, ok, "entity %q", id)
	return e
}

func componentTypes(e *Entity) []string {
	comps, ok := e.Components()
	if !ok {
		return nil
	}
	var types []string
	for _, c := range comps.Elements() {
		t, _ := c.TypeName()
		types = append(types, t)
	}
	return types
}

func property(t *testing.T, obj *jsondoc.Object, name string) string {
	t.Helper()
	s, ok := obj.StringProperty(name)
	require.True(t, ok, "property %q", name)
	return s
}

const (
	baseEntity = `{"id": "Base", "components": [{"$type": "TransformInfo", "position": "0 0 0", "rotation": "0 0 0", "scale": "1 1 1"}]}`
	boxEntity  = `{"id": "Crate", "components": [
		{"$type": "TransformInfo", "position": "1 2 3", "rotation": "0 0 0", "scale": "2 2 2"},
		{"$type": "CollisionBoxInfo", "position": "0 0 0", "halfExtent": "4 4 4", "rotation": "0 0 0"}
	]}`
	pathEntity = `{"id": "Patrol", "components": [
		{"$type": "TransformInfo", "position": "0 0 0", "rotation": "0 0 0", "scale": "1 1 1"},
		{"$type": "PathInfo", "points": [{"at": "0 0 0"}, {"at": "1 0 0"}, {"at": "2 0 0"}]}
	]}`
)
