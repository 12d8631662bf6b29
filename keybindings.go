package applescene

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

type Action string

const (
	ActionSave           Action = "save"
	ActionOpen           Action = "open"
	ActionNew            Action = "new"
	ActionUndo           Action = "undo"
	ActionRedo           Action = "redo"
	ActionRemoveEntity   Action = "removeEntity"
	ActionCameraForward  Action = "cameraForward"
	ActionCameraBackward Action = "cameraBackward"
	ActionCameraLeft     Action = "cameraLeft"
	ActionCameraRight    Action = "cameraRight"
	ActionCameraUp       Action = "cameraUp"
	ActionCameraDown     Action = "cameraDown"
)

// Actions is the fixed catalog a binding file may name.
var Actions = []Action{
	ActionSave, ActionOpen, ActionNew, ActionUndo, ActionRedo, ActionRemoveEntity,
	ActionCameraForward, ActionCameraBackward, ActionCameraLeft,
	ActionCameraRight, ActionCameraUp, ActionCameraDown,
}

// cameraAxes maps continuous camera actions to a move direction in camera
// space: x right, y up, z forward.
var cameraAxes = map[Action]mgl32.Vec3{
	ActionCameraForward:  {0, 0, 1},
	ActionCameraBackward: {0, 0, -1},
	ActionCameraLeft:     {-1, 0, 0},
	ActionCameraRight:    {1, 0, 0},
	ActionCameraUp:       {0, 1, 0},
	ActionCameraDown:     {0, -1, 0},
}

func (a Action) continuous() bool {
	_, ok := cameraAxes[a]
	return ok
}

func parseAction(name string) (Action, bool) {
	return lo.Find(Actions, func(a Action) bool { return strings.EqualFold(string(a), name) })
}

type Binding struct {
	Action Action
	Keys   []Key
}

func (b Binding) held(in *Input) bool {
	return lo.EveryBy(b.Keys, func(k Key) bool { return in.Pressed[k] })
}

func (b Binding) triggered(in *Input) bool {
	return lo.SomeBy(b.Keys, func(k Key) bool { return in.JustPressed[k] })
}

// contains reports whether b's chord is a strict superset of other's.
func (b Binding) contains(other Binding) bool {
	return len(b.Keys) > len(other.Keys) && lo.Every(b.Keys, other.Keys)
}

// ParseBinding parses one "action: KEY1 KEY2" line.
func ParseBinding(line string) (Binding, error) {
	name, keys, ok := strings.Cut(line, ":")
	if !ok {
		return Binding{}, fmt.Errorf("%w: missing ':' in %q", ErrMalformedBinding, line)
	}
	action, ok := parseAction(strings.TrimSpace(name))
	if !ok {
		return Binding{}, fmt.Errorf("%w: unknown action %q", ErrMalformedBinding, strings.TrimSpace(name))
	}

	b := Binding{Action: action}
	for _, tok := range strings.Fields(keys) {
		k, ok := ParseKey(tok)
		if !ok {
			return Binding{}, fmt.Errorf("%w: unknown key %q for %s", ErrMalformedBinding, tok, action)
		}
		if !slices.Contains(b.Keys, k) {
			b.Keys = append(b.Keys, k)
		}
	}
	if len(b.Keys) == 0 {
		return Binding{}, fmt.Errorf("%w: no keys for %s", ErrMalformedBinding, action)
	}
	return b, nil
}

// Keymap holds at most one binding per action, in file order.
type Keymap struct {
	bindings []Binding
}

func (m *Keymap) Bindings() []Binding { return slices.Clone(m.bindings) }

func (m *Keymap) Binding(a Action) (Binding, bool) {
	return lo.Find(m.bindings, func(b Binding) bool { return b.Action == a })
}

// Set adds or replaces the binding for b.Action.
func (m *Keymap) Set(b Binding) {
	if i := slices.IndexFunc(m.bindings, func(x Binding) bool { return x.Action == b.Action }); i >= 0 {
		m.bindings[i] = b
		return
	}
	m.bindings = append(m.bindings, b)
}

// ParseKeymap reads a binding file. Blank lines and lines starting with '#'
// are ignored. Malformed lines are logged and skipped; the returned error
// lists them while the keymap holds every valid binding.
func ParseKeymap(data []byte, log Logger) (*Keymap, error) {
	log = orNop(log)
	m := &Keymap{}
	var problems *multierror.Error

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b, err := ParseBinding(line)
		if err != nil {
			log.Warnf("keybindings line %d: %v", n, err)
			problems = multierror.Append(problems, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		m.Set(b)
	}
	if err := scanner.Err(); err != nil {
		problems = multierror.Append(problems, err)
	}
	return m, problems.ErrorOrNil()
}

// LoadKeymap reads a binding file. A missing file is fatal.
func LoadKeymap(fsys FileSystem, path string, log Logger) (*Keymap, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, NewResourceError("keybindings "+path, ErrResourceMissing)
		}
		return nil, NewResourceError("keybindings "+path, err)
	}
	m, err := ParseKeymap(data, log)
	if err != nil {
		orNop(log).Debugf("keybindings %s loaded with problems: %v", path, err)
	}
	return m, nil
}

const defaultKeymap = `
save: LeftControl S
open: LeftControl O
new: LeftControl N
undo: LeftControl Z
redo: LeftControl LeftShift Z
removeEntity: Delete
cameraForward: W
cameraBackward: S
cameraLeft: A
cameraRight: D
cameraUp: E
cameraDown: Q
`

func DefaultKeymap() *Keymap {
	m, _ := ParseKeymap([]byte(defaultKeymap), nil)
	return m
}

// Intents is everything the input step asks of one frame.
type Intents struct {
	Actions    []Action
	CameraMove mgl32.Vec3
}

func (i Intents) Has(a Action) bool {
	return slices.Contains(i.Actions, a)
}

// Intents evaluates the keymap against one frame of input. A binding is
// active when all of its keys are held; discrete actions additionally need
// one of their keys pressed this frame. A binding is suppressed while a
// longer binding containing its chord is fully held, so Ctrl+S saves
// without also moving the camera back.
func (m *Keymap) Intents(in *Input) Intents {
	var out Intents
	for _, b := range m.bindings {
		if !b.held(in) {
			continue
		}
		if !b.Action.continuous() && !b.triggered(in) {
			continue
		}
		if lo.SomeBy(m.bindings, func(o Binding) bool { return o.contains(b) && o.held(in) }) {
			continue
		}
		if axis, ok := cameraAxes[b.Action]; ok {
			out.CameraMove = out.CameraMove.Add(axis)
		}
		out.Actions = append(out.Actions, b.Action)
	}
	return out
}
