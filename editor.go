package applescene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// Well known widget ids.
const (
	RootWidgetID      = "root"
	EntitiesWidgetID  = "entities"
	InspectorWidgetID = "inspector"
)

// ActionContext carries what a keybinding handler may touch.
type ActionContext struct {
	Editor    *Editor
	Stream    *CommandStream
	Scene     *Scene
	Selection *Entity
	Log       Logger
}

type ActionHandler func(ctx ActionContext) error

type EditorOptions struct {
	Registry     *Registry
	Prototypes   *PrototypeCatalog
	Keymap       *Keymap
	Log          Logger
	FS           FileSystem
	Camera       CameraConfig
	HistoryLimit int
}

// Editor is one open scene: the documents, their ECS and widget mirrors and
// the undo history over all of them.
type Editor struct {
	Scene      *Scene
	World      *World
	Registry   *Registry
	Prototypes *PrototypeCatalog
	Keymap     *Keymap
	Stream     *CommandStream
	Camera     *Camera
	Log        Logger
	FS         FileSystem

	Root          *Widget
	EntitiesPanel *Widget
	Inspector     *Widget
	Views         *WidgetViews

	Handlers map[Action]ActionHandler

	selected *Entity
}

// OpenEditor loads the resources named by cfg and the scene in dir. Missing
// resource files are fatal; broken entity files are logged and skipped.
func OpenEditor(dir string, cfg *Config, fsys FileSystem, log Logger) (*Editor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	log = orNop(log)

	registry := NewRegistry()
	RegisterBuiltins(registry)

	prototypes := DefaultPrototypeCatalog(registry)
	if cfg.Prototypes != "" {
		var err error
		if prototypes, err = LoadPrototypeCatalog(fsys, cfg.Prototypes); err != nil {
			return nil, err
		}
	}

	keymap := DefaultKeymap()
	if cfg.Keybindings != "" {
		var err error
		if keymap, err = LoadKeymap(fsys, cfg.Keybindings, log); err != nil {
			return nil, err
		}
	}

	scene, err := OpenScene(fsys, dir)
	if err != nil {
		return nil, err
	}
	log = named(log, scene.Name)
	if problems := scene.Problems(); problems != nil {
		log.Warnf("scene %s: %v", dir, problems)
	}

	return NewEditor(scene, EditorOptions{
		Registry:   registry,
		Prototypes: prototypes,
		Keymap:     keymap,
		Log:        log,
		FS:         fsys,
		Camera:     cfg.Camera,
	}), nil
}

// NewEditor mounts every entity of scene. Zero options fall back to the
// built-in registry, prototypes and keymap.
func NewEditor(scene *Scene, opts EditorOptions) *Editor {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
		RegisterBuiltins(opts.Registry)
	}
	if opts.Prototypes == nil {
		opts.Prototypes = DefaultPrototypeCatalog(opts.Registry)
	}
	if opts.Keymap == nil {
		opts.Keymap = DefaultKeymap()
	}
	if opts.FS == nil {
		opts.FS = scene.fs
	}
	log := orNop(opts.Log)

	ed := &Editor{
		Scene:      scene,
		World:      NewWorld(),
		Registry:   opts.Registry,
		Prototypes: opts.Prototypes,
		Keymap:     opts.Keymap,
		Stream:     NewCommandStream(log),
		Camera:     NewCamera(opts.Camera),
		Log:        log,
		FS:         opts.FS,

		Root:          NewWidget(KindStackPanel, RootWidgetID, ""),
		EntitiesPanel: NewWidget(KindStackPanel, EntitiesWidgetID, "Entities"),
		Inspector:     NewWidget(KindStackPanel, InspectorWidgetID, "Inspector"),
		Views:         NewWidgetViews(),
	}
	ed.Stream.Limit = opts.HistoryLimit
	ed.Root.AddChild(ed.EntitiesPanel)
	ed.Root.AddChild(ed.Inspector)
	ed.Handlers = defaultHandlers()
	ed.mountScene()
	return ed
}

func (ed *Editor) mountScene() {
	for _, e := range ed.Scene.entities {
		ed.mount(e)
	}
	// Parents may come after their children in the scene, so buttons are
	// placed once everything is mounted.
	for _, e := range ed.Scene.entities {
		ed.placeButton(e)
	}
}

// Reload reads the scene directory again. Unsaved edits and the history are
// discarded.
func (ed *Editor) Reload() error {
	scene, err := OpenScene(ed.FS, ed.Scene.Dir)
	if err != nil {
		return err
	}
	if problems := scene.Problems(); problems != nil {
		ed.Log.Warnf("scene %s: %v", scene.Dir, problems)
	}

	for _, e := range ed.Scene.entities {
		ed.unmount(e)
	}
	limit := ed.Stream.Limit
	ed.Stream.Dispose()
	ed.Stream = NewCommandStream(ed.Log)
	ed.Stream.Limit = limit

	ed.Scene = scene
	ed.mountScene()
	ed.Log.Infof("reloaded scene %s (%d entities)", scene.Name, scene.Len())
	return nil
}

func defaultHandlers() map[Action]ActionHandler {
	return map[Action]ActionHandler{
		ActionSave: func(ctx ActionContext) error { return ctx.Editor.Save() },
		ActionOpen: func(ctx ActionContext) error { return ctx.Editor.Reload() },
		ActionUndo: func(ctx ActionContext) error {
			ctx.Stream.Undo()
			return nil
		},
		ActionRedo: func(ctx ActionContext) error {
			ctx.Stream.Redo()
			return nil
		},
		ActionRemoveEntity: func(ctx ActionContext) error {
			if ctx.Selection == nil {
				return nil
			}
			return ctx.Editor.RemoveEntity(ctx.Selection.ID)
		},
		ActionNew: func(ctx ActionContext) error {
			id, err := ctx.Editor.AddEntity("", TransformType)
			if err != nil {
				return err
			}
			if e, ok := ctx.Scene.Find(id); ok {
				ctx.Editor.Select(e)
			}
			return nil
		},
	}
}

func (ed *Editor) Selected() *Entity { return ed.selected }

// Select shows e's component panel in the inspector. nil clears it.
func (ed *Editor) Select(e *Entity) {
	if ed.selected != nil && ed.selected.Panel != nil {
		ed.selected.Panel.Detach()
	}
	ed.selected = e
	if e != nil && e.Panel != nil {
		ed.Inspector.AddChild(e.Panel)
	}
}

// Update consumes one frame of input.
func (ed *Editor) Update(in *Input, dt float32) {
	ed.Apply(ed.Keymap.Intents(in), dt)
	in.EndFrame()
}

// Apply runs the handlers for a frame's intents and moves the camera.
func (ed *Editor) Apply(intents Intents, dt float32) {
	for _, a := range intents.Actions {
		if a.continuous() {
			continue
		}
		handler, ok := ed.Handlers[a]
		if !ok {
			ed.Log.Debugf("no handler bound for %s", a)
			continue
		}
		if err := handler(ed.actionContext()); err != nil {
			ed.Log.Warnf("%s: %v", a, err)
		}
	}
	ed.Camera.Move(intents.CameraMove, dt)
}

func (ed *Editor) actionContext() ActionContext {
	return ActionContext{
		Editor:    ed,
		Stream:    ed.Stream,
		Scene:     ed.Scene,
		Selection: ed.selected,
		Log:       ed.Log,
	}
}

func (ed *Editor) Undo() bool { return ed.Stream.Undo() }
func (ed *Editor) Redo() bool { return ed.Stream.Redo() }

func (ed *Editor) Save() error {
	if err := ed.Scene.Save(); err != nil {
		return err
	}
	ed.Log.Infof("saved scene %s (%d entities)", ed.Scene.Name, ed.Scene.Len())
	return nil
}

// Close disposes the history. The editor must not be used afterwards.
func (ed *Editor) Close() {
	ed.Stream.Dispose()
}

func (ed *Editor) push(cmd Command) error {
	return ed.Stream.PushAndExecute(cmd)
}

func (ed *Editor) find(id string) (*Entity, error) {
	e, ok := ed.Scene.Find(id)
	if !ok {
		return nil, NewCommandError(fmt.Sprintf("entity %q", id), ErrNotFound)
	}
	return e, nil
}

func (ed *Editor) prototype(typeName string) (*jsondoc.Object, error) {
	p, ok := ed.Prototypes.Lookup(typeName)
	if !ok {
		return nil, NewCommandError(typeName, ErrUnknownComponent)
	}
	return p, nil
}

// AddEntity creates an entity with one component per type name. An empty id
// gets a generated one.
func (ed *Editor) AddEntity(id string, types ...string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !ValidEntityID(id) {
		return "", NewCommandError(fmt.Sprintf("entity %q", id), ErrInvalidEntityID)
	}
	// a file can exist without a loaded entity: its id differs from its
	// name, or it failed to parse
	if _, ok := ed.Scene.Find(id); ok || ed.FS.Exists(ed.Scene.EntityPath(id)) {
		return "", NewCommandError(fmt.Sprintf("entity %q", id), ErrEntityExists)
	}
	var protos []*jsondoc.Object
	for _, t := range types {
		p, err := ed.prototype(t)
		if err != nil {
			return "", err
		}
		protos = append(protos, p)
	}
	return id, ed.push(NewAddEntityCommand(ed, NewEntityDoc(id, protos...)))
}

func (ed *Editor) RemoveEntity(id string) error {
	e, err := ed.find(id)
	if err != nil {
		return err
	}
	return ed.push(NewRemoveEntityCommand(ed, e))
}

func (ed *Editor) AddComponent(id, typeName string) error {
	e, err := ed.find(id)
	if err != nil {
		return err
	}
	p, err := ed.prototype(typeName)
	if err != nil {
		return err
	}
	return ed.push(NewAddComponentCommand(ed, e, p))
}

func (ed *Editor) RemoveComponent(id, typeName string) error {
	e, err := ed.find(id)
	if err != nil {
		return err
	}
	comp, _, ok := e.FindComponent(typeName)
	if !ok {
		return NewCommandError(fmt.Sprintf("entity %q component %s", id, typeName), ErrNotFound)
	}
	return ed.push(NewRemoveComponentCommand(ed, e, comp))
}

func (ed *Editor) componentArray(id, typeName, arrayName string) (*jsondoc.Array, *jsondoc.Object, error) {
	e, err := ed.find(id)
	if err != nil {
		return nil, nil, err
	}
	comp, _, ok := e.FindComponent(typeName)
	if !ok {
		return nil, nil, NewCommandError(fmt.Sprintf("entity %q component %s", id, typeName), ErrNotFound)
	}
	arr, ok := comp.FindArray(arrayName, jsondoc.Ordinal)
	if !ok {
		return nil, nil, NewCommandError(fmt.Sprintf("entity %q %s.%s", id, typeName, arrayName), ErrNotFound)
	}
	return arr, comp, nil
}

// AddArrayElement appends a copy of the array's first element.
func (ed *Editor) AddArrayElement(id, typeName, arrayName string) error {
	arr, comp, err := ed.componentArray(id, typeName, arrayName)
	if err != nil {
		return err
	}
	cmd := NewAddArrayElementCommand(arr, nil, ed.Views, ed.Log)
	cmd.OnChange = ed.componentSync(id, comp)
	cmd.Locate = ed.arrayLocator(id, typeName, arrayName)
	return ed.push(cmd)
}

func (ed *Editor) RemoveArrayElement(id, typeName, arrayName string, index int) error {
	arr, comp, err := ed.componentArray(id, typeName, arrayName)
	if err != nil {
		return err
	}
	elem, ok := arr.At(index)
	if !ok {
		return NewCommandError(fmt.Sprintf("%s.%s[%d]", typeName, arrayName, index), ErrNotFound)
	}
	cmd := NewRemoveArrayElementCommand(arr, elem, ed.Views, ed.Log)
	cmd.OnChange = ed.componentSync(id, comp)
	cmd.Locate = ed.arrayLocator(id, typeName, arrayName)
	return ed.push(cmd)
}

// arrayLocator finds the named array in the entity's current document.
func (ed *Editor) arrayLocator(id, typeName, arrayName string) ArrayLocator {
	return func() (*jsondoc.Array, bool) {
		arr, _, err := ed.componentArray(id, typeName, arrayName)
		return arr, err == nil
	}
}

func (ed *Editor) componentSync(id string, comp *jsondoc.Object) func() {
	return func() {
		e, ok := ed.Scene.Find(id)
		if !ok {
			return
		}
		if t, ok := comp.TypeName(); ok {
			ed.syncComponent(e, t)
		}
	}
}

func (ed *Editor) AssignParent(childID, parentID string) error {
	child, err := ed.find(childID)
	if err != nil {
		return err
	}
	cmd, err := NewAssignParentToEntityCommand(ed, child, parentID)
	if err != nil {
		return err
	}
	return ed.push(cmd)
}

// SetTransform replaces an entity's transform. With scaleBox the collision
// box half extent follows the scale change.
func (ed *Editor) SetTransform(id string, position, rotation, scale mgl32.Vec3, scaleBox bool) error {
	e, err := ed.find(id)
	if err != nil {
		return err
	}
	if _, _, ok := e.FindComponent(TransformType); !ok {
		return NewCommandError(fmt.Sprintf("entity %q component %s", id, TransformType), ErrNotFound)
	}
	return ed.push(NewChangeTransformCommand(ed, e, ComposeTransform(position, rotation, scale), scaleBox))
}

// mount creates the ECS entity and widgets for e. The button is not placed.
func (ed *Editor) mount(e *Entity) {
	e.Handle = ed.World.CreateEntity(EntityInfo{ID: e.ID})
	e.Button = NewWidget(KindButton, e.ID, e.ID)
	e.Panel = NewWidget(KindStackPanel, "", e.ID)

	comps, ok := e.Components()
	if !ok {
		return
	}
	for _, c := range comps.Elements() {
		e.Panel.AddChild(ed.Views.BuildComponentWidget(c))
		if t, ok := c.TypeName(); ok {
			ed.syncComponent(e, t)
		}
	}
}

func (ed *Editor) unmount(e *Entity) {
	if ed.selected == e {
		ed.Select(nil)
	}
	ed.World.DisposeEntity(e.Handle)
	if e.Button != nil {
		e.Button.Detach()
	}
	if e.Panel != nil {
		e.Panel.Detach()
	}
	if comps, ok := e.Components(); ok {
		for _, c := range comps.Elements() {
			ed.Views.Forget(c)
		}
	}
}

// placeButton puts e's button under its parent's button, or at the root of
// the entity list when it has no live parent. A button already in the right
// place keeps its index.
func (ed *Editor) placeButton(e *Entity) {
	target := ed.EntitiesPanel
	if pid, ok := e.ParentID(); ok {
		if parent, ok := ed.Scene.Find(pid); ok && parent.Button != nil && !under(parent.Button, e.Button) {
			target = parent.Button
		}
	}
	if e.Button.Parent() != target {
		target.AddChild(e.Button)
	}
}

// under reports whether w is root or one of its descendants.
func under(w, root *Widget) bool {
	for ; w != nil; w = w.Parent() {
		if w == root {
			return true
		}
	}
	return false
}

// attached reports whether w hangs off the editor's root.
func (ed *Editor) attached(w *Widget) bool {
	return under(w, ed.Root)
}

// syncComponent mirrors the first component of typeName into the ECS, or
// removes it there when the entity no longer has one.
func (ed *Editor) syncComponent(e *Entity, typeName string) {
	schema, ok := ed.Registry.Lookup(typeName)
	if !ok {
		ed.Log.Debugf("entity %q: no schema for %s, not mirrored", e.ID, typeName)
		return
	}
	if !ed.World.Alive(e.Handle) {
		return
	}
	comp, _, ok := e.FindComponent(schema.Name)
	if !ok {
		ed.World.Remove(e.Handle, schema.zero)
		return
	}
	value, err := schema.Build(comp)
	if err != nil {
		ed.Log.Warnf("entity %q: %s: %v", e.ID, schema.Name, err)
		return
	}
	ed.World.Set(e.Handle, value)
}

// refreshComponent rebuilds the grid of comp after its properties changed.
func (ed *Editor) refreshComponent(e *Entity, comp *jsondoc.Object) {
	if e.Panel == nil {
		return
	}
	comps, ok := e.Components()
	if !ok {
		return
	}
	i := comps.IndexOf(comp)
	old, ok := e.Panel.ChildAt(i)
	if !ok {
		return
	}
	ed.Views.Forget(comp)
	e.Panel.RemoveChild(old)
	e.Panel.InsertChild(i, ed.Views.BuildComponentWidget(comp))
}
