package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	applescene "github.com/Qapples/AppleSceneEditor-sub000"
)

const Version = "0.1.0"

// Globals are flags shared by every command
type Globals struct {
	Config  string           `help:"Path to a YAML config file. Defaults to the nearest applescene.yml." type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	New             NewCmd             `cmd:"" help:"Create a new scene directory."`
	Info            InfoCmd            `cmd:"" help:"List the entities of a scene."`
	AddEntity       AddEntityCmd       `cmd:"" help:"Add an entity."`
	RemoveEntity    RemoveEntityCmd    `cmd:"" help:"Remove an entity."`
	AddComponent    AddComponentCmd    `cmd:"" help:"Add a component to an entity."`
	RemoveComponent RemoveComponentCmd `cmd:"" help:"Remove a component from an entity."`
	Parent          ParentCmd          `cmd:"" help:"Make one entity the child of another."`
	Transform       TransformCmd       `cmd:"" help:"Set an entity transform."`
	Script          ScriptCmd          `cmd:"" help:"Run an edit script against a scene and save it."`
}

type NewCmd struct {
	Dir      string `arg:"" help:"Scene directory." type:"path"`
	Name     string `help:"Scene name. Defaults to the directory name."`
	Capacity int    `help:"WorldMaxCapacity of the scene." default:"128"`
}

func (c *NewCmd) Run(g *Globals) error {
	log := newLogger(g, nil)
	scene, err := applescene.CreateScene(applescene.OSFileSystem{}, c.Dir, c.Name, c.Capacity)
	if err != nil {
		return err
	}
	log.Infof("created scene %s in %s", scene.Name, scene.Dir)
	return nil
}

type InfoCmd struct {
	Dir string `arg:"" help:"Scene directory." type:"existingdir"`
}

func (c *InfoCmd) Run(g *Globals) error {
	ed, err := openEditor(g, c.Dir)
	if err != nil {
		return err
	}
	defer ed.Close()

	fmt.Printf("scene %s (capacity %d, %d entities)\n", ed.Scene.Name, ed.Scene.MaxCapacity, ed.Scene.Len())
	printTree(os.Stdout, ed, ed.EntitiesPanel, 0)
	if problems := ed.Scene.Problems(); problems != nil {
		fmt.Printf("\n%v\n", problems)
	}
	return nil
}

func printTree(w io.Writer, ed *applescene.Editor, panel *applescene.Widget, depth int) {
	for _, b := range panel.ChildrenOfKind(applescene.KindButton) {
		e, ok := ed.Scene.Find(b.ID)
		if !ok {
			continue
		}
		var types []string
		if comps, ok := e.Components(); ok {
			for _, c := range comps.Elements() {
				t, _ := c.TypeName()
				types = append(types, applescene.ShortTypeName(t))
			}
		}
		fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth+1), e.ID, strings.Join(types, ", "))
		printTree(w, ed, b, depth+1)
	}
}

type AddEntityCmd struct {
	Dir        string   `arg:"" help:"Scene directory." type:"existingdir"`
	ID         string   `arg:"" help:"Entity id."`
	Components []string `arg:"" optional:"" help:"Component types to start with."`
}

func (c *AddEntityCmd) Run(g *Globals) error {
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		_, err := ed.AddEntity(c.ID, c.Components...)
		return err
	})
}

type RemoveEntityCmd struct {
	Dir string `arg:"" help:"Scene directory." type:"existingdir"`
	ID  string `arg:"" help:"Entity id."`
}

func (c *RemoveEntityCmd) Run(g *Globals) error {
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return ed.RemoveEntity(c.ID)
	})
}

type AddComponentCmd struct {
	Dir  string `arg:"" help:"Scene directory." type:"existingdir"`
	ID   string `arg:"" help:"Entity id."`
	Type string `arg:"" help:"Component type."`
}

func (c *AddComponentCmd) Run(g *Globals) error {
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return ed.AddComponent(c.ID, c.Type)
	})
}

type RemoveComponentCmd struct {
	Dir  string `arg:"" help:"Scene directory." type:"existingdir"`
	ID   string `arg:"" help:"Entity id."`
	Type string `arg:"" help:"Component type."`
}

func (c *RemoveComponentCmd) Run(g *Globals) error {
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return ed.RemoveComponent(c.ID, c.Type)
	})
}

type ParentCmd struct {
	Dir    string `arg:"" help:"Scene directory." type:"existingdir"`
	Child  string `arg:"" help:"Child entity id."`
	Parent string `arg:"" help:"Parent entity id."`
}

func (c *ParentCmd) Run(g *Globals) error {
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return ed.AssignParent(c.Child, c.Parent)
	})
}

type TransformCmd struct {
	Dir      string `arg:"" help:"Scene directory." type:"existingdir"`
	ID       string `arg:"" help:"Entity id."`
	Position string `help:"Position as \"x y z\"." short:"p"`
	Rotation string `help:"Euler rotation in degrees as \"x y z\"." short:"r"`
	Scale    string `help:"Scale as \"x y z\"." short:"s"`
	Box      bool   `help:"Scale the collision box half extent with the transform."`
}

func (c *TransformCmd) Run(g *Globals) error {
	line := []string{"transform", c.ID}
	for _, opt := range []struct{ key, value string }{
		{"pos", c.Position}, {"rot", c.Rotation}, {"scale", c.Scale},
	} {
		if opt.value != "" {
			line = append(line, opt.key+"="+strings.Join(strings.Fields(opt.value), ","))
		}
	}
	if c.Box {
		line = append(line, "box")
	}
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return applescene.RunScript(ed, strings.NewReader(strings.Join(line, " ")))
	})
}

type ScriptCmd struct {
	Dir  string `arg:"" help:"Scene directory." type:"existingdir"`
	File string `arg:"" optional:"" help:"Script file. Reads stdin when omitted." type:"existingfile"`
}

func (c *ScriptCmd) Run(g *Globals) error {
	var r io.Reader = os.Stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return edit(g, c.Dir, func(ed *applescene.Editor) error {
		return applescene.RunScript(ed, r)
	})
}

func loadConfig(g *Globals) (*applescene.Config, error) {
	path := g.Config
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = applescene.FindConfigFile(applescene.OSFileSystem{}, wd)
		}
	}
	if path == "" {
		return applescene.DefaultConfig(), nil
	}
	return applescene.LoadConfig(applescene.OSFileSystem{}, path)
}

func newLogger(g *Globals, cfg *applescene.Config) applescene.Logger {
	return applescene.NewConfigLogger(cfg, g.Debug)
}

func openEditor(g *Globals, dir string) (*applescene.Editor, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	return applescene.OpenEditor(dir, cfg, applescene.OSFileSystem{}, newLogger(g, cfg))
}

// edit opens the scene, applies fn and saves the result.
func edit(g *Globals, dir string, fn func(*applescene.Editor) error) error {
	ed, err := openEditor(g, dir)
	if err != nil {
		return err
	}
	defer ed.Close()
	if err := fn(ed); err != nil {
		return err
	}
	return ed.Save()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("applescene"),
		kong.Description("Edit AppleScene scene directories."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if applescene.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
