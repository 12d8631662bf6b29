package applescene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RunScript applies a line oriented edit script to ed, one command per
// line. Blank lines and '#' comments are skipped. The first failing line
// stops the script.
//
//	add-entity <id> [Type...]
//	remove-entity <id>
//	add-component <id> <Type>
//	remove-component <id> <Type>
//	add-element <id> <Type> <array>
//	remove-element <id> <Type> <array> <index>
//	parent <child> <parent>
//	transform <id> [pos=x,y,z] [rot=x,y,z] [scale=x,y,z] [box]
//	select <id>
//	undo | redo | save
func RunScript(ed *Editor, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := runLine(ed, strings.Fields(line)); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func runLine(ed *Editor, args []string) error {
	name, args := args[0], args[1:]
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d arguments, got %d", name, n, len(args))
		}
		return nil
	}

	switch name {
	case "add-entity":
		if err := need(1); err != nil {
			return err
		}
		_, err := ed.AddEntity(args[0], args[1:]...)
		return err
	case "remove-entity":
		if err := need(1); err != nil {
			return err
		}
		return ed.RemoveEntity(args[0])
	case "add-component":
		if err := need(2); err != nil {
			return err
		}
		return ed.AddComponent(args[0], args[1])
	case "remove-component":
		if err := need(2); err != nil {
			return err
		}
		return ed.RemoveComponent(args[0], args[1])
	case "add-element":
		if err := need(3); err != nil {
			return err
		}
		return ed.AddArrayElement(args[0], args[1], args[2])
	case "remove-element":
		if err := need(4); err != nil {
			return err
		}
		i, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("%s: index %q: %w", name, args[3], err)
		}
		return ed.RemoveArrayElement(args[0], args[1], args[2], i)
	case "parent":
		if err := need(2); err != nil {
			return err
		}
		return ed.AssignParent(args[0], args[1])
	case "transform":
		if err := need(1); err != nil {
			return err
		}
		return runTransform(ed, args[0], args[1:])
	case "select":
		if err := need(1); err != nil {
			return err
		}
		e, err := ed.find(args[0])
		if err != nil {
			return err
		}
		ed.Select(e)
		return nil
	case "undo":
		ed.Undo()
		return nil
	case "redo":
		ed.Redo()
		return nil
	case "save":
		return ed.Save()
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

// runTransform starts from the entity's current transform and overrides
// the parts given.
func runTransform(ed *Editor, id string, opts []string) error {
	e, err := ed.find(id)
	if err != nil {
		return err
	}
	tr, _, ok := e.FindComponent(TransformType)
	if !ok {
		return NewCommandError(fmt.Sprintf("entity %q component %s", id, TransformType), ErrNotFound)
	}
	cur, err := parseTransformInfo(tr)
	if err != nil {
		return fmt.Errorf("entity %q: %w", id, err)
	}

	box := false
	for _, opt := range opts {
		if opt == "box" {
			box = true
			continue
		}
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return fmt.Errorf("transform: malformed option %q", opt)
		}
		v, err := ParseVec3(value)
		if err != nil {
			return fmt.Errorf("transform %s: %w", key, err)
		}
		switch key {
		case "pos", "position":
			cur.Position = v
		case "rot", "rotation":
			cur.Rotation = v
		case "scale":
			cur.Scale = v
		default:
			return fmt.Errorf("transform: unknown option %q", key)
		}
	}
	return ed.SetTransform(id, cur.Position, cur.Rotation, cur.Scale, box)
}
