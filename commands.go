package applescene

import (
	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

// Command is one reversible edit. Execute applies it the first time, Redo
// re-applies it after an Undo. Failures are logged by the command itself.
type Command interface {
	Execute()
	Undo()
	Redo()
	Dispose()
	Disposed() bool
}

// commandState provides Dispose/Disposed for embedding.
type commandState struct {
	disposed bool
}

func (c *commandState) Dispose()       { c.disposed = true }
func (c *commandState) Disposed() bool { return c.disposed }

// CommandStream is a linear undo history. cursor indexes the most recently
// executed command, -1 when nothing has run. Commands after the cursor are
// the redo branch.
type CommandStream struct {
	// Limit caps the history length; 0 means unlimited. The oldest commands
	// are disposed first.
	Limit int

	commands []Command
	cursor   int
	disposed bool
	log      Logger
}

func NewCommandStream(log Logger) *CommandStream {
	return &CommandStream{cursor: -1, log: orNop(log)}
}

func (s *CommandStream) Len() int    { return len(s.commands) }
func (s *CommandStream) Cursor() int { return s.cursor }

func (s *CommandStream) CanUndo() bool { return !s.disposed && s.cursor >= 0 }
func (s *CommandStream) CanRedo() bool { return !s.disposed && s.cursor < len(s.commands)-1 }

// Current returns the most recently executed command.
func (s *CommandStream) Current() (Command, bool) {
	if s.cursor < 0 {
		return nil, false
	}
	return s.commands[s.cursor], true
}

// PushAndExecute discards the redo branch, appends cmd and executes it.
func (s *CommandStream) PushAndExecute(cmd Command) error {
	if s.disposed {
		return ErrDisposed
	}
	if cmd.Disposed() {
		return NewCommandError("push", ErrDisposed)
	}

	for _, c := range s.commands[s.cursor+1:] {
		c.Dispose()
	}
	clear(s.commands[s.cursor+1:])
	s.commands = append(s.commands[:s.cursor+1], cmd)
	s.cursor = len(s.commands) - 1

	if s.Limit > 0 && len(s.commands) > s.Limit {
		drop := len(s.commands) - s.Limit
		for _, c := range s.commands[:drop] {
			c.Dispose()
		}
		s.commands = append([]Command(nil), s.commands[drop:]...)
		s.cursor -= drop
	}

	s.log.Debugf("execute %T (history %d)", cmd, len(s.commands))
	cmd.Execute()
	return nil
}

// Undo reverts the current command. It reports false when there is nothing
// to undo.
func (s *CommandStream) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	cmd := s.commands[s.cursor]
	s.log.Debugf("undo %T", cmd)
	cmd.Undo()
	s.cursor--
	return true
}

// Redo re-applies the next command. It reports false at the end of history.
func (s *CommandStream) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.cursor++
	cmd := s.commands[s.cursor]
	s.log.Debugf("redo %T", cmd)
	cmd.Redo()
	return true
}

// Dispose disposes every command. The stream is unusable afterwards.
func (s *CommandStream) Dispose() {
	for _, c := range s.commands {
		c.Dispose()
	}
	s.commands = nil
	s.cursor = -1
	s.disposed = true
}

// propertyEdit rewrites one scalar property and can put it back, including
// removing it again when it did not exist before.
type propertyEdit struct {
	obj     *jsondoc.Object
	name    string
	prev    *jsondoc.Value
	existed bool
	index   int
}

func (p *propertyEdit) set(text string) {
	if v, ok := p.obj.FindProperty(p.name, jsondoc.Ordinal); ok {
		p.prev, p.existed = v.Clone(), true
		p.index = indexOfProperty(p.obj, v)
	} else {
		p.prev, p.existed = nil, false
	}
	p.obj.SetString(p.name, text)
}

func (p *propertyEdit) restore() {
	v, ok := p.obj.FindProperty(p.name, jsondoc.Ordinal)
	switch {
	case p.existed && ok:
		v.Assign(p.prev)
	case p.existed:
		p.obj.InsertProperty(p.index, p.prev.Clone())
	case ok:
		p.obj.RemoveProperty(v)
	}
}

func indexOfProperty(obj *jsondoc.Object, v *jsondoc.Value) int {
	for i, p := range obj.Properties() {
		if p == v {
			return i
		}
	}
	return -1
}
