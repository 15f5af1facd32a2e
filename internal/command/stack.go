// Package command implements an undo/redo stack of reversible operations.
package command

import (
	"fmt"
	"sync"
	"time"
)

// Command is one reversible operation.
type Command interface {
	Execute() error
	Undo() error
	Description() string
}

// defaultMaxSize bounds the undo history.
const defaultMaxSize = 50

// Stack manages a bounded history of executed commands with undo and redo.
// All methods are safe for concurrent use.
type Stack struct {
	mu        sync.Mutex
	undoStack []entry
	redoStack []entry
	maxSize   int
	onChange  func()
}

type entry struct {
	cmd        Command
	executedAt time.Time
}

// Option configures a Stack.
type Option func(*Stack)

// WithMaxSize bounds the undo history; the oldest entry is dropped when
// the bound is exceeded.
func WithMaxSize(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithOnChange registers a callback invoked after every stack mutation.
// The callback runs outside the stack's lock.
func WithOnChange(fn func()) Option {
	return func(s *Stack) { s.onChange = fn }
}

func NewStack(opts ...Option) *Stack {
	s := &Stack{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the command and pushes it onto the undo stack. A new action
// always clears the redo stack. A failed command leaves the stack untouched.
func (s *Stack) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command: execute %q: %w", cmd.Description(), err)
	}

	s.mu.Lock()
	s.undoStack = append(s.undoStack, entry{cmd: cmd, executedAt: time.Now()})
	s.redoStack = nil
	if len(s.undoStack) > s.maxSize {
		s.undoStack = s.undoStack[1:]
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Undo reverses the most recent command and moves it to the redo stack.
// It reports false when there is nothing to undo. A failed undo pushes the
// command back so the history stays consistent.
func (s *Stack) Undo() (bool, error) {
	s.mu.Lock()
	if len(s.undoStack) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	e := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.mu.Unlock()

	if err := e.cmd.Undo(); err != nil {
		s.mu.Lock()
		s.undoStack = append(s.undoStack, e)
		s.mu.Unlock()
		return false, fmt.Errorf("command: undo %q: %w", e.cmd.Description(), err)
	}

	s.mu.Lock()
	s.redoStack = append(s.redoStack, e)
	s.mu.Unlock()

	s.notify()
	return true, nil
}

// Redo re-executes the most recently undone command. It reports false when
// there is nothing to redo. A failed redo pushes the command back.
func (s *Stack) Redo() (bool, error) {
	s.mu.Lock()
	if len(s.redoStack) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	e := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.mu.Unlock()

	if err := e.cmd.Execute(); err != nil {
		s.mu.Lock()
		s.redoStack = append(s.redoStack, e)
		s.mu.Unlock()
		return false, fmt.Errorf("command: redo %q: %w", e.cmd.Description(), err)
	}

	s.mu.Lock()
	s.undoStack = append(s.undoStack, e)
	s.mu.Unlock()

	s.notify()
	return true, nil
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack) > 0
}

// Clear drops all history.
func (s *Stack) Clear() {
	s.mu.Lock()
	s.undoStack = nil
	s.redoStack = nil
	s.mu.Unlock()
	s.notify()
}

// UndoCount returns the undo stack depth.
func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack)
}

// RedoCount returns the redo stack depth.
func (s *Stack) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack)
}

// UndoDescription returns the description of the next undo, or "".
func (s *Stack) UndoDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return ""
	}
	return s.undoStack[len(s.undoStack)-1].cmd.Description()
}

// RedoDescription returns the description of the next redo, or "".
func (s *Stack) RedoDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return ""
	}
	return s.redoStack[len(s.redoStack)-1].cmd.Description()
}

// UndoHistory lists undo descriptions, most recent first.
func (s *Stack) UndoHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return describeReversed(s.undoStack)
}

// RedoHistory lists redo descriptions, most recent first.
func (s *Stack) RedoHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return describeReversed(s.redoStack)
}

func describeReversed(entries []entry) []string {
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].cmd.Description())
	}
	return out
}

func (s *Stack) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Func wraps execute/undo closures as a Command.
type Func struct {
	Desc      string
	ExecuteFn func() error
	UndoFn    func() error
}

func (f *Func) Execute() error {
	if f.ExecuteFn == nil {
		return nil
	}
	return f.ExecuteFn()
}

func (f *Func) Undo() error {
	if f.UndoFn == nil {
		return nil
	}
	return f.UndoFn()
}

func (f *Func) Description() string { return f.Desc }

// Composite executes several commands as one unit; undo runs in reverse
// order.
type Composite struct {
	Desc     string
	Commands []Command
}

func (c *Composite) Execute() error {
	for _, cmd := range c.Commands {
		if err := cmd.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composite) Undo() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composite) Description() string { return c.Desc }
