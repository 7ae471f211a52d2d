// Package command implements reversible scene edits and the linear
// undo/redo history that records them.
package command

import "log/slog"

// Command is one reversible, atomic edit. Execute is called for the first
// application and again for every redo; Undo reverses the whole edit.
type Command interface {
	Execute()
	Undo()
	// Description is a short, human-readable summary including the number
	// of affected items, e.g. "Move 3 objects".
	Description() string
}

// Manager owns the undo and redo stacks. It is not safe for concurrent use;
// callers serialize access (the editor does so per plan).
type Manager struct {
	undo     []Command
	redo     []Command
	limit    int
	onChange func()
}

// NewManager creates a history. A positive limit caps the number of undo
// steps kept; the oldest are dropped first. Zero means unlimited.
func NewManager(limit int) *Manager {
	return &Manager{limit: max(limit, 0)}
}

// OnChange registers a callback invoked after every history change.
func (m *Manager) OnChange(fn func()) {
	m.onChange = fn
}

// Execute applies cmd, records it for undo and discards the redo stack.
func (m *Manager) Execute(cmd Command) {
	cmd.Execute()
	m.undo = append(m.undo, cmd)
	if m.limit > 0 && len(m.undo) > m.limit {
		dropped := len(m.undo) - m.limit
		clear(m.undo[:dropped])
		m.undo = m.undo[dropped:]
	}
	clear(m.redo)
	m.redo = m.redo[:0]
	slog.Debug("command executed", "command", cmd.Description(), "undo", len(m.undo))
	m.changed()
}

// Undo reverses the most recent command. It reports false when there is
// nothing to undo.
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	last := len(m.undo) - 1
	cmd := m.undo[last]
	m.undo[last] = nil
	m.undo = m.undo[:last]
	cmd.Undo()
	m.redo = append(m.redo, cmd)
	slog.Debug("command undone", "command", cmd.Description())
	m.changed()
	return true
}

// Redo re-applies the most recently undone command. It reports false when
// there is nothing to redo.
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	last := len(m.redo) - 1
	cmd := m.redo[last]
	m.redo[last] = nil
	m.redo = m.redo[:last]
	cmd.Execute()
	m.undo = append(m.undo, cmd)
	slog.Debug("command redone", "command", cmd.Description())
	m.changed()
	return true
}

// Clear forgets the whole history, e.g. after loading another plan.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	m.changed()
}

func (m *Manager) CanUndo() bool  { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool  { return len(m.redo) > 0 }
func (m *Manager) UndoCount() int { return len(m.undo) }
func (m *Manager) RedoCount() int { return len(m.redo) }

// UndoText describes the command Undo would reverse, or "".
func (m *Manager) UndoText() string {
	if len(m.undo) == 0 {
		return ""
	}
	return m.undo[len(m.undo)-1].Description()
}

// RedoText describes the command Redo would re-apply, or "".
func (m *Manager) RedoText() string {
	if len(m.redo) == 0 {
		return ""
	}
	return m.redo[len(m.redo)-1].Description()
}

func (m *Manager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
