// ABOUTME: Per-browser-tab session: open-file selection, preview revision, composed document, undo/redo.
// ABOUTME: The revision is a monotonic counter so every run remounts the preview even with identical content.
package web

import (
	"errors"
	"sync"
	"time"

	"github.com/2389-research/sketchpad/compose"
	"github.com/2389-research/sketchpad/workspace"
)

// maxHistory bounds the undo and redo stacks.
const maxHistory = 50

var (
	errNothingToUndo = errors.New("nothing to undo")
	errNothingToRedo = errors.New("nothing to redo")
)

// Session holds the UI-adjacent state for one browser tab: which files
// are open and active, the preview revision counter, the document
// composed at the last run, and undo/redo history over store snapshots.
// The workspace itself is shared; sessions only differ in what they are
// looking at.
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastAccess time.Time

	mu        sync.RWMutex
	selection workspace.Selection
	revision  uint64
	document  string
	undoStack [][]workspace.File
	redoStack [][]workspace.File
}

// SessionView is a read-only copy of the session state for responses.
type SessionView struct {
	Open     []string
	Active   string
	Revision uint64
	CanUndo  bool
	CanRedo  bool
}

// View copies the current session state.
func (sess *Session) View() SessionView {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return SessionView{
		Open:     append([]string(nil), sess.selection.Open...),
		Active:   sess.selection.Active,
		Revision: sess.revision,
		CanUndo:  len(sess.undoStack) > 0,
		CanRedo:  len(sess.redoStack) > 0,
	}
}

// Run advances the revision and recomposes the document from files.
// Identical content still yields a new revision: the preview host is
// remounted per run, not per content change, so runtime side effects of
// the previous run never leak into the next one.
func (sess *Session) Run(files map[string]string, comp *compose.Compositor) uint64 {
	doc := comp.Compose(files)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.revision++
	sess.document = doc
	return sess.revision
}

// Preview returns the composed document and revision from the last run.
func (sess *Session) Preview() (string, uint64) {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.document, sess.revision
}

// OpenFile opens name as a tab and makes it active.
func (sess *Session) OpenFile(name string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.OpenFile(name)
}

// CloseFile closes the tab for name.
func (sess *Session) CloseFile(name string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.CloseFile(name)
}

// DropFile removes a deleted file from the selection, falling back to
// the first remaining store name.
func (sess *Session) DropFile(name string, names []string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.DropFile(name, names)
}

// Activate makes name the active file.
func (sess *Session) Activate(name string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.Activate(name)
}

// ApplyRename re-points the selection from oldName to newName.
func (sess *Session) ApplyRename(oldName, newName string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.ApplyRename(oldName, newName)
}

// NormalizeSelection reconciles the selection with the store names.
func (sess *Session) NormalizeSelection(names []string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection.Normalize(names)
}

// ResetSelection reverts to the initial selection: the baseline entry
// file open and active. Undo/redo history is cleared with it.
func (sess *Session) ResetSelection() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.selection = workspace.Selection{}
	sess.selection.OpenFile(workspace.EntryName)
	sess.undoStack = nil
	sess.redoStack = nil
}

// PushUndo records the pre-mutation file set and clears the redo stack,
// the same branching rule every editor history uses. The stack is
// trimmed from the front once it exceeds maxHistory.
func (sess *Session) PushUndo(files []workspace.File) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.undoStack = append(sess.undoStack, files)
	if len(sess.undoStack) > maxHistory {
		sess.undoStack = sess.undoStack[1:]
	}
	sess.redoStack = nil
}

// Undo pops the most recent undo entry, pushing current onto the redo
// stack. Returns the file set to restore.
func (sess *Session) Undo(current []workspace.File) ([]workspace.File, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.undoStack) == 0 {
		return nil, errNothingToUndo
	}
	prev := sess.undoStack[len(sess.undoStack)-1]
	sess.undoStack = sess.undoStack[:len(sess.undoStack)-1]
	sess.redoStack = append(sess.redoStack, current)
	return prev, nil
}

// Redo pops the most recent redo entry, pushing current back onto the
// undo stack. Returns the file set to restore.
func (sess *Session) Redo(current []workspace.File) ([]workspace.File, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.redoStack) == 0 {
		return nil, errNothingToRedo
	}
	next := sess.redoStack[len(sess.redoStack)-1]
	sess.redoStack = sess.redoStack[:len(sess.redoStack)-1]
	sess.undoStack = append(sess.undoStack, current)
	if len(sess.undoStack) > maxHistory {
		sess.undoStack = sess.undoStack[1:]
	}
	return next, nil
}
