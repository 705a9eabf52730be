// ABOUTME: Insertion-ordered virtual file store mapping filenames to text contents with validated CRUD.
// ABOUTME: Merges persisted snapshots over the baseline template and persists best-effort after every mutation.
package workspace

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

// SnapshotStore persists and restores the flat name to content snapshot
// of the workspace. Load returns (nil, nil) when no snapshot exists;
// implementations treat corrupt data as absent.
type SnapshotStore interface {
	Load() (map[string]string, error)
	Save(files map[string]string) error
}

// Store is the virtual file store: an insertion-ordered mapping of
// filename to text content. Names are unique and never empty. All methods
// are safe for concurrent use; accessors return copies.
type Store struct {
	mu       sync.RWMutex
	names    []string
	contents map[string]string
	snaps    SnapshotStore
	emitter  *Emitter
}

// Load constructs a Store from the baseline template merged with the
// persisted snapshot: persisted contents win per name, baseline names
// missing from the snapshot keep their defaults, and snapshot-only names
// are appended after the baseline in sorted order. A nil snapshot store,
// an absent snapshot, and a failed load all mean the same thing, so Load
// itself never fails.
func Load(snaps SnapshotStore) *Store {
	s := &Store{
		snaps:   snaps,
		emitter: NewEmitter(),
	}
	s.resetLocked()

	if snaps == nil {
		return s
	}
	persisted, err := snaps.Load()
	if err != nil {
		log.Printf("component=workspace action=load_snapshot err=%v", err)
		return s
	}
	if persisted == nil {
		return s
	}

	var extras []string
	for name, content := range persisted {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := s.contents[name]; !ok {
			extras = append(extras, name)
		}
		s.contents[name] = content
	}
	sort.Strings(extras)
	s.names = append(s.names, extras...)
	return s
}

// Events exposes the change emitter for subscribers.
func (s *Store) Events() *Emitter {
	return s.emitter
}

// Create adds a new file with empty content at the end of the order.
// Returns ErrEmptyName or ErrNameCollision; the store is unchanged on error.
func (s *Store) Create(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	if _, exists := s.contents[name]; exists {
		s.mu.Unlock()
		return ErrNameCollision
	}
	s.names = append(s.names, name)
	s.contents[name] = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(ChangeFileCreated, name, "")
	return nil
}

// Update sets the content for name, creating the file at the end of the
// order when it does not exist yet. An empty name is a silent no-op: the
// live-edit path may target a name that has not been created, but never
// an invalid one.
func (s *Store) Update(name, content string) {
	if strings.TrimSpace(name) == "" {
		return
	}

	s.mu.Lock()
	_, existed := s.contents[name]
	if !existed {
		s.names = append(s.names, name)
	}
	s.contents[name] = content
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	if existed {
		s.emit(ChangeFileUpdated, name, "")
	} else {
		s.emit(ChangeFileCreated, name, "")
	}
}

// Rename re-keys oldName to newName, moving the file to the end of the
// order. Renaming a file to its own name is a successful no-op. Returns
// ErrEmptyName, ErrNotFound, or ErrNameCollision; the store is unchanged
// on error.
func (s *Store) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	content, exists := s.contents[oldName]
	if !exists {
		s.mu.Unlock()
		return ErrNotFound
	}
	if newName == oldName {
		s.mu.Unlock()
		return nil
	}
	if _, taken := s.contents[newName]; taken {
		s.mu.Unlock()
		return ErrNameCollision
	}
	delete(s.contents, oldName)
	s.removeNameLocked(oldName)
	s.names = append(s.names, newName)
	s.contents[newName] = content
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(ChangeFileRenamed, newName, oldName)
	return nil
}

// Delete removes name from the store. Deleting an absent name is a benign
// no-op. Nothing of the file survives: re-creating the name later starts
// from empty content.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	if _, exists := s.contents[name]; !exists {
		s.mu.Unlock()
		return
	}
	delete(s.contents, name)
	s.removeNameLocked(name)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(ChangeFileDeleted, name, "")
}

// Restore replaces the entire store with the given files, preserving
// their order. Entries with empty names or duplicate names are skipped.
// Used by undo/redo to roll the workspace to an earlier state.
func (s *Store) Restore(files []File) {
	s.mu.Lock()
	s.names = make([]string, 0, len(files))
	s.contents = make(map[string]string, len(files))
	for _, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		if _, dup := s.contents[f.Name]; dup {
			continue
		}
		s.names = append(s.names, f.Name)
		s.contents[f.Name] = f.Content
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(ChangeRestored, "", "")
}

// Reset discards all files and reinstates the baseline template.
func (s *Store) Reset() {
	s.mu.Lock()
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(ChangeReset, "", "")
}

// Get returns the content for name and whether it exists.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[name]
	return content, ok
}

// Exists reports whether name is in the store.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.contents[name]
	return ok
}

// Names returns the filenames in insertion order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Files returns the (name, content) pairs in insertion order.
func (s *Store) Files() []File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]File, 0, len(s.names))
	for _, name := range s.names {
		files = append(files, File{Name: name, Content: s.contents[name]})
	}
	return files
}

// Snapshot returns a flat copy of the name to content mapping.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// resetLocked reinstates the baseline template. Callers hold s.mu.
func (s *Store) resetLocked() {
	base := Baseline()
	s.names = make([]string, 0, len(base))
	s.contents = make(map[string]string, len(base))
	for _, f := range base {
		s.names = append(s.names, f.Name)
		s.contents[f.Name] = f.Content
	}
}

// snapshotLocked copies the contents map. Callers hold s.mu.
func (s *Store) snapshotLocked() map[string]string {
	snap := make(map[string]string, len(s.contents))
	for name, content := range s.contents {
		snap[name] = content
	}
	return snap
}

// removeNameLocked drops name from the order slice. Callers hold s.mu.
func (s *Store) removeNameLocked(name string) {
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return
		}
	}
}

// persist writes the snapshot through the collaborator. Persistence is
// best-effort: failures are logged and never surfaced to the caller, so
// the in-memory workspace keeps working when the disk does not.
func (s *Store) persist(snap map[string]string) {
	if s.snaps == nil {
		return
	}
	if err := s.snaps.Save(snap); err != nil {
		log.Printf("component=workspace action=save_snapshot err=%v", err)
	}
}

func (s *Store) emit(kind ChangeKind, name, oldName string) {
	s.emitter.Emit(Change{
		Kind:      kind,
		Timestamp: time.Now(),
		Name:      name,
		OldName:   oldName,
	})
}
