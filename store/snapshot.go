// ABOUTME: Filesystem snapshot store writing the workspace as files_<ULID>.json generations.
// ABOUTME: Saves with atomic rename for crash safety and loads the newest parseable generation.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"
)

// keepGenerations is how many snapshot files survive pruning after a save.
const keepGenerations = 5

// FileSnapshots persists workspace snapshots as JSON files in a directory.
// Each save writes a fresh files_<ULID>.json generation; loads pick the
// newest one that parses, so a corrupt or truncated generation reads the
// same as an absent one.
type FileSnapshots struct {
	dir string
}

// NewFileSnapshots returns a snapshot store rooted at dir. The directory
// is created on first save.
func NewFileSnapshots(dir string) *FileSnapshots {
	return &FileSnapshots{dir: dir}
}

// Save writes the snapshot to disk using atomic write (write to .tmp,
// fsync, rename). Creates the target directory if it does not exist.
// Generations beyond keepGenerations are pruned best-effort afterwards.
func (fs *FileSnapshots) Save(files map[string]string) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	// ULIDs from Make are monotonic within the process, so the lexically
	// greatest generation is always the newest write.
	id := ulid.Make().String()
	tmpPath := filepath.Join(fs.dir, fmt.Sprintf("files_%s.tmp", id))
	finalPath := filepath.Join(fs.dir, fmt.Sprintf("files_%s.json", id))

	jsonData, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmpFile.Write(jsonData); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write snapshot data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("fsync snapshot: %w", err)
	}
	_ = tmpFile.Close()

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	fs.prune()
	return nil
}

// Load returns the newest parseable snapshot, or (nil, nil) when no usable
// snapshot exists. Corrupt generations are skipped with a log line and the
// scan falls back to the next older one.
func (fs *FileSnapshots) Load() (map[string]string, error) {
	generations := fs.generations()
	for i := len(generations) - 1; i >= 0; i-- {
		path := filepath.Join(fs.dir, generations[i])

		contents, err := os.ReadFile(path)
		if err != nil {
			log.Printf("component=store action=load_snapshot file=%s err=%v", generations[i], err)
			continue
		}

		var files map[string]string
		if err := json.Unmarshal(contents, &files); err != nil {
			log.Printf("component=store action=load_snapshot file=%s err=%v", generations[i], err)
			continue
		}
		return files, nil
	}
	return nil, nil
}

// generations returns snapshot filenames sorted oldest first. Files that
// do not follow the files_<ULID>.json pattern are ignored.
func (fs *FileSnapshots) generations() []string {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "files_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		idStr := strings.TrimPrefix(name, "files_")
		idStr = strings.TrimSuffix(idStr, ".json")
		if _, err := ulid.Parse(idStr); err != nil {
			continue
		}
		names = append(names, name)
	}

	// ULID strings are fixed-width base32, so lexical order is time order.
	sort.Strings(names)
	return names
}

// prune removes all but the newest keepGenerations snapshot files.
// Failures only cost disk space, so they are logged and ignored.
func (fs *FileSnapshots) prune() {
	generations := fs.generations()
	if len(generations) <= keepGenerations {
		return
	}
	for _, name := range generations[:len(generations)-keepGenerations] {
		if err := os.Remove(filepath.Join(fs.dir, name)); err != nil {
			log.Printf("component=store action=prune_snapshot file=%s err=%v", name, err)
		}
	}
}
