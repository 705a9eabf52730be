// ABOUTME: Sentinel errors for workspace file operations.
// ABOUTME: Callers match these with errors.Is to map failures onto their own surfaces.
package workspace

import "errors"

var (
	// ErrNameCollision means a create or rename targeted a name that is
	// already taken. The store is left unchanged.
	ErrNameCollision = errors.New("workspace: name already exists")

	// ErrEmptyName means a create or rename supplied an empty or
	// whitespace-only name. The store is left unchanged.
	ErrEmptyName = errors.New("workspace: name must not be empty")

	// ErrNotFound means a rename source does not exist. Deletes of absent
	// names are benign no-ops and never return this.
	ErrNotFound = errors.New("workspace: file not found")
)
