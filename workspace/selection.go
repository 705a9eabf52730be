// ABOUTME: Open-file selection state: the ordered set of open names plus the single active name.
// ABOUTME: Normalize repairs the selection after deletes so the active name always resolves somewhere.
package workspace

// Selection tracks which files are open as tabs and which one is active.
// The zero value is ready to use. Selection is not safe for concurrent
// use on its own; callers guard it with their own lock.
type Selection struct {
	Open   []string
	Active string
}

// OpenFile adds name to the open set if absent and makes it active.
func (sel *Selection) OpenFile(name string) {
	for _, n := range sel.Open {
		if n == name {
			sel.Active = name
			return
		}
	}
	sel.Open = append(sel.Open, name)
	sel.Active = name
}

// CloseFile removes name from the open set. If it was active, the last
// remaining open name becomes active, or none when no tabs remain.
func (sel *Selection) CloseFile(name string) {
	for i, n := range sel.Open {
		if n == name {
			sel.Open = append(sel.Open[:i], sel.Open[i+1:]...)
			break
		}
	}
	if sel.Active != name {
		return
	}
	if len(sel.Open) > 0 {
		sel.Active = sel.Open[len(sel.Open)-1]
	} else {
		sel.Active = ""
	}
}

// DropFile removes name from the selection after its file is deleted.
// Unlike CloseFile, which honors the user's choice to have no active tab,
// a deletion must land somewhere: the first remaining store name becomes
// active, or the baseline entry name when the store is empty, and the
// fallback is opened as a tab.
func (sel *Selection) DropFile(name string, names []string) {
	wasActive := sel.Active == name
	for i, n := range sel.Open {
		if n == name {
			sel.Open = append(sel.Open[:i], sel.Open[i+1:]...)
			break
		}
	}
	if !wasActive {
		return
	}
	if len(names) > 0 {
		sel.Active = names[0]
	} else {
		sel.Active = EntryName
	}
	sel.OpenFile(sel.Active)
}

// Activate marks name as the active file.
func (sel *Selection) Activate(name string) {
	sel.Active = name
}

// ApplyRename re-points open entries and the active name from oldName to
// newName, preserving tab order.
func (sel *Selection) ApplyRename(oldName, newName string) {
	for i, n := range sel.Open {
		if n == oldName {
			sel.Open[i] = newName
		}
	}
	if sel.Active == oldName {
		sel.Active = newName
	}
}

// Normalize reconciles the selection with the store's current names:
// open entries that no longer exist are dropped, and a set-but-missing
// active name falls back to the first store name, or to the baseline
// entry name when the store is empty. The fallback is opened as a tab so
// the active file is always visible. An active name pointing at a file
// that does not exist yet is how the live-edit path creates files, so
// the fallback itself is allowed to be absent from the store.
func (sel *Selection) Normalize(names []string) {
	exists := make(map[string]bool, len(names))
	for _, n := range names {
		exists[n] = true
	}

	kept := sel.Open[:0]
	for _, n := range sel.Open {
		if exists[n] {
			kept = append(kept, n)
		}
	}
	sel.Open = kept

	if sel.Active == "" || exists[sel.Active] {
		return
	}
	if len(names) > 0 {
		sel.Active = names[0]
	} else {
		sel.Active = EntryName
	}
	sel.OpenFile(sel.Active)
}
