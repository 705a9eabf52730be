// ABOUTME: HTTP handlers for the workspace JSON API, preview serving, export, and the guide page.
// ABOUTME: Maps workspace sentinel errors onto HTTP statuses and enforces request body limits.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/sketchpad/workspace"
)

// maxBodySize caps request bodies to prevent oversized uploads.
const maxBodySize = 1 << 20

type nameRequest struct {
	Name string `json:"name"`
}

type updateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type renameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// stateResponse is the session-state document most endpoints return: the
// shared workspace files plus this session's selection and history state.
type stateResponse struct {
	SessionID string           `json:"session_id"`
	Files     []workspace.File `json:"files"`
	Open      []string         `json:"open"`
	Active    string           `json:"active"`
	Revision  uint64           `json:"revision"`
	CanUndo   bool             `json:"can_undo"`
	CanRedo   bool             `json:"can_redo"`
}

// handleShell renders the single-page workspace shell.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.Render(w, "editor.html", PageData{Title: "workspace"}); err != nil {
		log.Printf("component=web action=render_shell err=%v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleGuide renders the composition guide from its markdown source.
func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "guide", GuideSource: guideMD}
	if err := s.templates.Render(w, "guide.html", data); err != nil {
		log.Printf("component=web action=render_guide err=%v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleExportYAML streams the workspace as a downloadable YAML document.
func (s *Server) handleExportYAML(w http.ResponseWriter, r *http.Request) {
	doc, err := workspace.ExportYAML(s.ws.Files())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="sketch.yaml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		log.Printf("component=web action=write_export err=%v", err)
	}
}

// handleImportYAML replaces the workspace with an uploaded YAML export.
func (s *Server) handleImportYAML(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "import too large (max 1MB)")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "failed to read import body")
		return
	}

	files, err := workspace.ImportYAML(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.ws.Restore(files)
	writeJSON(w, http.StatusOK, map[string]any{"status": "imported", "files": len(files)})
}

// handleEvents streams workspace changes as server-sent events until the
// client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch := s.ws.Events().Subscribe()
	defer s.ws.Events().Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if _, err := io.WriteString(w, changeToSSE(change).Format()); err != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

// handleCreateSession starts a fresh browser-tab session looking at the
// shared workspace, with the entry file open and one composed preview.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var sel workspace.Selection
	sel.OpenFile(workspace.EntryName)
	sel.Normalize(s.ws.Names())

	sess := s.sessions.Create(sel)
	sess.Run(s.ws.Snapshot(), s.comp)
	s.writeState(w, http.StatusCreated, sess)
}

// handleSessionState returns the current workspace and selection state.
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	s.writeState(w, http.StatusOK, sess)
}

// handleFileCreate adds a new empty file and opens it.
func (s *Server) handleFileCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	before := s.ws.Files()
	if err := s.ws.Create(req.Name); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	sess.PushUndo(before)
	sess.OpenFile(req.Name)
	s.writeState(w, http.StatusCreated, sess)
}

// handleFileUpdate sets a file's content, creating the file when the
// live-edit path targets a name that does not exist yet.
func (s *Server) handleFileUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	// No-op writes (empty names, unchanged content) should not pollute
	// the undo history.
	if strings.TrimSpace(req.Name) == "" {
		s.writeState(w, http.StatusOK, sess)
		return
	}
	if old, existed := s.ws.Get(req.Name); existed && old == req.Content {
		s.writeState(w, http.StatusOK, sess)
		return
	}

	before := s.ws.Files()
	s.ws.Update(req.Name, req.Content)
	sess.PushUndo(before)
	s.writeState(w, http.StatusOK, sess)
}

// handleFileRename re-keys a file and follows it in the selection.
func (s *Server) handleFileRename(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	before := s.ws.Files()
	if err := s.ws.Rename(req.From, req.To); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if req.From != req.To {
		sess.PushUndo(before)
		sess.ApplyRename(req.From, req.To)
	}
	s.writeState(w, http.StatusOK, sess)
}

// handleFileDelete removes a file. Deleting an absent name is a benign
// no-op, mirroring the store contract.
func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if !s.ws.Exists(req.Name) {
		s.writeState(w, http.StatusOK, sess)
		return
	}

	before := s.ws.Files()
	s.ws.Delete(req.Name)
	sess.PushUndo(before)
	sess.DropFile(req.Name, s.ws.Names())
	s.writeState(w, http.StatusOK, sess)
}

// handleOpenFile opens an existing file as a tab and activates it.
func (s *Server) handleOpenFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if !s.ws.Exists(req.Name) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	sess.OpenFile(req.Name)
	s.writeState(w, http.StatusOK, sess)
}

// handleCloseFile closes a tab. The selection picks its own fallback.
func (s *Server) handleCloseFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	sess.CloseFile(req.Name)
	s.writeState(w, http.StatusOK, sess)
}

// handleActivate marks an open file as the one being edited.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if !s.ws.Exists(req.Name) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	sess.Activate(req.Name)
	s.writeState(w, http.StatusOK, sess)
}

// handleRun composes a fresh preview document and bumps the revision.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	rev := sess.Run(s.ws.Snapshot(), s.comp)
	writeJSON(w, http.StatusOK, map[string]uint64{"revision": rev})
}

// handleReset discards the workspace, selection, and history, reinstating
// the baseline template, then runs once so the preview shows it.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	s.ws.Reset()
	sess.ResetSelection()
	sess.Run(s.ws.Snapshot(), s.comp)
	s.writeState(w, http.StatusOK, sess)
}

// handleUndo rolls the workspace back to the state before the session's
// last recorded mutation.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	prev, err := sess.Undo(s.ws.Files())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.ws.Restore(prev)
	s.writeState(w, http.StatusOK, sess)
}

// handleRedo reapplies a previously undone mutation.
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	next, err := sess.Redo(s.ws.Files())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.ws.Restore(next)
	s.writeState(w, http.StatusOK, sess)
}

// handlePreview serves the composed document from the session's last run.
// The rev query parameter is a cache buster only; the handler always
// serves the latest composition. The CSP sandbox keeps the previewed
// script in a distinct origin while still letting it execute.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	doc, _ := sess.Preview()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, doc); err != nil {
		log.Printf("component=web action=write_preview err=%v", err)
	}
}

// getSession resolves the session from the URL, answering 404 itself when
// the session is unknown or expired.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// writeState normalizes the session's selection against the live store
// and responds with the combined state document. Normalizing here means
// every response self-heals selections that other tabs invalidated.
func (s *Server) writeState(w http.ResponseWriter, status int, sess *Session) {
	sess.NormalizeSelection(s.ws.Names())
	view := sess.View()
	writeJSON(w, status, stateResponse{
		SessionID: sess.ID,
		Files:     s.ws.Files(),
		Open:      view.Open,
		Active:    view.Active,
		Revision:  view.Revision,
		CanUndo:   view.CanUndo,
		CanRedo:   view.CanRedo,
	})
}

// decodeJSON parses a JSON request body into dst with the body size
// limit enforced. On failure the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large (max 1MB)")
			return err
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return err
	}
	return nil
}

// statusForError maps workspace sentinels onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, workspace.ErrNameCollision):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrEmptyName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workspace.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("component=web action=write_json err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
