package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
	"classdumper/internal/live"
)

type fileJSON struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Folder   string  `json:"folder"`
	Contents *string `json:"contents"`
}

type fileSummaryJSON struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`
}

type folderJSON struct {
	Folder string `json:"folder"`
	Count  int64  `json:"count"`
}

type alertJSON struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Benign  bool   `json:"benign"`
}

type importJSON struct {
	ID       string     `json:"id"`
	Input    string     `json:"input"`
	Folder   string     `json:"folder"`
	Imported int        `json:"imported"`
	Alert    *alertJSON `json:"alert,omitempty"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toFileJSON(f *sqlc.File) fileJSON {
	out := fileJSON{ID: f.ID, Name: f.Name, Folder: f.Folder}
	if f.Contents.Valid {
		c := f.Contents.String
		out.Contents = &c
	}
	return out
}

func toSummaries(files []*sqlc.File) []fileSummaryJSON {
	out := make([]fileSummaryJSON, len(files))
	for i, f := range files {
		out[i] = fileSummaryJSON{ID: f.ID, Name: f.Name, Folder: f.Folder}
	}
	return out
}

func toFolders(counts []dumper.FolderCount) []folderJSON {
	out := make([]folderJSON, len(counts))
	for i, c := range counts {
		out[i] = folderJSON{Folder: c.Folder, Count: c.Count}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorJSON{Error: err.Error()})
}

// writeStoreError maps repository errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dumper.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, dumper.ErrConstraintViolation):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// searchFromQuery builds a Search from the folder, q and scope query
// parameters. Without a folder or an explicit scope every folder is searched.
func (s *Server) searchFromQuery(r *http.Request) (live.Search, error) {
	q := r.URL.Query()
	search := live.Search{
		Folder: q.Get("folder"),
		Query:  q.Get("q"),
		Scope:  s.defaultScope,
	}

	switch raw := q.Get("scope"); {
	case raw != "":
		scope, err := live.ParseScope(raw)
		if err != nil {
			return live.Search{}, err
		}
		search.Scope = scope
	case search.Folder == "":
		search.Scope = live.ScopeAll
	}
	return search, nil
}

func (s *Server) healthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listFolders(w http.ResponseWriter, _ *http.Request) {
	counts, err := s.svc.Folders()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolders(counts))
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	if unescaped, err := url.PathUnescape(folder); err == nil {
		folder = unescaped
	}

	n, err := s.svc.DeleteFolder(folder)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	search, err := s.searchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	files, err := search.Run(s.reader)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaries(files))
}

func (s *Server) resetFiles(w http.ResponseWriter, _ *http.Request) {
	if err := s.svc.Reset(); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if f, ok := s.cache.Get(id); ok {
		writeJSON(w, http.StatusOK, toFileJSON(f))
		return
	}

	_, at := s.reader.Watch()
	f, err := s.svc.ShowFile(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.cache.Add(f, at)
	writeJSON(w, http.StatusOK, toFileJSON(f))
}

type editRequest struct {
	Name     *string `json:"name"`
	Folder   *string `json:"folder"`
	Contents *string `json:"contents"`
}

func (s *Server) editFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := s.svc.EditFile(id, dumper.FileEdit{Name: req.Name, Folder: req.Folder, Contents: req.Contents})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileJSON(f))
}

type importRequest struct {
	Path string `json:"path"`
}

// runImport runs the import pipeline synchronously. A failed import still
// answers with its result; the status tells benign and failed outcomes apart.
func (s *Server) runImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	result, err := s.svc.Import(r.Context(), req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out := importJSON{
		ID:       result.ID,
		Input:    result.Input,
		Folder:   result.Folder,
		Imported: result.Imported,
	}
	if result.Alert != nil {
		out.Alert = &alertJSON{
			Title:   result.Alert.Title,
			Message: result.Alert.Message,
			Benign:  result.Alert.Benign(),
		}
	}

	status := http.StatusOK
	if result.Failed() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}
