// Package handlers provides HTTP handlers for the name stamping API.
//
// This package contains the endpoints for session management, name list and
// template upload, preview state (rotation, placement, placeholder),
// generation and download.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(sessionManager, generator, uploadDir, outputDir, maxUpload)
//	r := chi.NewRouter()
//	r.Post("/api/sessions/", h.CreateSession)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go-namestamp/internal/pdf"
	"go-namestamp/internal/session"
	"go-namestamp/internal/sheet"
	"go-namestamp/internal/utils"

	"github.com/go-chi/chi/v5"
)

const (
	// DownloadName is the file name offered for a generated document.
	DownloadName = "personalized-names.pdf"

	maxNamesUpload = 5 * 1024 * 1024
)

// Generator builds the stamped document for a job. *pdf.Generator
// implements it.
type Generator interface {
	Generate(job pdf.Job) (*pdf.Result, error)
}

type APIHandler struct {
	SessionManager *session.SessionManager
	Generator      Generator
	UploadDir      string
	OutputDir      string
	MaxUpload      int64
}

func NewAPIHandler(sm *session.SessionManager, gen Generator, uploadDir, outputDir string, maxUpload int64) *APIHandler {
	return &APIHandler{SessionManager: sm, Generator: gen, UploadDir: uploadDir, OutputDir: outputDir, MaxUpload: maxUpload}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
	}
	return s, exists
}

// CreateSession godoc
// @Summary      Create a new session
// @Description  Creates a new name stamping session and returns a session ID
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "{ sessionId: string }"
// @Router       /api/sessions/ [post]
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.SessionManager.CreateSession()
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"sessionId": "%s"}`, session.ID)
}

// UploadNames godoc
// @Summary      Upload the name list
// @Description  Uploads a workbook whose first sheet holds one group per column: a label followed by names
// @Tags         names
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        names      formData  file    true  "Workbook (.xlsx or .xls)"
// @Success      200  {object}  map[string]interface{}  "{ groups: [[string]], preview: object }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Failure      422  {string}  string  "Workbook could not be read"
// @Router       /api/sessions/{sessionID}/names [post]
func (h *APIHandler) UploadNames(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxNamesUpload)
	if err := r.ParseMultipartForm(maxNamesUpload); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("names")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		http.Error(w, "Only .xlsx and .xls files are allowed", http.StatusBadRequest)
		return
	}
	header, err := utils.SniffHeader(file, 8)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	if !utils.IsSpreadsheet(handler.Filename, header) {
		http.Error(w, "Uploaded file is not a valid spreadsheet", http.StatusBadRequest)
		return
	}

	groups, err := sheet.ReadGroups(file, handler.Filename)
	if err != nil {
		log.Printf("Error reading names from %s: %v", utils.SanitizeFilename(handler.Filename), err)
		http.Error(w, "Failed to read names from spreadsheet", http.StatusUnprocessableEntity)
		return
	}

	session.SetGroups(groups)
	writeJSON(w, map[string]any{"groups": groups, "preview": session.Preview()})
}

// UploadTemplate godoc
// @Summary      Upload the PDF worksheet
// @Description  Uploads the PDF whose first page is duplicated for every name. Resets rotation and placement.
// @Tags         template
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        pdf        formData  file    true  "PDF file"
// @Success      200  {object}  map[string]interface{}  "{ template: object, preview: object }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Failure      422  {string}  string  "PDF could not be loaded"
// @Router       /api/sessions/{sessionID}/template [post]
func (h *APIHandler) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("pdf")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(handler.Filename)) != ".pdf" {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}
	header, err := utils.SniffHeader(file, 5)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	if !utils.IsPDF(header) {
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to process file", http.StatusInternalServerError)
		return
	}
	info, err := pdf.Inspect(data)
	if err != nil {
		log.Printf("Error inspecting template: %v", err)
		http.Error(w, "Failed to load PDF", http.StatusUnprocessableEntity)
		return
	}

	filename := fmt.Sprintf("%s-%s", utils.GenerateUUID(), utils.SanitizeFilename(handler.Filename))
	path := filepath.Join(h.UploadDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	session.SetTemplate(path, info)
	writeJSON(w, map[string]any{"template": info, "preview": session.Preview()})
}

// GetPreview godoc
// @Summary      Get preview state
// @Description  Returns the chosen, intrinsic and effective rotation, the viewport size, the placement and the placeholder size
// @Tags         preview
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200  {object}  session.Preview
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/preview [get]
func (h *APIHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, session.Preview())
}

// Rotate godoc
// @Summary      Rotate the preview
// @Description  Turns the preview a further 90 degrees clockwise and resets the placement
// @Tags         preview
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200  {object}  session.Preview
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/actions/rotate [post]
func (h *APIHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, session.Rotate())
}

// SetPlacement godoc
// @Summary      Move the name placeholder
// @Description  Sets the placeholder's top-left corner in viewport pixels; the value is clamped to the viewport
// @Tags         preview
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string     true  "Session ID"
// @Param        placement  body      pdf.Point  true  "{ x: number, y: number }"
// @Success      200  {object}  session.Preview
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/placement [put]
func (h *APIHandler) SetPlacement(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var p pdf.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid placement data", http.StatusBadRequest)
		return
	}
	writeJSON(w, session.SetPlacement(p.X, p.Y))
}

// SetPlaceholder godoc
// @Summary      Set the placeholder size
// @Description  Records the measured size of the on-screen placeholder. A zero size leaves names unstamped.
// @Tags         preview
// @Accept       json
// @Produce      json
// @Param        sessionID    path      string    true  "Session ID"
// @Param        placeholder  body      pdf.Size  true  "{ width: number, height: number }"
// @Success      200  {object}  session.Preview
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/placeholder [put]
func (h *APIHandler) SetPlaceholder(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var size pdf.Size
	if err := json.NewDecoder(r.Body).Decode(&size); err != nil {
		http.Error(w, "Invalid placeholder data", http.StatusBadRequest)
		return
	}
	preview, err := session.SetPlaceholder(size.Width, size.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, preview)
}

// Generate godoc
// @Summary      Generate the personalised PDF
// @Description  Duplicates the template's first page once per name, stamps each name and returns a download URL
// @Tags         files
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "{ downloadUrl: string, pages: int, warnings: [string] }"
// @Failure      400  {string}  string  "Names or template missing"
// @Failure      404  {string}  string  "Session not found"
// @Failure      409  {string}  string  "Generation already in progress"
// @Failure      422  {string}  string  "Template could not be loaded"
// @Router       /api/sessions/{sessionID}/actions/generate [post]
func (h *APIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	templatePath, job, err := sess.BeginGenerate()
	switch {
	case errors.Is(err, session.ErrBusy):
		http.Error(w, "Generation already in progress", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outputPath, res, err := h.generate(sess, templatePath, job)
	if err != nil {
		var loadErr *pdf.LoadError
		if errors.As(err, &loadErr) {
			http.Error(w, "Failed to load template", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("Error generating PDF: %v", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, warning := range res.Warnings {
		warnings = append(warnings, warning.Error())
	}
	writeJSON(w, map[string]any{
		"downloadUrl": fmt.Sprintf("/api/sessions/%s/files/%s", sess.ID, filepath.Base(outputPath)),
		"pages":       res.PageCount,
		"warnings":    warnings,
	})
}

// generate runs job and stores the result in OutputDir. The session is
// released on every return, panics included.
func (h *APIHandler) generate(sess *session.Session, templatePath string, job pdf.Job) (outputPath string, res *pdf.Result, err error) {
	defer func() { sess.EndGenerate(outputPath) }()

	source, err := os.ReadFile(templatePath)
	if err != nil {
		return "", nil, fmt.Errorf("read template: %w", err)
	}
	job.Source = source

	res, err = h.Generator.Generate(job)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(h.OutputDir, fmt.Sprintf("names-%s.pdf", utils.GenerateUUID()))
	if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
		return "", nil, fmt.Errorf("write output: %w", err)
	}
	return path, res, nil
}

// DownloadFile godoc
// @Summary      Download the generated PDF
// @Description  Downloads the generated PDF once; the file is removed afterwards
// @Tags         files
// @Produce      application/pdf
// @Param        sessionID  path      string  true  "Session ID"
// @Param        filename   path      string  true  "Generated PDF filename"
// @Success      200  {file}  file  "PDF file download"
// @Failure      403  {string}  string  "Unauthorized access to file"
// @Failure      404  {string}  string  "Session or file not found"
// @Router       /api/sessions/{sessionID}/files/{filename} [get]
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	filename := chi.URLParam(r, "filename")
	filepath := filepath.Join(h.OutputDir, filename)
	if session.OutputFile() != filepath {
		http.Error(w, "Unauthorized access to file", http.StatusForbidden)
		return
	}
	data, err := os.ReadFile(filepath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Printf("Error sending %s: %v", filename, err)
		return
	}
	session.ClearOutput()
}

// Restart godoc
// @Summary      Restart the session
// @Description  Forgets the names, the template and any generated file, and resets rotation and placement
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200  {object}  session.Preview
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/actions/restart [post]
func (h *APIHandler) Restart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Restart()
	writeJSON(w, session.Preview())
}
