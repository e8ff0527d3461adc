package handlers

import (
	"fmt"
	"net/http"

	"github.com/dashspec/engine/internal/api/middleware"
	"github.com/dashspec/engine/internal/api/types"
	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/internal/services"
)

type ExportHandler struct {
	exports services.ExportService
}

func NewExportHandler(exports services.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func writeMarkdown(w http.ResponseWriter, r *http.Request, doc *export.Document) {
	etag := `"` + doc.ETag + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Content))
}

// Download godoc
// @Summary Render the project as Markdown
// @Tags Export
// @Security BearerAuth
// @Produce text/markdown
// @Param id path string true "project id"
// @Success 200 {string} string "Markdown document"
// @Router /projects/{id}/export [get]
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	doc, err := h.exports.Build(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMarkdown(w, r, doc)
}

// Enqueue godoc
// @Summary Render the export in the background
// @Tags Export
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 202 {object} types.APIResponse{data=types.ExportJobResponse}
// @Failure 503 {object} types.APIResponse "no queue configured"
// @Router /projects/{id}/exports [post]
func (h *ExportHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	taskID, err := h.exports.Enqueue(r.Context(), projectID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusAccepted, types.ExportJobResponse{TaskID: taskID})
}

// Latest godoc
// @Summary Fetch the latest background export
// @Tags Export
// @Security BearerAuth
// @Param id path string true "project id"
// @Param format query string false "json for the envelope, Markdown otherwise"
// @Success 200 {object} types.APIResponse{data=types.ExportDocumentResponse}
// @Failure 404 {object} types.APIResponse
// @Router /projects/{id}/exports/latest [get]
func (h *ExportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	doc, err := h.exports.Latest(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		writeData(w, http.StatusOK, types.ExportDocumentResponse{
			Filename:    doc.Filename,
			ETag:        doc.ETag,
			GeneratedAt: doc.GeneratedAt,
			Content:     doc.Content,
		})
		return
	}
	writeMarkdown(w, r, doc)
}
