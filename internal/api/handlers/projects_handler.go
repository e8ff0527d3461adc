package handlers

import (
	"net/http"
	"strconv"

	"github.com/dashspec/engine/internal/api/middleware"
	"github.com/dashspec/engine/internal/api/types"
	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/services"
)

type ProjectsHandler struct {
	projects  services.ProjectService
	autosaver *services.Autosaver
}

func NewProjectsHandler(projects services.ProjectService, autosaver *services.Autosaver) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, autosaver: autosaver}
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Security BearerAuth
// @Param mine query bool false "only projects created by the caller"
// @Param status query string false "draft or done"
// @Param page query int false "page, from 1"
// @Param page_size query int false "page size, at most 100"
// @Success 200 {object} types.APIResponse{data=[]models.Project}
// @Router /projects [get]
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &services.ProjectFilters{Status: q.Get("status")}
	filters.Mine, _ = strconv.ParseBool(q.Get("mine"))
	if filters.Status != "" && filters.Status != models.StatusDraft && filters.Status != models.StatusDone {
		writeErrorStr(w, http.StatusBadRequest, "status must be draft or done")
		return
	}

	items, err := h.projects.ListProjects(r.Context(), middleware.GetUserID(r.Context()), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    items[start:end],
		Meta:    &types.Meta{Page: page, PageSize: size, Total: int64(len(items))},
	})
}

// Create godoc
// @Summary Create a draft project
// @Tags Projects
// @Security BearerAuth
// @Accept json
// @Param body body types.ProjectCreateRequest false "initial fields"
// @Success 201 {object} types.APIResponse{data=models.Project}
// @Router /projects [post]
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectCreateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.projects.CreateProject(r.Context(), middleware.GetUserID(r.Context()), &services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Audience:    req.Audience,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// Get godoc
// @Summary Get a project
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} types.APIResponse{data=models.Project}
// @Failure 404 {object} types.APIResponse
// @Router /projects/{id} [get]
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Update godoc
// @Summary Update project fields
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Param body body types.ProjectUpdateRequest true "fields to change"
// @Success 200 {object} types.APIResponse{data=models.Project}
// @Router /projects/{id} [put]
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.ProjectUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.projects.UpdateProject(r.Context(), id, middleware.GetUserID(r.Context()), &services.UpdateProjectInput{
		Name:              req.Name,
		Description:       req.Description,
		Audience:          req.Audience,
		HasAppendixTab:    req.HasAppendixTab,
		HasMetricLogicTab: req.HasMetricLogicTab,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Delete godoc
// @Summary Delete a project and every version below it
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 204
// @Router /projects/{id} [delete]
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.projects.DeleteProject(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkDone godoc
// @Summary Mark a project done
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} types.APIResponse{data=models.Project}
// @Router /projects/{id}/done [post]
func (h *ProjectsHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.projects.MarkDone(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// CreateEnhancement godoc
// @Summary Start the next version of a done project
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 201 {object} types.APIResponse{data=models.Project}
// @Failure 409 {object} types.APIResponse "project is not done"
// @Router /projects/{id}/enhancements [post]
func (h *ProjectsHandler) CreateEnhancement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.projects.CreateEnhancement(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// Versions godoc
// @Summary List every version in a project's lineage
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} types.APIResponse{data=[]models.Project}
// @Router /projects/{id}/versions [get]
func (h *ProjectsHandler) Versions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	versions, err := h.projects.ListVersions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, versions)
}

// History godoc
// @Summary Change history, newest first
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} types.APIResponse{data=[]services.HistoryEntry}
// @Router /projects/{id}/history [get]
func (h *ProjectsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.projects.ListHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// Autosave godoc
// @Summary Queue a debounced write of a free-text field
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Param body body types.AutosaveRequest true "field and value"
// @Success 202 {object} types.APIResponse
// @Router /projects/{id}/autosave [patch]
func (h *ProjectsHandler) Autosave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.AutosaveRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.projects.GetProject(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if err := h.autosaver.Schedule(id, middleware.GetUserID(r.Context()), req.Field, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, types.APIResponse{Success: true})
}
