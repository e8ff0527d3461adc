package handlers

import (
	"net/http"

	"github.com/dashspec/engine/internal/api/types"
	"github.com/dashspec/engine/internal/services"
)

type TasksHandler struct {
	tasks services.TaskService
}

func NewTasksHandler(tasks services.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// List godoc
// @Summary List a project's tasks in order
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} types.APIResponse{data=[]models.Task}
// @Router /projects/{id}/tasks [get]
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tasks, err := h.tasks.ListTasks(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tasks)
}

// Create godoc
// @Summary Append a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "project id"
// @Param body body types.TaskCreateRequest true "task"
// @Success 201 {object} types.APIResponse{data=models.Task}
// @Router /projects/{id}/tasks [post]
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.TaskCreateRequest
	if !decode(w, r, &req) {
		return
	}
	task, err := h.tasks.AddTask(r.Context(), projectID, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, task)
}

// Update godoc
// @Summary Toggle or move a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "project id"
// @Param taskID path string true "task id"
// @Param body body types.TaskUpdateRequest true "changes"
// @Success 200 {object} types.APIResponse{data=[]models.Task}
// @Router /projects/{id}/tasks/{taskID} [patch]
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	var req types.TaskUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Completed == nil && req.Index == nil {
		writeErrorStr(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Completed != nil {
		if err := h.tasks.ToggleTask(r.Context(), projectID, taskID, *req.Completed); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Index != nil {
		if _, err := h.tasks.MoveTask(r.Context(), projectID, taskID, *req.Index); err != nil {
			writeError(w, err)
			return
		}
	}
	h.List(w, r)
}

// Delete godoc
// @Summary Remove a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "project id"
// @Param taskID path string true "task id"
// @Success 204
// @Router /projects/{id}/tasks/{taskID} [delete]
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), projectID, taskID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder godoc
// @Summary Replace the task order
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "project id"
// @Param body body types.TaskOrderRequest true "every task id, in the new order"
// @Success 200 {object} types.APIResponse{data=[]models.Task}
// @Router /projects/{id}/tasks/order [put]
func (h *TasksHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.TaskOrderRequest
	if !decode(w, r, &req) {
		return
	}
	tasks, err := h.tasks.ReorderTasks(r.Context(), projectID, req.TaskIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tasks)
}
