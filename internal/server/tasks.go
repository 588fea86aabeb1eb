package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
)

// handleGetLists returns the owner's task lists ordered by title.
func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request, user *model.User) {
	lists, err := s.store.GetLists(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "List not found", "Failed to fetch lists")
		return
	}
	if lists == nil {
		lists = []model.TaskList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// handleCreateList creates a new task list.
func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "List name is required")
		return
	}

	list, err := s.store.CreateList(r.Context(), user.ID, req.Title)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "A list with this name already exists")
			return
		}
		writeStoreError(w, err, "List not found", "Failed to create list")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// handleDeleteList deletes a list; its tasks go with it.
func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request, user *model.User) {
	err := s.store.DeleteList(r.Context(), user.ID, r.PathValue("listID"))
	if err != nil {
		writeStoreError(w, err, "List not found", "Failed to delete list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleListTasks returns the tasks of one list, in the requested order.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, user *model.User) {
	tasks, err := s.store.GetTasks(r.Context(), user.ID, store.TaskQuery{
		View:   store.ViewByList,
		ListID: r.PathValue("listID"),
		Sort:   r.URL.Query().Get("sort"),
	})
	if err != nil {
		writeStoreError(w, err, "List not found", "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleView serves one of the quick views spanning all of the owner's
// lists.
func (s *Server) handleView(view store.TaskView) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user *model.User) {
		tasks, err := s.store.GetTasks(r.Context(), user.ID, store.TaskQuery{
			View: view,
			Sort: r.URL.Query().Get("sort"),
		})
		if err != nil {
			writeStoreError(w, err, "Not found", "Failed to fetch tasks")
			return
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

// handleCreateTask adds a task to a list the owner must already own.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Task title is required")
		return
	}

	task, err := s.store.CreateTask(r.Context(), user.ID, r.PathValue("listID"), req.Title)
	if err != nil {
		writeStoreError(w, err, "List not found", "Failed to add task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// taskUpdateRequest is the PUT body for a full task edit. Due dates are
// calendar dates (YYYY-MM-DD); reminders are RFC 3339 instants. Empty
// strings clear the respective field.
type taskUpdateRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"is_completed"`
	Important bool   `json:"is_important"`
	Due       string `json:"due"`
	RemindAt  string `json:"remind_at"`
}

// handleUpdateTask replaces a task's editable fields.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req taskUpdateRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Task title is required")
		return
	}

	upd := store.TaskUpdate{
		Title:     req.Title,
		Completed: req.Completed,
		Important: req.Important,
	}
	if req.Due != "" {
		if err := model.ValidateDueDate(req.Due); err != nil {
			writeError(w, http.StatusBadRequest, "Due date must be in YYYY-MM-DD format")
			return
		}
		upd.Due = &req.Due
	}
	if req.RemindAt != "" {
		remindAt, err := time.Parse(time.RFC3339, req.RemindAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Reminder must be an RFC 3339 timestamp")
			return
		}
		upd.RemindAt = &remindAt
	}

	if err := s.store.UpdateTask(r.Context(), user.ID, r.PathValue("taskID"), upd); err != nil {
		writeStoreError(w, err, "Task not found", "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleSetCompleted toggles a task's completion flag.
func (s *Server) handleSetCompleted(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req struct {
		Completed bool `json:"is_completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.store.SetTaskCompleted(r.Context(), user.ID, r.PathValue("taskID"), req.Completed)
	if err != nil {
		writeStoreError(w, err, "Task not found", "Failed to update task completion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleSetImportant toggles a task's importance flag.
func (s *Server) handleSetImportant(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req struct {
		Important bool `json:"is_important"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.store.SetTaskImportant(r.Context(), user.ID, r.PathValue("taskID"), req.Important)
	if err != nil {
		writeStoreError(w, err, "Task not found", "Failed to update task importance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, user *model.User) {
	err := s.store.DeleteTask(r.Context(), user.ID, r.PathValue("taskID"))
	if err != nil {
		writeStoreError(w, err, "Task not found", "Failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
