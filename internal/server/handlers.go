package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tgienger/taskui/internal/db"
	"github.com/tgienger/taskui/internal/models"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		s.serverError(w, r, err, "Failed to retrieve tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(taskID(r))
	if errors.Is(err, db.ErrNotFound) {
		writeErrorJSON(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to retrieve task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	task, err := s.store.CreateTask(form)
	if err != nil {
		s.serverError(w, r, err, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	task, err := s.store.UpdateTask(taskID(r), form)
	if errors.Is(err, db.ErrNotFound) {
		writeErrorJSON(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteTask(taskID(r))
	if errors.Is(err, db.ErrNotFound) {
		writeErrorJSON(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	s.requestLog(r).WithError(err).Error(message)
	writeErrorJSON(w, http.StatusInternalServerError, message)
}

func taskID(r *http.Request) models.TaskID {
	return models.TaskID(chi.URLParam(r, "id"))
}

// decodeForm reads and validates the request body, writing a 400 when it
// cannot be used.
func decodeForm(w http.ResponseWriter, r *http.Request) (models.FormState, bool) {
	var form models.FormState
	if err := decodeBody(w, r, &form); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "Invalid task data")
		return form, false
	}
	if errs := models.ValidateForm(form); len(errs) > 0 {
		msg := errs[models.FieldTitle]
		if msg == "" {
			msg = "Invalid task data"
		}
		writeErrorJSON(w, http.StatusBadRequest, msg)
		return form, false
	}
	return form, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a JSON error response
func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
