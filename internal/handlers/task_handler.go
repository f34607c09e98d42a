package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/tasks"
)

type TaskHandler struct {
	manager *tasks.Manager
}

func NewTaskHandler(manager *tasks.Manager) *TaskHandler {
	return &TaskHandler{manager: manager}
}

func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/admin/tasks/{name}/run", h.RunTask).Methods("POST")
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": h.manager.Names()})
}

// RunTask runs one pass of the named task right away
func (h *TaskHandler) RunTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	name := mux.Vars(r)["name"]
	err := h.manager.RunTask(name)
	switch {
	case errors.Is(err, tasks.ErrUnknownTask):
		respondMessage(w, http.StatusNotFound, "Unknown task "+name)
	case err != nil:
		respondError(w, err)
	default:
		respondJSON(w, http.StatusOK, map[string]string{"task": name, "status": "completed"})
	}
}
