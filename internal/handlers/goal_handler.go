package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type GoalHandler struct {
	goals     services.GoalService
	ownership services.OwnershipService
}

func NewGoalHandler(goals services.GoalService, ownership services.OwnershipService) *GoalHandler {
	return &GoalHandler{goals: goals, ownership: ownership}
}

func (h *GoalHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/goals", h.GetGoals).Methods("GET")
	router.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	router.HandleFunc("/goals/{id}", h.UpdateGoal).Methods("PUT")
	router.HandleFunc("/goals/{id}", h.DeleteGoal).Methods("DELETE")
}

func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	goals, err := h.goals.GetGoals(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var goal models.Goal
	if !decodeBody(w, r, &goal) {
		return
	}
	goal.UserID = userID

	created, err := h.goals.CreateGoal(goal)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateGoal merges the body into the goal, typically a new current_amount
// after a contribution
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Goals)
	if !ok {
		return
	}
	updates, ok := decodeUpdates(w, r)
	if !ok {
		return
	}
	goal, err := h.goals.UpdateGoal(id, updates)
	respondRecord(w, goal, err)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Goals)
	if !ok {
		return
	}
	respondNoContent(w, h.goals.DeleteGoal(id))
}
