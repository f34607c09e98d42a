package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
)

// HistoryHandler serves the advice, voice/SMS and safety logs
type HistoryHandler struct {
	history services.HistoryService
	planner services.PlannerService
}

func NewHistoryHandler(history services.HistoryService, planner services.PlannerService) *HistoryHandler {
	return &HistoryHandler{history: history, planner: planner}
}

func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/advice", h.GetAdvice).Methods("GET")
	router.HandleFunc("/advice", h.AskAdvice).Methods("POST")
	router.HandleFunc("/voice-sms", h.GetVoiceSms).Methods("GET")
	router.HandleFunc("/voice-sms", h.CreateVoiceSms).Methods("POST")
	router.HandleFunc("/safety-logs", h.GetSafetyLogs).Methods("GET")
	router.HandleFunc("/safety-logs", h.CreateSafetyLog).Methods("POST")
}

func (h *HistoryHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	entries, err := h.history.GetAdviceHistory(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// AskAdvice answers the question and records the exchange
func (h *HistoryHandler) AskAdvice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Category string `json:"category"`
		Question string `json:"question"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.planner.AskAdvice(userID, req.Category, req.Question)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *HistoryHandler) GetVoiceSms(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	entries, err := h.history.GetVoiceSmsHistory(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *HistoryHandler) CreateVoiceSms(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var entry models.VoiceSmsHistory
	if !decodeBody(w, r, &entry) {
		return
	}
	entry.UserID = userID

	created, err := h.history.CreateVoiceSmsHistory(entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *HistoryHandler) GetSafetyLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	logs, err := h.history.GetSafetyLogs(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func (h *HistoryHandler) CreateSafetyLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var entry models.SafetyLog
	if !decodeBody(w, r, &entry) {
		return
	}
	entry.UserID = userID

	created, err := h.history.CreateSafetyLog(entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
