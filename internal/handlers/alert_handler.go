package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type AlertHandler struct {
	alerts    services.AlertService
	ownership services.OwnershipService
}

func NewAlertHandler(alerts services.AlertService, ownership services.OwnershipService) *AlertHandler {
	return &AlertHandler{alerts: alerts, ownership: ownership}
}

func (h *AlertHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/alerts", h.GetAlerts).Methods("GET")
	router.HandleFunc("/alerts/unread", h.GetUnreadAlerts).Methods("GET")
	router.HandleFunc("/alerts", h.CreateAlert).Methods("POST")
	router.HandleFunc("/alerts/{id}/read", h.MarkAsRead).Methods("PATCH")
	router.HandleFunc("/alerts/{id}", h.DeleteAlert).Methods("DELETE")
}

func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	alerts, err := h.alerts.GetAlerts(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) GetUnreadAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	alerts, err := h.alerts.GetUnreadAlerts(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var alert models.Alert
	if !decodeBody(w, r, &alert) {
		return
	}
	alert.UserID = userID
	if alert.Severity == "" {
		alert.Severity = models.SeverityInfo
	}

	created, err := h.alerts.CreateAlert(alert)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *AlertHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Alerts)
	if !ok {
		return
	}
	respondNoContent(w, h.alerts.MarkAlertAsRead(id))
}

func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Alerts)
	if !ok {
		return
	}
	respondNoContent(w, h.alerts.DeleteAlert(id))
}
