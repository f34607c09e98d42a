package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type InvestmentHandler struct {
	investments services.InvestmentService
	ownership   services.OwnershipService
}

func NewInvestmentHandler(investments services.InvestmentService, ownership services.OwnershipService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments, ownership: ownership}
}

func (h *InvestmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/investments", h.GetInvestments).Methods("GET")
	router.HandleFunc("/investments/total", h.GetTotalValue).Methods("GET")
	router.HandleFunc("/investments", h.CreateInvestment).Methods("POST")
	router.HandleFunc("/investments/{id}", h.UpdateInvestment).Methods("PUT")
	router.HandleFunc("/investments/{id}", h.DeleteInvestment).Methods("DELETE")
}

func (h *InvestmentHandler) GetInvestments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	investments, err := h.investments.GetInvestments(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, investments)
}

func (h *InvestmentHandler) GetTotalValue(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	total, err := h.investments.GetTotalInvestmentValue(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"total_value": total})
}

// CreateInvestment stores a holding. member_id is taken as given.
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var investment models.Investment
	if !decodeBody(w, r, &investment) {
		return
	}
	investment.UserID = userID

	created, err := h.investments.CreateInvestment(investment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *InvestmentHandler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Investments)
	if !ok {
		return
	}
	updates, ok := decodeUpdates(w, r)
	if !ok {
		return
	}
	investment, err := h.investments.UpdateInvestment(id, updates)
	respondRecord(w, investment, err)
}

func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Investments)
	if !ok {
		return
	}
	respondNoContent(w, h.investments.DeleteInvestment(id))
}
