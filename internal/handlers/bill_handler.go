package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type BillHandler struct {
	bills     services.BillService
	ownership services.OwnershipService
}

func NewBillHandler(bills services.BillService, ownership services.OwnershipService) *BillHandler {
	return &BillHandler{bills: bills, ownership: ownership}
}

func (h *BillHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bills", h.GetBills).Methods("GET")
	router.HandleFunc("/bills", h.CreateBill).Methods("POST")
	router.HandleFunc("/bills/{id}", h.UpdateBill).Methods("PUT")
	router.HandleFunc("/bills/{id}", h.DeleteBill).Methods("DELETE")
}

// GetBills lists bills soonest due first
func (h *BillHandler) GetBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bills, err := h.bills.GetBills(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var bill models.Bill
	if !decodeBody(w, r, &bill) {
		return
	}
	bill.UserID = userID
	if bill.Status == "" {
		bill.Status = models.BillUpcoming
	}

	created, err := h.bills.CreateBill(bill)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Bills)
	if !ok {
		return
	}
	updates, ok := decodeUpdates(w, r)
	if !ok {
		return
	}
	bill, err := h.bills.UpdateBill(id, updates)
	respondRecord(w, bill, err)
}

func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Bills)
	if !ok {
		return
	}
	respondNoContent(w, h.bills.DeleteBill(id))
}
