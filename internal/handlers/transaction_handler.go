package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type TransactionHandler struct {
	transactions services.TransactionService
	ownership    services.OwnershipService
}

func NewTransactionHandler(transactions services.TransactionService, ownership services.OwnershipService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, ownership: ownership}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.GetTransactions).Methods("GET")
	router.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	router.HandleFunc("/balance", h.GetBalance).Methods("GET")
}

// GetTransactions lists the newest transactions, 50 unless ?limit= says
// otherwise
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondMessage(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	txns, err := h.transactions.GetTransactions(userID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var txn models.Transaction
	if !decodeBody(w, r, &txn) {
		return
	}
	txn.UserID = userID

	created, err := h.transactions.CreateTransaction(txn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Transactions)
	if !ok {
		return
	}
	updates, ok := decodeUpdates(w, r)
	if !ok {
		return
	}
	txn, err := h.transactions.UpdateTransaction(id, updates)
	respondRecord(w, txn, err)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Transactions)
	if !ok {
		return
	}
	respondNoContent(w, h.transactions.DeleteTransaction(id))
}

// GetBalance returns income minus expenses over all transactions
func (h *TransactionHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	balance, err := h.transactions.GetBalance(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"balance": balance})
}
