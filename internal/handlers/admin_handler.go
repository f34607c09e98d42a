package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// AdminHandler exposes the raw demo store for inspection and reset
type AdminHandler struct {
	store *store.Store
	net   *netsim.Network
}

func NewAdminHandler(st *store.Store, net *netsim.Network) *AdminHandler {
	return &AdminHandler{store: st, net: net}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/snapshot", h.Snapshot).Methods("GET")
	router.HandleFunc("/admin/reset", h.Reset).Methods("POST")
}

// Snapshot returns every table, or one with ?table=
func (h *AdminHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	name := r.URL.Query().Get("table")
	if name == "" {
		respondJSON(w, http.StatusOK, h.store.Snapshot())
		return
	}

	table, err := store.ParseTable(name)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.store.GetTable(table)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// Reset restores the seed data and re-arms the simulated network failure
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.store.Reset()
	if h.net != nil {
		h.net.Reset()
	}
	zap.L().Info("Demo store reset", zap.String("by", userID))
	w.WriteHeader(http.StatusNoContent)
}
