package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

type FamilyMemberHandler struct {
	familyService services.FamilyMemberService
	ownership     services.OwnershipService
}

func NewFamilyMemberHandler(familyService services.FamilyMemberService, ownership services.OwnershipService) *FamilyMemberHandler {
	return &FamilyMemberHandler{
		familyService: familyService,
		ownership:     ownership,
	}
}

func (h *FamilyMemberHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/family", h.GetFamilyMembers).Methods("GET")
	router.HandleFunc("/family/income", h.GetTotalFamilyIncome).Methods("GET")
	router.HandleFunc("/family", h.CreateFamilyMember).Methods("POST")
	router.HandleFunc("/family/{id}", h.UpdateFamilyMember).Methods("PUT")
	router.HandleFunc("/family/{id}/status", h.ToggleFamilyMemberStatus).Methods("PATCH")
	router.HandleFunc("/family/{id}", h.DeleteFamilyMember).Methods("DELETE")
}

// GetFamilyMembers retrieves all family members for the authenticated user
func (h *FamilyMemberHandler) GetFamilyMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	members, err := h.familyService.GetFamilyMembers(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// GetTotalFamilyIncome sums the monthly income of active members
func (h *FamilyMemberHandler) GetTotalFamilyIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	total, err := h.familyService.GetTotalFamilyIncome(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"total_income": total})
}

// CreateFamilyMember creates a new family member
func (h *FamilyMemberHandler) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	member := models.FamilyMember{IsActive: true}
	if !decodeBody(w, r, &member) {
		return
	}
	member.UserID = userID

	created, err := h.familyService.CreateFamilyMember(member)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateFamilyMember updates an existing family member
func (h *FamilyMemberHandler) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.FamilyMembers)
	if !ok {
		return
	}
	updates, ok := decodeUpdates(w, r)
	if !ok {
		return
	}
	member, err := h.familyService.UpdateFamilyMember(id, updates)
	respondRecord(w, member, err)
}

// ToggleFamilyMemberStatus activates or deactivates a family member
func (h *FamilyMemberHandler) ToggleFamilyMemberStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.FamilyMembers)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		respondMessage(w, http.StatusBadRequest, "is_active is required")
		return
	}
	member, err := h.familyService.UpdateFamilyMember(id, map[string]any{"is_active": *req.IsActive})
	respondRecord(w, member, err)
}

// DeleteFamilyMember deletes a family member
func (h *FamilyMemberHandler) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.FamilyMembers)
	if !ok {
		return
	}
	respondNoContent(w, h.familyService.DeleteFamilyMember(id))
}
