package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
	"github.com/vikasavnish/flowguide/internal/utils"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to write response", zap.Error(err))
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service errors to status codes.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, netsim.ErrNetworkHiccup):
		respondMessage(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, store.ErrInvalidRecord):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		zap.L().Error("Request failed", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// decodeUpdates reads a partial update. Ownership and identity fields are
// dropped so a client cannot move a record to another user.
func decodeUpdates(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var updates map[string]any
	if !decodeBody(w, r, &updates) {
		return nil, false
	}
	if updates == nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	delete(updates, "user_id")
	delete(updates, "id")
	delete(updates, "created_at")
	return updates, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// owned resolves the caller and checks they own the record named by the
// {id} route variable.
func owned(w http.ResponseWriter, r *http.Request, ownership services.OwnershipService, table store.Table) (string, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return "", false
	}
	id := pathID(r)
	if err := ownership.CheckOwner(table, id, userID); err != nil {
		respondError(w, err)
		return "", false
	}
	return id, true
}

// respondRecord writes v, or 404 when the service found nothing.
func respondRecord[T any](w http.ResponseWriter, v *T, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	if v == nil {
		respondError(w, services.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func respondNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
