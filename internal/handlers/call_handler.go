package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/calls"
)

// CallPlacer starts an outbound voice call.
type CallPlacer interface {
	Create(ctx context.Context, to string) (*calls.Call, error)
}

type CallHandler struct {
	calls CallPlacer
}

func NewCallHandler(placer CallPlacer) *CallHandler {
	return &CallHandler{calls: placer}
}

// RegisterRoutes mounts POST /call on the root router; it is public.
func (h *CallHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/call", h.PlaceCall).Methods("POST")
}

func (h *CallHandler) PlaceCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	call, err := h.calls.Create(r.Context(), req.To)
	var providerErr *calls.ProviderError
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"message": "Call initiated", "sid": call.SID})
	case errors.Is(err, calls.ErrMissingDestination):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calls.ErrMissingCredentials):
		respondMessage(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &providerErr):
		zap.L().Error("Failed to create call", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to create call",
			"details": providerErr.Error(),
		})
	default:
		respondError(w, err)
	}
}
