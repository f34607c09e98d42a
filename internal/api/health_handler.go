package api

import (
	"encoding/json"
	"net/http"
)

// Version is reported by the health endpoint. The CLI sets it from build metadata.
var Version = "dev"

// HealthHandler responds to health check requests
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": Version,
	})
}
