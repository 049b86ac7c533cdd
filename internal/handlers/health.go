package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// ServiceName identifies this service in health responses
const ServiceName = "bantora-web"

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports that the process is serving requests
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "UP",
		Service:   ServiceName,
		Timestamp: time.Now().UTC(),
	})
}
