package handler

import (
	"encoding/json"
	"net/http"

	"microblog/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.ErrorResponse{Error: message})
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: message})
}
