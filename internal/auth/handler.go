package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type shareRequest struct {
	Role     string `json:"role"`
	TTLHours int    `json:"ttlHours"`
}

// Share issues another token for the plan. The route must be wrapped in
// RequirePlan(RoleEdit).
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planId"]

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TTLHours < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ttlHours must not be negative"})
		return
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be view or edit"})
		return
	}

	result, err := h.service.Issue(planID, role, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be view or edit"})
			return
		}
		slog.Error("issue share token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
