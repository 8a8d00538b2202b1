// HTTP handlers for appointments.
//
// Routes:
//
//	GET    /appointments        → upcoming appointments
//	POST   /appointments        → book bay time for a job
//	DELETE /appointments/{id}   → cancel a booking
package appointments

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Handler holds shared dependencies.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all appointment routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/appointments", h.handleAppointments)
	mux.HandleFunc("/appointments/", h.handleAppointmentAction)
}

func (h *Handler) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUpcoming(w, r)
	case http.MethodPost:
		h.schedule(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAppointmentAction handles DELETE /appointments/{id}
func (h *Handler) handleAppointmentAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	if err := h.svc.Cancel(r.Context(), parts[1]); err != nil {
		if errors.Is(err, ErrNotFound) {
			jsonError(w, "appointment not found", http.StatusNotFound)
			return
		}
		log.Printf("[workshop] cancelAppointment error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]string{"status": "cancelled"})
}

func (h *Handler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.ListUpcoming(r.Context())
	if err != nil {
		log.Printf("[workshop] listUpcoming error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, appts)
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID    string `json:"jobId"`
		Bay      string `json:"bay"`
		StartsAt string `json:"startsAt"`
		EndsAt   string `json:"endsAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		jsonError(w, fmt.Sprintf("startsAt must be RFC3339: %v", err), http.StatusBadRequest)
		return
	}
	endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		jsonError(w, fmt.Sprintf("endsAt must be RFC3339: %v", err), http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Schedule(r.Context(), NewAppointment{
		JobID:    body.JobID,
		Bay:      body.Bay,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		log.Printf("[workshop] schedule error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, appt)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
