// HTTP handlers for the board.
//
// Routes:
//
//	GET  /board                  → lanes with their jobs and occupancy
//	GET  /jobs                   → list jobs, optional ?status= filter
//	POST /jobs                   → create a job (intake or incoming-call)
//	POST /jobs/{id}/move         → drop the job onto a new lane
//	POST /jobs/{id}/bay          → assign a service bay
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"shopdesk/workshop-service/internal/workflow"
)

// Store is the full persistence surface the HTTP layer needs: the
// Controller's JobStore plus the plain CRUD the board UI is built on.
type Store interface {
	JobStore
	CreateJob(ctx context.Context, in NewJob) (*Job, error)
	AssignBay(ctx context.Context, id, bay string) (*Job, error)
}

// ErrNotFound is returned by stores when a job does not exist.
var ErrNotFound = fmt.Errorf("job not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// LaneView is one board column with its live contents.
type LaneView struct {
	Lane
	Occupancy int   `json:"occupancy"`
	Progress  int   `json:"progress"`
	Jobs      []Job `json:"jobs"`
}

// Handler holds shared dependencies.
type Handler struct {
	store Store
	ctrl  *Controller
}

// NewHandler returns a configured Handler.
func NewHandler(store Store, ctrl *Controller) *Handler {
	return &Handler{store: store, ctrl: ctrl}
}

// RegisterRoutes mounts all board routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/board", h.handleBoard)
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.boardView(w, r)
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobAction handles POST /jobs/{id}/move|bay
func (h *Handler) handleJobAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /jobs/{id}/{action}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	jobID := parts[1]
	action := parts[2]

	switch action {
	case "move":
		h.moveJob(w, r, jobID)
	case "bay":
		h.assignBay(w, r, jobID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) boardView(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListJobs(r.Context())
	if err != nil {
		log.Printf("[workshop] boardView list error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	byStatus := make(map[workflow.Status][]Job)
	for _, j := range jobs {
		byStatus[j.Status] = append(byStatus[j.Status], j)
	}

	lanes := h.ctrl.Lanes()
	views := make([]LaneView, 0, len(lanes))
	for _, lane := range lanes {
		laneJobs := byStatus[lane.Status]
		if laneJobs == nil {
			laneJobs = make([]Job, 0)
		}
		views = append(views, LaneView{
			Lane:      lane,
			Occupancy: len(laneJobs),
			Progress:  workflow.Progress(lane.Status),
			Jobs:      laneJobs,
		})
	}

	jsonOK(w, map[string]any{"lanes": views})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListJobs(r.Context())
	if err != nil {
		log.Printf("[workshop] listJobs error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	if filter := r.URL.Query().Get("status"); filter != "" {
		status, err := workflow.ParseStatus(filter)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		filtered := make([]Job, 0)
		for _, j := range jobs {
			if j.Status == status {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	jsonOK(w, jobs)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title          string  `json:"title"`
		Customer       string  `json:"customer"`
		Vehicle        string  `json:"vehicle"`
		Status         string  `json:"status"`
		Priority       string  `json:"priority"`
		EstimatedHours float64 `json:"estimatedHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		jsonError(w, "body must contain title", http.StatusBadRequest)
		return
	}

	// New jobs start in intake unless the front desk logs a phone call.
	status := workflow.StatusIntake
	if body.Status != "" {
		parsed, err := workflow.ParseStatus(body.Status)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if parsed != workflow.StatusIntake && parsed != workflow.StatusIncomingCall {
			jsonError(w, "new jobs must start in intake or incoming-call", http.StatusBadRequest)
			return
		}
		status = parsed
	}

	priority := workflow.PriorityMedium
	if body.Priority != "" {
		parsed, err := workflow.ParsePriority(body.Priority)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		priority = parsed
	}

	job, err := h.store.CreateJob(r.Context(), NewJob{
		Title:          body.Title,
		Customer:       body.Customer,
		Vehicle:        body.Vehicle,
		Status:         status,
		Priority:       priority,
		EstimatedHours: body.EstimatedHours,
	})
	if err != nil {
		log.Printf("[workshop] createJob error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, job)
}

func (h *Handler) moveJob(w http.ResponseWriter, r *http.Request, jobID string) {
	var body struct {
		NewStatus string `json:"newStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		jsonError(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}

	newStatus, err := workflow.ParseStatus(body.NewStatus)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ctrl.HandleDrop(r.Context(), jobID, newStatus)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		log.Printf("[workshop] moveJob error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, result)
}

func (h *Handler) assignBay(w http.ResponseWriter, r *http.Request, jobID string) {
	var body struct {
		Bay string `json:"bay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Bay == "" {
		jsonError(w, "body must contain bay", http.StatusBadRequest)
		return
	}

	job, err := h.store.AssignBay(r.Context(), jobID, body.Bay)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		log.Printf("[workshop] assignBay error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, job)
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
