// Package board contains the drag-and-drop orchestration for the job board.
// It is transport-agnostic: the Controller turns a drop intent into a
// validated, capacity-respecting status change through an injected store,
// and reports the outcome as UI notices.
package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shopdesk/workshop-service/internal/workflow"
)

// Job is the unit under state control and the JSON shape returned to clients.
type Job struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Customer       string            `json:"customer"`
	Vehicle        string            `json:"vehicle"`
	Status         workflow.Status   `json:"status"`
	Priority       workflow.Priority `json:"priority"`
	EstimatedHours float64           `json:"estimatedHours"`
	BayAssignment  *string           `json:"bayAssignment"`
	HistoryLog     json.RawMessage   `json:"historyLog"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// WorkflowContext extracts the fields the transition policy inspects.
func (j *Job) WorkflowContext() workflow.JobContext {
	return workflow.JobContext{
		Priority:    j.Priority,
		BayAssigned: j.BayAssignment != nil && *j.BayAssignment != "",
	}
}

// NewJob carries the fields accepted when creating a job.
type NewJob struct {
	Title          string
	Customer       string
	Vehicle        string
	Status         workflow.Status
	Priority       workflow.Priority
	EstimatedHours float64
}

// Lane is a board column keyed by one status. MaxOccupancy 0 means the lane
// is unlimited; a positive value caps how many jobs may hold the status at
// once (e.g. In Bay capped at the number of physical service bays).
type Lane struct {
	Status       workflow.Status `json:"status"`
	Label        string          `json:"label"`
	MaxOccupancy int             `json:"maxOccupancy"`
}

// DefaultLanes returns the standard board layout. Only In Bay is
// capacity-limited: a shop has bayCount physical bays.
func DefaultLanes(bayCount int) []Lane {
	lanes := make([]Lane, 0, 7)
	for _, s := range []workflow.Status{
		workflow.StatusIntake,
		workflow.StatusIncomingCall,
		workflow.StatusScheduled,
		workflow.StatusInProgress,
		workflow.StatusInBay,
		workflow.StatusWaitingParts,
		workflow.StatusCompleted,
	} {
		lane := Lane{Status: s, Label: workflow.Label(s)}
		if s == workflow.StatusInBay {
			lane.MaxOccupancy = bayCount
		}
		lanes = append(lanes, lane)
	}
	return lanes
}

// NoticeKind classifies a UI notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a human-facing message surfaced to the board UI. Never persisted.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// JobStore is the persistence collaborator. UpdateStatus is the sole call
// with persistence consequences: it must set the new status and bump
// updated_at atomically, returning the committed job.
type JobStore interface {
	ListJobs(ctx context.Context) ([]Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	UpdateStatus(ctx context.Context, id string, to workflow.Status) (*Job, error)
}

// EventPublisher fans committed moves out to interested subscribers
// (gateway SSE, notification workers). Publish failures are non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event any) error
}

// DropResult reports the outcome of one drop intent. Job always reflects the
// authoritative status after the attempt: the committed job on success, the
// unchanged job on any rejection or commit failure.
type DropResult struct {
	Moved   bool     `json:"moved"`
	Job     *Job     `json:"job"`
	Notices []Notice `json:"notices"`
}

// Controller orchestrates drop intents. The mutex serializes the
// decide-and-commit sequence so the destination occupancy is always derived
// from the job list as it stands immediately before the commit — two
// near-simultaneous drags cannot both claim the last open slot in a
// capacity-limited lane.
type Controller struct {
	mu    sync.Mutex
	store JobStore
	pub   EventPublisher
	lanes map[workflow.Status]Lane
}

// NewController returns a Controller over the given store and lane set.
// pub may be nil when no event fan-out is wanted (tests).
func NewController(store JobStore, pub EventPublisher, lanes []Lane) *Controller {
	byStatus := make(map[workflow.Status]Lane, len(lanes))
	for _, l := range lanes {
		byStatus[l.Status] = l
	}
	return &Controller{store: store, pub: pub, lanes: byStatus}
}

// Lanes returns the configured lanes in canonical order.
func (c *Controller) Lanes() []Lane {
	out := make([]Lane, 0, len(c.lanes))
	for _, s := range []workflow.Status{
		workflow.StatusIntake,
		workflow.StatusIncomingCall,
		workflow.StatusScheduled,
		workflow.StatusInProgress,
		workflow.StatusInBay,
		workflow.StatusWaitingParts,
		workflow.StatusCompleted,
	} {
		if l, ok := c.lanes[s]; ok {
			out = append(out, l)
		}
	}
	return out
}

// HandleDrop processes a drop of the job onto the lane keyed by to.
//
// A same-status drop is a no-op: nothing is validated, counted, or
// committed. An illegal transition or a full destination lane rejects the
// drop with the job left untouched. A legal drop that requires confirmation
// proceeds and surfaces the warning alongside the success notice (soft
// confirmation). Commit failures surface an error notice and report the
// job at its pre-drag status.
//
// The returned error is reserved for infrastructure failures reading the
// job or the job list; every policy outcome is expressed through notices.
func (c *Controller) HandleDrop(ctx context.Context, jobID string, to workflow.Status) (*DropResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	from := job.Status

	if from == to {
		return &DropResult{Moved: false, Job: job}, nil
	}

	dec := workflow.Decide(from, to, job.WorkflowContext())
	if !dec.IsValid {
		return &DropResult{
			Moved:   false,
			Job:     job,
			Notices: []Notice{invalidNotice(dec)},
		}, nil
	}

	if lane, ok := c.lanes[to]; ok && lane.MaxOccupancy > 0 {
		occupancy, err := c.occupancy(ctx, to, job.ID)
		if err != nil {
			return nil, err
		}
		if occupancy >= lane.MaxOccupancy {
			return &DropResult{
				Moved:   false,
				Job:     job,
				Notices: []Notice{capacityNotice(job, lane, occupancy)},
			}, nil
		}
	}

	var notices []Notice
	if dec.RequiresConfirmation {
		notices = append(notices, confirmationNotice(to, dec))
	}

	updated, err := c.store.UpdateStatus(ctx, job.ID, to)
	if err != nil {
		slog.Warn("status commit failed", "jobId", job.ID, "to", to, "err", err)
		notices = append(notices, commitFailureNotice(job, to))
		return &DropResult{Moved: false, Job: job, Notices: notices}, nil
	}

	notices = append(notices, successNotice(updated, from, to))
	for _, action := range dec.AutoActions {
		notices = append(notices, autoActionNotice(updated, action))
	}

	c.publishMoved(ctx, updated, from, to, dec.AutoActions)

	return &DropResult{Moved: true, Job: updated, Notices: notices}, nil
}

// occupancy counts jobs currently holding status, excluding the dragged job
// itself. Derived from a fresh read of the authoritative job list, never
// from a cached board snapshot.
func (c *Controller) occupancy(ctx context.Context, status workflow.Status, excludeID string) (int, error) {
	jobs, err := c.store.ListJobs(ctx)
	if err != nil {
		return 0, fmt.Errorf("occupancy list: %w", err)
	}
	n := 0
	for _, j := range jobs {
		if j.ID != excludeID && j.Status == status {
			n++
		}
	}
	return n, nil
}

// publishMoved emits the board event for a committed move (non-fatal).
func (c *Controller) publishMoved(ctx context.Context, job *Job, from, to workflow.Status, autoActions []string) {
	if c.pub == nil {
		return
	}
	event := map[string]any{
		"type":        "EVENT_JOB_MOVED",
		"jobId":       job.ID,
		"from":        string(from),
		"to":          string(to),
		"autoActions": autoActions,
	}
	if err := c.pub.Publish(ctx, "EVENT_JOB_MOVED", event); err != nil {
		slog.Warn("publish EVENT_JOB_MOVED failed", "jobId", job.ID, "err", err)
	}
}
