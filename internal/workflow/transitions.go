// Package workflow defines the state machine for service jobs.
//
// Valid status graph:
//
//	INTAKE ──► INCOMING-CALL ──► SCHEDULED ──► IN-PROGRESS ──► IN-BAY ──► COMPLETED
//	   │                             │              │             ▲  │
//	   └─────────────────────────────┘              ▼             │  ▼
//	                                            WAITING-PARTS ◄───┼──┘
//	                                                  │           │
//	                                                  └───────────┘  (parts arrived)
//
// COMPLETED is a terminal state. Jobs may only reach COMPLETED after at
// least visiting SCHEDULED. The package is pure decision logic: it performs
// no I/O and holds no state.
package workflow

import "fmt"

// Status values mirror the job_status enum in PostgreSQL. They are stable
// wire identifiers exchanged with the gateway and clients.
type Status string

const (
	StatusIntake       Status = "intake"
	StatusIncomingCall Status = "incoming-call"
	StatusScheduled    Status = "scheduled"
	StatusInProgress   Status = "in-progress"
	StatusInBay        Status = "in-bay"
	StatusWaitingParts Status = "waiting-parts"
	StatusCompleted    Status = "completed"
)

// Priority values mirror the job_priority enum in PostgreSQL.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusIntake:       {StatusIncomingCall, StatusScheduled},
	StatusIncomingCall: {StatusScheduled},
	StatusScheduled:    {StatusInProgress, StatusInBay, StatusCompleted},
	StatusInProgress:   {StatusInBay, StatusWaitingParts, StatusCompleted},
	StatusInBay:        {StatusWaitingParts, StatusCompleted},
	StatusWaitingParts: {StatusInBay, StatusCompleted},
	// COMPLETED is terminal — no outgoing transitions
}

// statusLabels holds the fixed human-readable label per status.
var statusLabels = map[Status]string{
	StatusIntake:       "Intake",
	StatusIncomingCall: "Incoming Call",
	StatusScheduled:    "Scheduled",
	StatusInProgress:   "In Progress",
	StatusInBay:        "In Bay",
	StatusWaitingParts: "Waiting for Parts",
	StatusCompleted:    "Completed",
}

// statusProgress maps each status to a completion percentage. Monotonically
// non-decreasing along the canonical forward path; used for display only.
var statusProgress = map[Status]int{
	StatusIntake:       0,
	StatusIncomingCall: 10,
	StatusScheduled:    25,
	StatusInProgress:   50,
	StatusInBay:        60,
	StatusWaitingParts: 75,
	StatusCompleted:    100,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusIntake, StatusIncomingCall, StatusScheduled, StatusInProgress,
		StatusInBay, StatusWaitingParts, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// ParsePriority converts a raw string to a Priority, returning an error for
// unknown values.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown job priority %q", s)
}

// mustValid panics on a status value outside the closed enumeration.
// Callers are expected to have gone through ParseStatus at the boundary;
// anything else is a programming error, not a recoverable condition.
func mustValid(s Status) {
	if _, ok := statusLabels[s]; !ok {
		panic(fmt.Sprintf("workflow: invalid job status %q", s))
	}
}

// CanTransition returns true when moving from → to is an edge of the state
// machine. Self-moves are not edges; they are handled as no-ops above this
// layer.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses directly reachable from s. Terminal
// statuses return an empty slice.
func NextStatuses(s Status) []Status {
	mustValid(s)
	out := make([]Status, len(validTransitions[s]))
	copy(out, validTransitions[s])
	return out
}

// IsTerminal returns true when status has no outgoing transitions.
func IsTerminal(s Status) bool {
	mustValid(s)
	return len(validTransitions[s]) == 0
}

// Label returns the fixed human-readable label for a status
// (e.g. "in-bay" → "In Bay").
func Label(s Status) string {
	mustValid(s)
	return statusLabels[s]
}

// Progress returns the completion percentage for a status.
func Progress(s Status) int {
	mustValid(s)
	return statusProgress[s]
}
