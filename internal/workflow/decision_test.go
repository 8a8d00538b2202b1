package workflow_test

import (
	"strings"
	"testing"

	"shopdesk/workshop-service/internal/workflow"
)

func ctx(p workflow.Priority, bay bool) workflow.JobContext {
	return workflow.JobContext{Priority: p, BayAssigned: bay}
}

// ── Decide — invalid edges ─────────────────────────────────────────────────

// Every pair outside the edge set must be invalid and carry a warning.
func TestDecide_AbsentEdgesInvalidWithWarning(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from == to || workflow.CanTransition(from, to) {
				continue
			}
			d := workflow.Decide(from, to, ctx(workflow.PriorityMedium, true))
			if d.IsValid {
				t.Errorf("Decide(%s → %s) should be invalid", from, to)
			}
			if d.WarningMessage == "" {
				t.Errorf("Decide(%s → %s) invalid decision missing warning message", from, to)
			}
		}
	}
}

// Warnings must reference human labels, not wire identifiers.
func TestDecide_WarningUsesLabels(t *testing.T) {
	d := workflow.Decide(workflow.StatusIntake, workflow.StatusCompleted, ctx(workflow.PriorityLow, false))
	if d.IsValid {
		t.Fatal("Decide(intake → completed) should be invalid")
	}
	if !strings.Contains(d.WarningMessage, "Intake") || !strings.Contains(d.WarningMessage, "Completed") {
		t.Errorf("warning %q should name both status labels", d.WarningMessage)
	}
}

func TestDecide_TerminalWarning(t *testing.T) {
	d := workflow.Decide(workflow.StatusCompleted, workflow.StatusInBay, ctx(workflow.PriorityLow, true))
	if d.IsValid {
		t.Fatal("Decide(completed → in-bay) should be invalid")
	}
	if !strings.Contains(d.WarningMessage, "terminal") {
		t.Errorf("warning %q should mention the terminal state", d.WarningMessage)
	}
}

// ── Decide — identity is not a transition ──────────────────────────────────

func TestDecide_SelfMoveIsPlainValid(t *testing.T) {
	for _, s := range allStatuses {
		d := workflow.Decide(s, s, ctx(workflow.PriorityHigh, false))
		if !d.IsValid || d.RequiresConfirmation || d.WarningMessage != "" || len(d.AutoActions) != 0 {
			t.Errorf("Decide(%s → %s) should be a plain valid no-op, got %+v", s, s, d)
		}
	}
}

// ── Decide — confirmation policy ───────────────────────────────────────────

func TestDecide_PartsArrivedRequiresConfirmation(t *testing.T) {
	d := workflow.Decide(workflow.StatusWaitingParts, workflow.StatusInBay, ctx(workflow.PriorityMedium, true))
	if !d.IsValid {
		t.Fatal("Decide(waiting-parts → in-bay) should be valid")
	}
	if !d.RequiresConfirmation {
		t.Error("waiting-parts → in-bay should require confirmation")
	}
	if d.WarningMessage == "" {
		t.Error("confirmation decision should carry an explanatory warning")
	}
}

func TestDecide_HighPriorityEarlyCompletionRequiresConfirmation(t *testing.T) {
	for _, from := range []workflow.Status{workflow.StatusScheduled, workflow.StatusInProgress} {
		d := workflow.Decide(from, workflow.StatusCompleted, ctx(workflow.PriorityHigh, true))
		if !d.IsValid {
			t.Fatalf("Decide(%s → completed) should be valid", from)
		}
		if !d.RequiresConfirmation {
			t.Errorf("high-priority %s → completed should require confirmation", from)
		}
	}
}

func TestDecide_CompletionFromBayNeedsNoConfirmation(t *testing.T) {
	for _, from := range []workflow.Status{workflow.StatusInBay, workflow.StatusWaitingParts} {
		d := workflow.Decide(from, workflow.StatusCompleted, ctx(workflow.PriorityHigh, true))
		if !d.IsValid || d.RequiresConfirmation {
			t.Errorf("Decide(%s → completed) for a bayed job should be valid without confirmation, got %+v", from, d)
		}
	}
}

func TestDecide_LowPriorityCompletionNeedsNoConfirmation(t *testing.T) {
	d := workflow.Decide(workflow.StatusInProgress, workflow.StatusCompleted, ctx(workflow.PriorityLow, true))
	if !d.IsValid || d.RequiresConfirmation {
		t.Errorf("low-priority in-progress → completed should not require confirmation, got %+v", d)
	}
}

func TestDecide_BayEntryWithoutAssignmentRequiresConfirmation(t *testing.T) {
	d := workflow.Decide(workflow.StatusScheduled, workflow.StatusInBay, ctx(workflow.PriorityMedium, false))
	if !d.IsValid {
		t.Fatal("Decide(scheduled → in-bay) should be valid")
	}
	if !d.RequiresConfirmation {
		t.Error("entering in-bay with no bay assignment should require confirmation")
	}

	assigned := workflow.Decide(workflow.StatusScheduled, workflow.StatusInBay, ctx(workflow.PriorityMedium, true))
	if assigned.RequiresConfirmation {
		t.Error("entering in-bay with a bay assigned should not require confirmation")
	}
}

// ── Decide — auto-actions ──────────────────────────────────────────────────

func TestDecide_AutoActionsOnCompletion(t *testing.T) {
	d := workflow.Decide(workflow.StatusInBay, workflow.StatusCompleted, ctx(workflow.PriorityMedium, true))
	if len(d.AutoActions) == 0 {
		t.Fatal("edges into completed should carry auto-actions")
	}
	joined := strings.Join(d.AutoActions, "; ")
	if !strings.Contains(joined, "Notify customer") {
		t.Errorf("completion auto-actions %q should include a customer notification", joined)
	}
}

func TestDecide_AutoActionsOnWaitingParts(t *testing.T) {
	d := workflow.Decide(workflow.StatusInBay, workflow.StatusWaitingParts, ctx(workflow.PriorityMedium, true))
	if len(d.AutoActions) == 0 {
		t.Fatal("edges into waiting-parts should carry auto-actions")
	}
}

func TestDecide_NoAutoActionsIntoWorkStates(t *testing.T) {
	d := workflow.Decide(workflow.StatusScheduled, workflow.StatusInProgress, ctx(workflow.PriorityMedium, true))
	if len(d.AutoActions) != 0 {
		t.Errorf("scheduled → in-progress should carry no auto-actions, got %v", d.AutoActions)
	}
}

// ── Decide — malformed input fails fast ────────────────────────────────────

func TestDecide_UnknownStatusPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Decide with an unknown status should panic")
		}
	}()
	workflow.Decide(workflow.Status("bogus"), workflow.StatusInBay, ctx(workflow.PriorityLow, false))
}

// ── Progress / Label ───────────────────────────────────────────────────────

func TestProgress_MonotonicAlongCanonicalPath(t *testing.T) {
	path := []workflow.Status{
		workflow.StatusIntake,
		workflow.StatusIncomingCall,
		workflow.StatusScheduled,
		workflow.StatusInProgress,
		workflow.StatusInBay,
		workflow.StatusWaitingParts,
		workflow.StatusCompleted,
	}
	prev := -1
	for _, s := range path {
		p := workflow.Progress(s)
		if p < prev {
			t.Errorf("Progress(%s) = %d, decreases from previous %d", s, p, prev)
		}
		prev = p
	}
	if workflow.Progress(workflow.StatusIntake) != 0 {
		t.Error("Progress(intake) should be 0")
	}
	if workflow.Progress(workflow.StatusCompleted) != 100 {
		t.Error("Progress(completed) should be 100")
	}
}

func TestLabel(t *testing.T) {
	cases := map[workflow.Status]string{
		workflow.StatusInBay:        "In Bay",
		workflow.StatusWaitingParts: "Waiting for Parts",
		workflow.StatusIncomingCall: "Incoming Call",
	}
	for s, want := range cases {
		if got := workflow.Label(s); got != want {
			t.Errorf("Label(%s) = %q, want %q", s, got, want)
		}
	}
}

func TestLabel_UnknownStatusPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Label with an unknown status should panic")
		}
	}()
	workflow.Label(workflow.Status("nope"))
}
