package workflow

import "fmt"

// JobContext carries the job fields the decision policy inspects beyond the
// bare (from, to) edge.
type JobContext struct {
	Priority    Priority
	BayAssigned bool
}

// Decision is the engine's verdict on a proposed transition. Computed on
// demand, never persisted.
type Decision struct {
	IsValid              bool
	RequiresConfirmation bool
	WarningMessage       string
	AutoActions          []string
}

// Decide evaluates a proposed (from → to) move for a job. Edges absent from
// the state graph are invalid with an explanatory warning. Edges present in
// the graph are always valid, but may require confirmation depending on the
// job's data: resuming bay work from a parts wait, completing a high-priority
// job that never reached a bay, or entering a bay without an assignment.
//
// A same-status move is not a transition and returns a plain valid decision;
// callers treat it as a no-op before ever reaching this package.
func Decide(from, to Status, job JobContext) Decision {
	mustValid(from)
	mustValid(to)

	if from == to {
		return Decision{IsValid: true}
	}

	if !CanTransition(from, to) {
		return Decision{IsValid: false, WarningMessage: invalidMessage(from, to)}
	}

	d := Decision{IsValid: true}

	switch {
	case from == StatusWaitingParts && to == StatusInBay:
		d.RequiresConfirmation = true
		d.WarningMessage = fmt.Sprintf(
			"Moving back from %s to %s — confirm the parts have arrived",
			Label(StatusWaitingParts), Label(StatusInBay))

	case to == StatusCompleted && job.Priority == PriorityHigh &&
		from != StatusInBay && from != StatusWaitingParts:
		d.RequiresConfirmation = true
		d.WarningMessage = fmt.Sprintf(
			"High-priority job is being completed from %s without bay work — confirm",
			Label(from))

	case to == StatusInBay && !job.BayAssigned:
		d.RequiresConfirmation = true
		d.WarningMessage = fmt.Sprintf(
			"Job has no bay assignment — confirm before moving to %s",
			Label(StatusInBay))
	}

	d.AutoActions = autoActions(to)
	return d
}

// autoActions returns the side-effect hints attached to edges entering a
// status. The caller is responsible for acting on them; the engine only
// describes them.
func autoActions(to Status) []string {
	switch to {
	case StatusCompleted:
		return []string{
			"Notify customer the vehicle is ready for pickup",
			"Generate the final invoice",
		}
	case StatusWaitingParts:
		return []string{
			"Create a parts order for this job",
			"Notify customer of the parts delay",
		}
	case StatusScheduled:
		return []string{
			"Send appointment confirmation to the customer",
		}
	}
	return nil
}

// invalidMessage explains a rejected edge in terms of status labels, never
// internal identifiers.
func invalidMessage(from, to Status) string {
	if IsTerminal(from) {
		return fmt.Sprintf("%s is a terminal state — jobs cannot leave %s",
			Label(from), Label(from))
	}
	if to == StatusCompleted {
		return fmt.Sprintf("Cannot move a job from %s directly to %s — it must be scheduled first",
			Label(from), Label(to))
	}
	return fmt.Sprintf("Cannot move a job from %s to %s", Label(from), Label(to))
}
