package board

import (
	"fmt"

	"shopdesk/workshop-service/internal/workflow"
)

// Notice composition for the four drop outcomes. Titles are short and
// scannable; messages name the job and the human status labels.

func invalidNotice(dec workflow.Decision) Notice {
	return Notice{
		Kind:    NoticeError,
		Title:   "Move not allowed",
		Message: dec.WarningMessage,
	}
}

// capacityNotice is deliberately distinct from invalidNotice: the move is
// legal, the shop simply has no room.
func capacityNotice(job *Job, lane Lane, occupancy int) Notice {
	return Notice{
		Kind:  NoticeError,
		Title: fmt.Sprintf("%s is full", lane.Label),
		Message: fmt.Sprintf("%s holds %d of %d jobs — clear a slot before moving %q",
			lane.Label, occupancy, lane.MaxOccupancy, job.Title),
	}
}

func confirmationNotice(to workflow.Status, dec workflow.Decision) Notice {
	return Notice{
		Kind:    NoticeWarning,
		Title:   fmt.Sprintf("Check before moving to %s", workflow.Label(to)),
		Message: dec.WarningMessage,
	}
}

func successNotice(job *Job, from, to workflow.Status) Notice {
	return Notice{
		Kind:  NoticeSuccess,
		Title: fmt.Sprintf("%q moved to %s", job.Title, workflow.Label(to)),
		Message: fmt.Sprintf("%s → %s — job is now %d%% through the workflow",
			workflow.Label(from), workflow.Label(to), workflow.Progress(to)),
	}
}

func autoActionNotice(job *Job, action string) Notice {
	return Notice{
		Kind:    NoticeInfo,
		Title:   "Follow-up",
		Message: fmt.Sprintf("%s (%s)", action, job.Title),
	}
}

func commitFailureNotice(job *Job, to workflow.Status) Notice {
	return Notice{
		Kind:  NoticeError,
		Title: "Move failed",
		Message: fmt.Sprintf("Could not save the move to %s — %q remains in %s",
			workflow.Label(to), job.Title, workflow.Label(job.Status)),
	}
}
