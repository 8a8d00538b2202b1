// Package appointments contains the scheduling side of the workshop: booked
// bay time for jobs, and the reminder sweep that warns the front desk before
// an appointment starts.
package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"shopdesk/workshop-service/internal/board"
)

// Appointment is booked bay time for a job.
type Appointment struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Bay       string    `json:"bay"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Reminded  bool      `json:"reminded"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAppointment carries the fields accepted when booking.
type NewAppointment struct {
	JobID    string
	Bay      string
	StartsAt time.Time
	EndsAt   time.Time
}

// Store is the persistence collaborator for appointments.
type Store interface {
	CreateAppointment(ctx context.Context, in NewAppointment) (*Appointment, error)
	ListUpcoming(ctx context.Context) ([]Appointment, error)
	CancelAppointment(ctx context.Context, id string) error
	DueForReminder(ctx context.Context, window time.Duration) ([]Appointment, error)
	MarkReminded(ctx context.Context, id string) error
}

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = fmt.Errorf("appointment not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Service encapsulates appointment business logic.
type Service struct {
	store Store
	pub   board.EventPublisher
}

// NewService returns a configured Service. pub may be nil (tests).
func NewService(store Store, pub board.EventPublisher) *Service {
	return &Service{store: store, pub: pub}
}

// Schedule validates and books an appointment.
func (s *Service) Schedule(ctx context.Context, in NewAppointment) (*Appointment, error) {
	if in.JobID == "" {
		return nil, &ValidationError{Msg: "jobId is required"}
	}
	if in.Bay == "" {
		return nil, &ValidationError{Msg: "bay is required"}
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return nil, &ValidationError{Msg: "startsAt and endsAt are required"}
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, &ValidationError{Msg: "endsAt must be after startsAt"}
	}
	return s.store.CreateAppointment(ctx, in)
}

// ListUpcoming returns appointments that have not yet started.
func (s *Service) ListUpcoming(ctx context.Context) ([]Appointment, error) {
	return s.store.ListUpcoming(ctx)
}

// Cancel removes a booking.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.store.CancelAppointment(ctx, id)
}

// RemindDue publishes a reminder event for every appointment starting within
// window and marks it reminded. Appointments whose publish fails stay
// unmarked so the next sweep retries them. Returns the number of reminders
// sent.
func (s *Service) RemindDue(ctx context.Context, window time.Duration) (int, error) {
	due, err := s.store.DueForReminder(ctx, window)
	if err != nil {
		return 0, fmt.Errorf("dueForReminder: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var sent atomic.Int64
	var g errgroup.Group
	for _, appt := range due {
		appt := appt
		g.Go(func() error {
			if s.pub != nil {
				event := map[string]any{
					"type":          "EVENT_APPOINTMENT_REMINDER",
					"appointmentId": appt.ID,
					"jobId":         appt.JobID,
					"bay":           appt.Bay,
					"startsAt":      appt.StartsAt.UTC().Format(time.RFC3339),
				}
				if err := s.pub.Publish(ctx, "EVENT_APPOINTMENT_REMINDER", event); err != nil {
					slog.Warn("publish EVENT_APPOINTMENT_REMINDER failed", "appointmentId", appt.ID, "err", err)
					return nil
				}
			}
			if err := s.store.MarkReminded(ctx, appt.ID); err != nil {
				slog.Warn("markReminded failed", "appointmentId", appt.ID, "err", err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(sent.Load()), nil
}
