// Package store implements the persistence collaborators on PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopdesk/workshop-service/internal/appointments"
	"shopdesk/workshop-service/internal/board"
	"shopdesk/workshop-service/internal/workflow"
)

// Postgres implements board.Store and appointments.Store on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// New returns a configured Postgres store.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const jobColumns = `id, title, customer, vehicle, status, priority,
	estimated_hours, bay_assignment, history_log, created_at, updated_at`

func scanJob(row pgx.Row) (*board.Job, error) {
	var j board.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Customer, &j.Vehicle, &j.Status, &j.Priority,
		&j.EstimatedHours, &j.BayAssignment, &j.HistoryLog, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

// ListJobs returns all jobs, most recently updated first.
func (s *Postgres) ListJobs(ctx context.Context) ([]board.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]board.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// GetJob returns a single job by ID.
func (s *Postgres) GetJob(ctx context.Context, id string) (*board.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, board.ErrNotFound
		}
		return nil, fmt.Errorf("getJob: %w", err)
	}
	return j, nil
}

// CreateJob inserts a new job with an empty history log.
func (s *Postgres) CreateJob(ctx context.Context, in board.NewJob) (*board.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, title, customer, vehicle, status, priority, estimated_hours)
		 VALUES ($1, $2, $3, $4, $5::job_status, $6::job_priority, $7)
		 RETURNING `+jobColumns,
		uuid.NewString(), in.Title, in.Customer, in.Vehicle,
		string(in.Status), string(in.Priority), in.EstimatedHours,
	))
	if err != nil {
		return nil, fmt.Errorf("createJob: %w", err)
	}
	return j, nil
}

// UpdateStatus commits a status change: new status, a history entry recording
// the old and new status, and a fresh updated_at, all in one statement.
// Column references in the SET list read the pre-update row, so the history
// entry captures the status being left.
func (s *Postgres) UpdateStatus(ctx context.Context, id string, to workflow.Status) (*board.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET status      = $1::job_status,
		     history_log = history_log || jsonb_build_array(jsonb_build_object(
		                     'from', status::text, 'to', $1::text, 'at', NOW())),
		     updated_at  = NOW()
		 WHERE id = $2
		 RETURNING `+jobColumns,
		string(to), id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, board.ErrNotFound
		}
		return nil, fmt.Errorf("updateStatus: %w", err)
	}
	return j, nil
}

// AssignBay sets the physical bay a job will occupy.
func (s *Postgres) AssignBay(ctx context.Context, id, bay string) (*board.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE jobs SET bay_assignment = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+jobColumns,
		bay, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, board.ErrNotFound
		}
		return nil, fmt.Errorf("assignBay: %w", err)
	}
	return j, nil
}

// ─── Appointments ─────────────────────────────────────────────────────────────

const apptColumns = `id, job_id, bay, starts_at, ends_at, reminded, created_at`

func scanAppointment(row pgx.Row) (*appointments.Appointment, error) {
	var a appointments.Appointment
	err := row.Scan(&a.ID, &a.JobID, &a.Bay, &a.StartsAt, &a.EndsAt, &a.Reminded, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAppointment books bay time for a job.
func (s *Postgres) CreateAppointment(ctx context.Context, in appointments.NewAppointment) (*appointments.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, job_id, bay, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+apptColumns,
		uuid.NewString(), in.JobID, in.Bay, in.StartsAt, in.EndsAt,
	))
	if err != nil {
		return nil, fmt.Errorf("createAppointment: %w", err)
	}
	return a, nil
}

// ListUpcoming returns appointments that have not yet started, soonest first.
func (s *Postgres) ListUpcoming(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apptColumns+` FROM appointments
		 WHERE starts_at >= NOW() ORDER BY starts_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listUpcoming query: %w", err)
	}
	defer rows.Close()

	appts := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("listUpcoming scan: %w", err)
		}
		appts = append(appts, *a)
	}
	return appts, rows.Err()
}

// CancelAppointment removes a booking.
func (s *Postgres) CancelAppointment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancelAppointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

// DueForReminder returns un-reminded appointments starting within window.
func (s *Postgres) DueForReminder(ctx context.Context, window time.Duration) ([]appointments.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apptColumns+` FROM appointments
		 WHERE reminded = false
		   AND starts_at <= NOW() + make_interval(mins => $1)
		   AND starts_at >= NOW()
		 ORDER BY starts_at ASC`,
		int(window.Minutes()),
	)
	if err != nil {
		return nil, fmt.Errorf("dueForReminder query: %w", err)
	}
	defer rows.Close()

	appts := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("dueForReminder scan: %w", err)
		}
		appts = append(appts, *a)
	}
	return appts, rows.Err()
}

// MarkReminded flags an appointment so the next sweep skips it.
func (s *Postgres) MarkReminded(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET reminded = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("markReminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appointments.ErrNotFound
	}
	return nil
}
