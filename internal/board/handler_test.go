package board_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopdesk/workshop-service/internal/board"
	"shopdesk/workshop-service/internal/workflow"
)

// Complete fakeStore into a board.Store for the HTTP layer.

func (s *fakeStore) CreateJob(ctx context.Context, in board.NewJob) (*board.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := board.Job{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Customer:       in.Customer,
		Vehicle:        in.Vehicle,
		Status:         in.Status,
		Priority:       in.Priority,
		EstimatedHours: in.EstimatedHours,
	}
	s.jobs[j.ID] = j
	return &j, nil
}

func (s *fakeStore) AssignBay(ctx context.Context, id, bayName string) (*board.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, board.ErrNotFound
	}
	j.BayAssignment = &bayName
	s.jobs[id] = j
	return &j, nil
}

func newTestServer(store *fakeStore, bayCount int) *httptest.Server {
	mux := http.NewServeMux()
	h := board.NewHandler(store, controller(store, nil, bayCount))
	h.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestHandler_BoardView(t *testing.T) {
	store := newFakeStore(
		job("j1", workflow.StatusScheduled, workflow.PriorityMedium, nil),
		job("j2", workflow.StatusInBay, workflow.PriorityHigh, bay("bay-1")),
	)
	srv := newTestServer(store, 3)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/board")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Lanes []struct {
			Status    string `json:"status"`
			Label     string `json:"label"`
			Occupancy int    `json:"occupancy"`
			Progress  int    `json:"progress"`
		} `json:"lanes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Len(t, view.Lanes, 7)

	byStatus := make(map[string]int)
	for _, l := range view.Lanes {
		byStatus[l.Status] = l.Occupancy
	}
	assert.Equal(t, 1, byStatus["scheduled"])
	assert.Equal(t, 1, byStatus["in-bay"])
	assert.Equal(t, 0, byStatus["completed"])
}

func TestHandler_MoveRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore(job("j1", workflow.StatusIntake, workflow.PriorityLow, nil))
	srv := newTestServer(store, 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs/j1/move", "application/json",
		strings.NewReader(`{"newStatus":"DONE"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_MoveInvalidTransitionReturnsNotices(t *testing.T) {
	store := newFakeStore(job("j1", workflow.StatusIntake, workflow.PriorityLow, nil))
	srv := newTestServer(store, 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs/j1/move", "application/json",
		strings.NewReader(`{"newStatus":"completed"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res board.DropResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Moved)
	require.Len(t, res.Notices, 1)
	assert.Equal(t, board.NoticeError, res.Notices[0].Kind)
	assert.Equal(t, workflow.StatusIntake, store.status("j1"))
}

func TestHandler_MoveUnknownJobIs404(t *testing.T) {
	srv := newTestServer(newFakeStore(), 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs/nope/move", "application/json",
		strings.NewReader(`{"newStatus":"scheduled"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_CreateJobDefaultsToIntake(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store, 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs", "application/json",
		strings.NewReader(`{"title":"Timing belt","customer":"R. Patel","vehicle":"2014 Subaru Outback","priority":"high","estimatedHours":4.5}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created board.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, workflow.StatusIntake, created.Status)
	assert.Equal(t, workflow.PriorityHigh, created.Priority)
	assert.NotEmpty(t, created.ID)
}

func TestHandler_CreateJobRejectsMidWorkflowStart(t *testing.T) {
	srv := newTestServer(newFakeStore(), 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs", "application/json",
		strings.NewReader(`{"title":"Oil change","status":"in-bay"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_AssignBay(t *testing.T) {
	store := newFakeStore(job("j1", workflow.StatusScheduled, workflow.PriorityMedium, nil))
	srv := newTestServer(store, 3)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/jobs/j1/bay", "application/json",
		strings.NewReader(`{"bay":"bay-2"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated board.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.NotNil(t, updated.BayAssignment)
	assert.Equal(t, "bay-2", *updated.BayAssignment)
}
