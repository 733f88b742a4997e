package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"careers-portal/internal/model"
)

type stubStore struct {
	drafts  map[uint]model.ApplicationDraft
	jobs    map[uint]*model.JobPost
	deleted []string
	flagged []uint
	listErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		drafts: make(map[uint]model.ApplicationDraft),
		jobs:   make(map[uint]*model.JobPost),
	}
}

func (s *stubStore) ListDrafts(ctx context.Context) ([]model.ApplicationDraft, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.ApplicationDraft
	for _, d := range s.drafts {
		out = append(out, d)
	}
	return out, nil
}

func (s *stubStore) DeleteDraft(ctx context.Context, candidateID string, jobID uint) error {
	s.deleted = append(s.deleted, fmt.Sprintf("%s:%d", candidateID, jobID))
	for id, d := range s.drafts {
		if d.CandidateID == candidateID && d.JobID == jobID {
			delete(s.drafts, id)
		}
	}
	return nil
}

func (s *stubStore) MarkDraftCategoryStale(ctx context.Context, id uint, stale bool) error {
	s.flagged = append(s.flagged, id)
	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("draft %d not found", id)
	}
	d.CategoryStale = stale
	s.drafts[id] = d
	return nil
}

func (s *stubStore) GetJobPost(ctx context.Context, id uint) (*model.JobPost, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func newTestSweeper(store Store) *Sweeper {
	s := NewSweeper(store, Config{})
	s.logger = log.New(io.Discard, "", 0)
	return s
}

func draftFor(id uint, candidateID string, jobID uint, category model.JobCategory) model.ApplicationDraft {
	payload := []byte(fmt.Sprintf(`{"job_category":%q,"current_step":2}`, category))
	return model.ApplicationDraft{ID: id, CandidateID: candidateID, JobID: jobID, Payload: payload}
}

func TestRunOnceRemovesOrphanDrafts(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.drafts[1] = draftFor(1, "cand-1", 99, model.JobCategoryTeaching)

	res, err := newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if res.Scanned != 1 || res.Removed != 1 || res.Flagged != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "cand-1:99" {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
}

func TestRunOnceRemovesClosedJobDrafts(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.jobs[5] = &model.JobPost{ID: 5, Category: model.JobCategoryTeaching, Status: model.JobStatusClosed}
	store.drafts[1] = draftFor(1, "cand-1", 5, model.JobCategoryTeaching)

	res, err := newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if res.Removed != 1 {
		t.Fatalf("expected closed-job draft removed: %+v", res)
	}
}

func TestRunOnceRemovesPastClosingDateDrafts(t *testing.T) {
	t.Parallel()

	closing := time.Now().Add(-24 * time.Hour)
	store := newStubStore()
	store.jobs[5] = &model.JobPost{ID: 5, Category: model.JobCategoryTeaching, Status: model.JobStatusOpen, ClosingDate: &closing}
	store.drafts[1] = draftFor(1, "cand-1", 5, model.JobCategoryTeaching)

	res, err := newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if res.Removed != 1 {
		t.Fatalf("expected past-closing-date draft removed: %+v", res)
	}
}

func TestRunOnceFlagsRecategorizedDrafts(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.jobs[5] = &model.JobPost{ID: 5, Category: model.JobCategoryNonTeaching, Status: model.JobStatusOpen}
	store.drafts[1] = draftFor(1, "cand-1", 5, model.JobCategoryTeaching)

	res, err := newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if res.Flagged != 1 || res.Removed != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !store.drafts[1].CategoryStale {
		t.Fatalf("expected draft flagged stale")
	}

	// Second pass does not flag again.
	res, err = newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce error: %v", err)
	}
	if res.Flagged != 0 {
		t.Fatalf("expected no re-flagging: %+v", res)
	}
}

func TestRunOnceLeavesHealthyDrafts(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.jobs[5] = &model.JobPost{ID: 5, Category: model.JobCategoryTeaching, Status: model.JobStatusOpen}
	store.drafts[1] = draftFor(1, "cand-1", 5, model.JobCategoryTeaching)

	res, err := newTestSweeper(store).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if res.Scanned != 1 || res.Removed != 0 || res.Flagged != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.drafts) != 1 {
		t.Fatalf("expected draft kept")
	}
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func TestStartRunsOnTick(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.drafts[1] = draftFor(1, "cand-1", 99, model.JobCategoryTeaching)

	s := newTestSweeper(store)
	tick := &fakeTicker{ch: make(chan time.Time, 1)}
	s.newTicker = func(time.Duration) ticker { return tick }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	tick.ch <- time.Now()

	deadline := time.After(2 * time.Second)
	for len(store.deleted) == 0 {
		select {
		case <-deadline:
			t.Fatalf("sweep did not run on tick")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewSweeperParsesConfig(t *testing.T) {
	t.Parallel()

	s := NewSweeper(newStubStore(), Config{Interval: "1h", Timeout: "5s"})
	if s.interval != time.Hour {
		t.Fatalf("expected 1h interval, got %v", s.interval)
	}
	if s.timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", s.timeout)
	}

	s = NewSweeper(newStubStore(), Config{Interval: "garbage"})
	if s.interval != 6*time.Hour {
		t.Fatalf("expected default interval on bad config, got %v", s.interval)
	}
}
