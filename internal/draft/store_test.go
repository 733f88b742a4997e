package draft

import (
	"context"
	"fmt"
	"io"
	"log"
	"reflect"
	"testing"
)

type memBackend struct {
	data   map[string][]byte
	getErr error
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string][]byte)}
}

func (m *memBackend) key(candidateID string, jobID uint) string {
	return fmt.Sprintf("%s:%d", candidateID, jobID)
}

func (m *memBackend) PutDraft(ctx context.Context, candidateID string, jobID uint, payload []byte) error {
	m.data[m.key(candidateID, jobID)] = payload
	return nil
}

func (m *memBackend) GetDraft(ctx context.Context, candidateID string, jobID uint) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[m.key(candidateID, jobID)]
	return b, ok, nil
}

func (m *memBackend) DeleteDraft(ctx context.Context, candidateID string, jobID uint) error {
	delete(m.data, m.key(candidateID, jobID))
	return nil
}

func testStore(backend Backend) *Store {
	return NewStore(backend, log.New(io.Discard, "", 0))
}

type samplePayload struct {
	Name  string         `json:"name"`
	Step  int            `json:"step"`
	Langs []string       `json:"langs"`
	Meta  map[string]int `json:"meta"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := testStore(newMemBackend())
	ctx := context.Background()
	key := Key{CandidateID: "cand-1", JobID: 3}

	in := samplePayload{
		Name:  "Asha",
		Step:  4,
		Langs: []string{"Hindi", "Tamil"},
		Meta:  map[string]int{"publications": 2},
	}
	if err := store.Save(ctx, key, in); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	var out samplePayload
	found, err := store.Load(ctx, key, &out)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !found {
		t.Fatalf("expected draft found")
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %+v vs %+v", in, out)
	}
}

func TestLoadMissingDraft(t *testing.T) {
	t.Parallel()

	store := testStore(newMemBackend())

	var out samplePayload
	found, err := store.Load(context.Background(), Key{CandidateID: "cand-1", JobID: 3}, &out)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if found {
		t.Fatalf("expected no draft")
	}
}

func TestLoadCorruptDraftFailsSoft(t *testing.T) {
	t.Parallel()

	backend := newMemBackend()
	ctx := context.Background()
	key := Key{CandidateID: "cand-1", JobID: 3}
	if err := backend.PutDraft(ctx, key.CandidateID, key.JobID, []byte("{not json")); err != nil {
		t.Fatalf("seed backend: %v", err)
	}

	store := testStore(backend)
	var out samplePayload
	found, err := store.Load(ctx, key, &out)
	if err != nil {
		t.Fatalf("expected corrupt draft to be swallowed, got %v", err)
	}
	if found {
		t.Fatalf("expected corrupt draft to report not found")
	}
}

func TestLoadBackendError(t *testing.T) {
	t.Parallel()

	backend := newMemBackend()
	backend.getErr = fmt.Errorf("disk unavailable")
	store := testStore(backend)

	var out samplePayload
	if _, err := store.Load(context.Background(), Key{CandidateID: "cand-1", JobID: 3}, &out); err == nil {
		t.Fatalf("expected backend error to surface")
	}
}

func TestClearRemovesDraft(t *testing.T) {
	t.Parallel()

	store := testStore(newMemBackend())
	ctx := context.Background()
	key := Key{CandidateID: "cand-1", JobID: 3}

	if err := store.Save(ctx, key, samplePayload{Name: "Asha"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	var out samplePayload
	found, err := store.Load(ctx, key, &out)
	if err != nil || found {
		t.Fatalf("expected draft gone, found=%v err=%v", found, err)
	}
}

func TestKeysAreIsolated(t *testing.T) {
	t.Parallel()

	store := testStore(newMemBackend())
	ctx := context.Background()

	if err := store.Save(ctx, Key{CandidateID: "cand-1", JobID: 3}, samplePayload{Name: "A"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ctx, Key{CandidateID: "cand-1", JobID: 4}, samplePayload{Name: "B"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	var out samplePayload
	if _, err := store.Load(ctx, Key{CandidateID: "cand-1", JobID: 3}, &out); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if out.Name != "A" {
		t.Fatalf("expected draft A, got %s", out.Name)
	}
}
