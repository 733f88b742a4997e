package files

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	return NewStore(cfg, nil)
}

func TestSaveAndOpen(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	ctx := context.Background()

	doc, err := store.Save(ctx, "cand-1", "resume", "cv.pdf", strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if doc.Path != "cand-1/resume_cv.pdf" {
		t.Fatalf("unexpected path %s", doc.Path)
	}
	if doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type %s", doc.ContentType)
	}
	if doc.Size != int64(len("%PDF-1.4 test")) {
		t.Fatalf("unexpected size %d", doc.Size)
	}

	rc, contentType, err := store.Open(ctx, doc.Path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer rc.Close()
	if contentType != "application/pdf" {
		t.Fatalf("unexpected open content type %s", contentType)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := newTestStore(t, Config{Dir: dir, MaxUploadBytes: 8})

	_, err := store.Save(context.Background(), "cand-1", "resume", "cv.pdf", strings.NewReader("way more than eight bytes"))
	if err == nil {
		t.Fatalf("expected oversized upload to fail")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "cand-1", "resume_cv.pdf")); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial file removed, got %v", statErr)
	}
}

func TestSaveStripsDirectoryFromFileName(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	doc, err := store.Save(context.Background(), "cand-1", "resume", "../../etc/cv.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if doc.Path != "cand-1/resume_cv.pdf" {
		t.Fatalf("expected directory components stripped, got %s", doc.Path)
	}
}

func TestSaveRejectsTraversalCandidateID(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(Config{Dir: filepath.Join(root, "uploads")}, nil)
	ctx := context.Background()

	if _, err := store.Save(ctx, "../escaped", "resume", "cv.pdf", strings.NewReader("data")); err == nil {
		t.Fatalf("expected traversal candidate id to be rejected")
	}
	if _, statErr := os.Stat(filepath.Join(root, "escaped", "resume_cv.pdf")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no file written outside upload dir, got %v", statErr)
	}

	if _, err := store.Save(ctx, "..", "resume", "cv.pdf", strings.NewReader("data")); err == nil {
		t.Fatalf("expected parent dir candidate id to be rejected")
	}
	if _, statErr := os.Stat(filepath.Join(root, "resume_cv.pdf")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no file written beside upload dir, got %v", statErr)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	if _, _, err := store.Open(context.Background(), "../secrets.txt"); err == nil {
		t.Fatalf("expected traversal path to be rejected")
	}
	if err := store.Delete(context.Background(), "../../secrets.txt"); err == nil {
		t.Fatalf("expected traversal delete to be rejected")
	}
}

func TestDeleteMissingFileIsNoOp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	if err := store.Delete(context.Background(), "cand-1/resume_cv.pdf"); err != nil {
		t.Fatalf("expected missing file delete to succeed, got %v", err)
	}
}

func TestFetchLocal(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	ctx := context.Background()
	if _, err := store.Save(ctx, "cand-1", "resume", "cv.pdf", strings.NewReader("local bytes")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := store.Fetch(ctx, "cand-1/resume_cv.pdf")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "local bytes" {
		t.Fatalf("unexpected fetch result %q", data)
	}
}

func TestFetchRemote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cand-1/resume_cv.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("remote bytes"))
	}))
	defer srv.Close()

	store := NewStore(Config{Dir: t.TempDir(), BaseURL: srv.URL}, srv.Client())
	ctx := context.Background()

	data, err := store.Fetch(ctx, "cand-1/resume_cv.pdf")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "remote bytes" {
		t.Fatalf("unexpected fetch result %q", data)
	}

	if _, err := store.Fetch(ctx, "cand-1/missing.pdf"); err == nil {
		t.Fatalf("expected non-200 response to fail")
	}
}
