package model

import (
	"testing"
	"time"
)

func TestJobPostClosed(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	open := JobPost{Status: JobStatusOpen}
	if open.Closed(now) {
		t.Fatalf("open job without closing date must stay open")
	}

	closed := JobPost{Status: JobStatusClosed}
	if !closed.Closed(now) {
		t.Fatalf("closed status must close the job")
	}

	past := now.Add(-time.Hour)
	expired := JobPost{Status: JobStatusOpen, ClosingDate: &past}
	if !expired.Closed(now) {
		t.Fatalf("job past closing date must be closed")
	}

	future := now.Add(time.Hour)
	upcoming := JobPost{Status: JobStatusOpen, ClosingDate: &future}
	if upcoming.Closed(now) {
		t.Fatalf("job before closing date must stay open")
	}
}

func TestIsPDF(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"cand/resume_cv.pdf": true,
		"cand/resume_CV.PDF": true,
		"cand/photo.jpg":     false,
		"cand/cert.pdf.docx": false,
		"":                   false,
	}
	for path, want := range cases {
		if got := IsPDF(path); got != want {
			t.Fatalf("IsPDF(%q) = %v, want %v", path, got, want)
		}
	}
}
