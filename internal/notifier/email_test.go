package notifier

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"

	"careers-portal/internal/model"
)

type stubSender struct {
	sent []EmailMessage
	err  error
}

func (s *stubSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func sampleApplication() model.Application {
	return model.Application{
		Reference:   "ref-123",
		CandidateID: "cand-1",
		JobID:       7,
		SubmittedAt: time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestEmailNotifierSendsMessage(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	n := NewEmailNotifier(EmailConfig{
		From: "portal@example.edu",
		To:   []string{"hr@example.edu"},
	}, sender)

	job := &model.JobPost{Title: "Assistant Professor", Category: model.JobCategoryTeaching}
	if err := n.Notify(context.Background(), sampleApplication(), job); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.Subject != "New job application received" {
		t.Fatalf("expected default subject, got %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "ref-123") {
		t.Fatalf("expected reference in body: %s", msg.Body)
	}
	if !strings.Contains(msg.Body, "Assistant Professor") {
		t.Fatalf("expected post title in body: %s", msg.Body)
	}
}

func TestEmailNotifierWithoutJob(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	n := NewEmailNotifier(EmailConfig{From: "portal@example.edu", To: []string{"hr@example.edu"}}, sender)

	if err := n.Notify(context.Background(), sampleApplication(), nil); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if !strings.Contains(sender.sent[0].Body, "Job ID: 7") {
		t.Fatalf("expected job ID fallback in body: %s", sender.sent[0].Body)
	}
}

func TestEmailNotifierCustomSubject(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	n := NewEmailNotifier(EmailConfig{
		From:    "portal@example.edu",
		To:      []string{"hr@example.edu"},
		Subject: "Application alert",
	}, sender)

	if err := n.Notify(context.Background(), sampleApplication(), nil); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if sender.sent[0].Subject != "Application alert" {
		t.Fatalf("expected custom subject, got %q", sender.sent[0].Subject)
	}
}

func TestBuildEmailDataHeaders(t *testing.T) {
	t.Parallel()

	data := buildEmailData(EmailMessage{
		From:    "portal@example.edu",
		To:      []string{"a@example.edu", "b@example.edu"},
		Subject: "Hello",
		Body:    "body text",
	})
	if !strings.Contains(data, "To: a@example.edu,b@example.edu\r\n") {
		t.Fatalf("expected joined recipients: %s", data)
	}
	if !strings.HasSuffix(data, "\r\n\r\nbody text") {
		t.Fatalf("expected body after blank line: %s", data)
	}
}

func TestLogNotifierWritesLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(log.New(&buf, "", 0))

	job := &model.JobPost{Title: "Registrar"}
	if err := n.Notify(context.Background(), sampleApplication(), job); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	line := buf.String()
	if !strings.Contains(line, "ref-123") || !strings.Contains(line, "Registrar") {
		t.Fatalf("unexpected log line: %s", line)
	}
}
