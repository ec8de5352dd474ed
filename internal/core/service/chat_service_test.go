package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

type stubScheduler struct {
	mu   sync.Mutex
	jobs []ports.ReplyJob
}

func (s *stubScheduler) Schedule(job ports.ReplyJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func newChatSvc(scheduler ports.ReplyScheduler) *ChatService {
	svc := NewChatService(scheduler, time.Second, zerolog.Nop())
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc
}

func TestChatService_MessagesStartsWithGreeting(t *testing.T) {
	svc := newChatSvc(&stubScheduler{})

	msgs := svc.Messages(context.Background(), "u-1")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Role != domain.ChatRoleAI || msgs[0].Content != domain.ChatGreeting {
		t.Fatalf("unexpected greeting: %+v", msgs[0])
	}

	// Opening twice must not add a second greeting.
	if again := svc.Messages(context.Background(), "u-1"); len(again) != 1 || again[0].ID != msgs[0].ID {
		t.Fatalf("greeting re-seeded: %+v", again)
	}
}

func TestChatService_SendSchedulesReply(t *testing.T) {
	scheduler := &stubScheduler{}
	svc := newChatSvc(scheduler)

	msg, err := svc.Send(context.Background(), "u-1", "  what is AAPL doing?  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Role != domain.ChatRoleUser || msg.Content != "what is AAPL doing?" || msg.ID == "" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if len(scheduler.jobs) != 1 {
		t.Fatalf("expected 1 scheduled job, got %d", len(scheduler.jobs))
	}
	job := scheduler.jobs[0]
	if job.TranscriptID != "u-1" || !job.Due.Equal(msg.Timestamp.Add(time.Second)) {
		t.Fatalf("unexpected job: %+v", job)
	}

	msgs := svc.Messages(context.Background(), "u-1")
	if len(msgs) != 2 || msgs[0].Content != domain.ChatGreeting || msgs[1].ID != msg.ID {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestChatService_SendValidation(t *testing.T) {
	scheduler := &stubScheduler{}
	svc := newChatSvc(scheduler)

	for _, content := range []string{"", "   \n\t", strings.Repeat("x", maxMessageLength+1)} {
		if _, err := svc.Send(context.Background(), "u-1", content); !errors.Is(err, domain.ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed for %d chars, got %v", len(content), err)
		}
	}
	if len(scheduler.jobs) != 0 {
		t.Fatalf("invalid messages must not schedule replies")
	}
}

func TestChatService_DeliverReply(t *testing.T) {
	svc := newChatSvc(&stubScheduler{})
	if _, err := svc.Send(context.Background(), "u-1", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.DeliverReply(context.Background(), "u-1"); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	msgs := svc.Messages(context.Background(), "u-1")
	last := msgs[len(msgs)-1]
	if len(msgs) != 3 || last.Role != domain.ChatRoleAI || last.Content != domain.ChatCannedReply {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestChatService_DeliverReplyForClosedTranscriptIsDropped(t *testing.T) {
	svc := newChatSvc(&stubScheduler{})

	if err := svc.DeliverReply(context.Background(), "gone"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if _, ok := svc.transcripts["gone"]; ok {
		t.Fatalf("reply must not open a transcript")
	}
}

func TestChatService_OnSessionChange(t *testing.T) {
	svc := newChatSvc(&stubScheduler{})
	svc.Messages(context.Background(), "u-1")
	svc.Messages(context.Background(), "u-2")

	// Loading snapshots are not authoritative.
	svc.OnSessionChange(domain.SessionState{Loading: true, Restored: true})
	if len(svc.transcripts) != 2 {
		t.Fatalf("loading snapshot must not drop transcripts")
	}

	svc.OnSessionChange(domain.SessionState{
		Restored: true,
		Identity: &domain.Identity{ID: "u-2", DisplayName: "b", Email: "b@x.com"},
	})
	if _, ok := svc.transcripts["u-1"]; ok {
		t.Fatalf("transcript of previous identity must be dropped")
	}
	if _, ok := svc.transcripts["u-2"]; !ok {
		t.Fatalf("transcript of current identity must be kept")
	}

	svc.OnSessionChange(domain.SessionState{Restored: true})
	if len(svc.transcripts) != 0 {
		t.Fatalf("sign out must drop all transcripts")
	}
}
