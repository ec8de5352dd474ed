package ports

import (
	"context"
	"time"

	"github.com/quantiva/dashboard/internal/core/domain"
)

// ReplyJob asks for the canned reply to be delivered to a transcript once Due
// has passed.
type ReplyJob struct {
	TranscriptID string
	Due          time.Time
}

// ReplyScheduler queues reply jobs for delayed delivery.
type ReplyScheduler interface {
	Schedule(job ReplyJob)
}

// ChatService manages per-identity chat transcripts.
type ChatService interface {
	Messages(ctx context.Context, identityID string) []domain.ChatMessage
	Send(ctx context.Context, identityID, content string) (domain.ChatMessage, error)
	DeliverReply(ctx context.Context, transcriptID string) error
}
