package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// DefaultReplyDelay is how long the assistant "thinks" before answering.
const DefaultReplyDelay = time.Second

const maxMessageLength = 2000

// ChatService keeps one in-memory transcript per signed-in identity. The
// assistant answers every user message with a canned reply after a delay.
type ChatService struct {
	scheduler ports.ReplyScheduler
	delay     time.Duration
	now       func() time.Time
	log       zerolog.Logger

	mu          sync.Mutex
	transcripts map[string][]domain.ChatMessage
}

func NewChatService(scheduler ports.ReplyScheduler, delay time.Duration, log zerolog.Logger) *ChatService {
	if delay < 0 {
		delay = 0
	}
	return &ChatService{
		scheduler:   scheduler,
		delay:       delay,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
		transcripts: make(map[string][]domain.ChatMessage),
	}
}

// Messages returns a copy of the transcript, opening it with the greeting on
// first access.
func (s *ChatService) Messages(_ context.Context, identityID string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := s.openLocked(identityID)
	out := make([]domain.ChatMessage, len(transcript))
	copy(out, transcript)
	return out
}

// Send appends a user message and schedules the assistant reply.
func (s *ChatService) Send(_ context.Context, identityID, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return domain.ChatMessage{}, fmt.Errorf("%w: message is required", domain.ErrValidationFailed)
	case len(content) > maxMessageLength:
		return domain.ChatMessage{}, fmt.Errorf("%w: message must be at most %d characters", domain.ErrValidationFailed, maxMessageLength)
	}

	msg := s.newMessage(domain.ChatRoleUser, content)

	s.mu.Lock()
	s.transcripts[identityID] = append(s.openLocked(identityID), msg)
	s.mu.Unlock()

	s.scheduler.Schedule(ports.ReplyJob{
		TranscriptID: identityID,
		Due:          msg.Timestamp.Add(s.delay),
	})
	return msg, nil
}

// DeliverReply appends the canned reply. Replies for transcripts dropped in
// the meantime are discarded.
func (s *ChatService) DeliverReply(_ context.Context, transcriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.transcripts[transcriptID]
	if !ok {
		s.log.Debug().Str("transcript_id", transcriptID).Msg("reply for closed transcript dropped")
		return nil
	}
	s.transcripts[transcriptID] = append(transcript, s.newMessage(domain.ChatRoleAI, domain.ChatCannedReply))
	return nil
}

// OnSessionChange drops every transcript that does not belong to the current
// identity. It is meant to be registered with SessionService.Subscribe.
func (s *ChatService) OnSessionChange(state domain.SessionState) {
	if state.Loading {
		return
	}

	keep := ""
	if state.Identity != nil {
		keep = state.Identity.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.transcripts {
		if id != keep {
			delete(s.transcripts, id)
		}
	}
}

func (s *ChatService) openLocked(identityID string) []domain.ChatMessage {
	transcript, ok := s.transcripts[identityID]
	if !ok {
		transcript = []domain.ChatMessage{s.newMessage(domain.ChatRoleAI, domain.ChatGreeting)}
		s.transcripts[identityID] = transcript
	}
	return transcript
}

func (s *ChatService) newMessage(role domain.ChatRole, content string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}
