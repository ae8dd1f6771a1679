package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
)

var (
	ErrPending     = errors.New("an assistant reply is already pending")
	ErrClosed      = errors.New("session is closed")
	ErrUnknownKind = errors.New("unknown session kind")
)

// Assistant produces one reply per user turn. *services.AssistantService
// satisfies it.
type Assistant interface {
	Submit(ctx context.Context, kind models.Kind, text string) (*models.AssistantReply, error)
}

const (
	crisisGuideGreeting = "🚨 Crisis Guide Assistant\n\nI'm here to provide immediate emergency guidance powered by AI. What type of emergency are you facing?\n\nFor life-threatening situations, call 112 immediately!"
	factCheckGreeting   = "Hello! I'm your AI-powered fact-checking assistant. You can ask me to verify information by typing a question, pasting a link, or uploading an image. I'll analyze the content and provide a detailed fact-check with sources."
)

// Session is one chat conversation with a single assistant. At most one
// assistant call is in flight at a time.
type Session struct {
	id        string
	kind      models.Kind
	assistant Assistant
	logger    *zap.Logger
	now       func() time.Time

	mu         sync.Mutex
	messages   []models.Message
	pending    bool
	closed     bool
	lastActive time.Time
}

// New creates a session seeded with the assistant's greeting.
func New(kind models.Kind, assistant Assistant, logger *zap.Logger) (*Session, error) {
	return newSession(kind, assistant, logger, time.Now)
}

func newSession(kind models.Kind, assistant Assistant, logger *zap.Logger, now func() time.Time) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		id:        uuid.NewString(),
		kind:      kind,
		assistant: assistant,
		logger:    logger,
		now:       now,
		messages:  make([]models.Message, 0, 16),
	}
	s.lastActive = now()
	s.appendLocked(Greeting(kind))
	return s, nil
}

// Greeting is the first message of every new session.
func Greeting(kind models.Kind) models.Message {
	if kind == models.KindFactCheck {
		return models.Message{Role: models.RoleAssistant, Text: factCheckGreeting}
	}
	return models.Message{
		Role: models.RoleAssistant,
		Text: crisisGuideGreeting,
		QuickActions: []models.QuickAction{
			{Label: "Call 112 Now", Action: models.ActionEmergency, Urgent: true},
			{Label: "Find Shelter", Action: models.ActionShelter},
			{Label: "Medical Help", Action: models.ActionMedical},
		},
	}
}

func (s *Session) ID() string        { return s.id }
func (s *Session) Kind() models.Kind { return s.kind }

// Submit sends a user turn and blocks until the assistant turn is appended.
// Blank text returns services.ErrEmptyMessage and changes nothing. A
// submission while a reply is pending returns ErrPending and changes
// nothing. Assistant failures never surface here: the fallback reply is
// appended instead.
func (s *Session) Submit(ctx context.Context, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, services.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.Message{}, ErrClosed
	}
	if s.pending {
		s.mu.Unlock()
		return models.Message{}, ErrPending
	}
	s.appendLocked(models.Message{Role: models.RoleUser, Text: text})
	s.pending = true
	s.mu.Unlock()

	// The reply is committed even if the caller goes away; only the
	// pipeline timeout bounds the call.
	reply := s.reply(context.WithoutCancel(ctx), text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if s.closed {
		return models.Message{}, ErrClosed
	}
	msg := s.appendLocked(models.Message{
		Role:         models.RoleAssistant,
		Text:         reply.Text,
		QuickActions: reply.QuickActions,
		FactCheck:    reply.FactCheck,
	})
	return msg, nil
}

func (s *Session) reply(ctx context.Context, text string) (reply models.AssistantReply) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("assistant panicked", zap.String("session_id", s.id), zap.Any("panic", r))
			reply = services.Fallback(s.kind)
		}
	}()

	out, err := s.assistant.Submit(ctx, s.kind, text)
	if err != nil || out == nil {
		var pErr *services.PipelineError
		reason := "unknown"
		if errors.As(err, &pErr) {
			reason = pErr.Reason
		}
		s.logger.Warn("assistant reply replaced by fallback",
			zap.String("session_id", s.id),
			zap.String("kind", string(s.kind)),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return services.Fallback(s.kind)
	}
	return *out
}

// appendLocked stamps msg with an ID and a timestamp no earlier than the
// previous message, then appends a private copy of it.
func (s *Session) appendLocked(msg models.Message) models.Message {
	msg.ID = uuid.NewString()
	msg.CreatedAt = s.now().UTC()
	if n := len(s.messages); n > 0 && msg.CreatedAt.Before(s.messages[n-1].CreatedAt) {
		msg.CreatedAt = s.messages[n-1].CreatedAt
	}
	s.messages = append(s.messages, msg.Clone())
	s.lastActive = s.now()
	return msg.Clone()
}

func (s *Session) copyLocked() []models.Message {
	out := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Messages returns a copy of the history in display order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionSnapshot{
		ID:       s.id,
		Kind:     s.kind,
		Pending:  s.pending,
		Messages: s.copyLocked(),
	}
}

// Dispose closes the session. A reply still in flight is discarded.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.messages = nil
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// idleSince reports how long the session has been inactive. Pending
// sessions are never idle.
func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return 0
	}
	return now.Sub(s.lastActive)
}
