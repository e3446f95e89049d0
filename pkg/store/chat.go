package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/tutorchat/client/pkg/domain"
)

type ChatAPI interface {
	Sessions(ctx context.Context, topicID int64) ([]domain.ChatSession, error)
	CreateSession(ctx context.Context, draft domain.SessionDraft) (domain.ChatSession, error)
	UpdateSession(ctx context.Context, id, title string) (domain.ChatSession, error)
	DeleteSession(ctx context.Context, id string) error
	Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.ChatExchange, error)
	RateMessage(ctx context.Context, messageID, rating string) (domain.ChatMessage, error)
}

// ChatStore owns the session list, the current session and its messages.
// The session list is kept newest-first; that ordering is baked into state at
// mutation time, not re-sorted from timestamps.
type ChatStore struct {
	api ChatAPI
	now func() time.Time

	mu       sync.RWMutex
	sessions []domain.ChatSession
	current  *domain.ChatSession
	messages []domain.ChatMessage
	loading  bool
	lastErr  string
}

func NewChatStore(api ChatAPI) *ChatStore {
	return &ChatStore{
		api: api,
		now: time.Now,
	}
}

// FetchSessions loads the session list, optionally scoped by topic. A zero
// topicID means the server default scope.
func (s *ChatStore) FetchSessions(ctx context.Context, topicID int64) error {
	s.setLoading()

	sessions, err := s.api.Sessions(ctx, topicID)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.sessions = sessions
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

// CreateSession creates remotely, unshifts the new session into the list and
// makes it current, dropping the previous session's messages.
func (s *ChatStore) CreateSession(ctx context.Context, draft domain.SessionDraft) error {
	s.setLoading()

	session, err := s.api.CreateSession(ctx, draft)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.sessions = append([]domain.ChatSession{session}, s.sessions...)
	s.current = &session
	s.messages = nil
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

// FetchMessages replaces the message list wholesale; there is no incremental
// merge. The session becomes current when it is in the loaded list.
func (s *ChatStore) FetchMessages(ctx context.Context, sessionID string) error {
	s.setLoading()

	messages, err := s.api.Messages(ctx, sessionID)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.messages = messages
	if session, ok := lo.Find(s.sessions, func(c domain.ChatSession) bool { return c.ID == sessionID }); ok {
		s.current = &session
	}
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

// SendMessage appends an optimistic placeholder, sends, and reconciles: on
// success the placeholder is replaced by the confirmed user message plus the
// assistant reply and the session counter grows by two; on failure the
// placeholder is retracted and the history is exactly as before.
func (s *ChatStore) SendMessage(ctx context.Context, content, attachmentName string, attachment io.Reader) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		err := errors.New("no active chat session")
		s.finish(err)
		return err
	}
	sessionID := s.current.ID

	if err := validateOutgoing(content, attachment); err != nil {
		s.mu.Unlock()
		s.finish(err)
		return err
	}

	temp := domain.ChatMessage{
		ID:         fmt.Sprintf("temp-%d", s.now().UnixNano()),
		SessionID:  sessionID,
		Sender:     domain.SenderUser,
		Content:    content,
		Attachment: attachmentName,
		CreatedAt:  s.now(),
	}
	s.messages = append(s.messages, temp)
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	exchange, err := s.api.SendMessage(ctx, domain.OutgoingMessage{
		SessionID:      sessionID,
		Content:        content,
		AttachmentName: attachmentName,
		Attachment:     attachment,
	})

	s.mu.Lock()
	s.messages = lo.Filter(s.messages, func(m domain.ChatMessage, _ int) bool { return m.ID != temp.ID })
	if err == nil {
		s.messages = append(s.messages, exchange.UserMessage, exchange.AssistantMessage)
		if s.current != nil && s.current.ID == sessionID {
			s.current.MessageCount += 2
		}
		if _, idx, ok := lo.FindIndexOf(s.sessions, func(c domain.ChatSession) bool { return c.ID == sessionID }); ok {
			s.sessions[idx].MessageCount += 2
		}
	}
	s.mu.Unlock()

	s.finish(err)
	return err
}

// UpdateMessageFeedback replaces the rated message with the server's returned
// representation. No optimistic guess here; the action is low-frequency and a
// flicker-then-correct swap would be worse than the wait.
func (s *ChatStore) UpdateMessageFeedback(ctx context.Context, messageID, rating string) error {
	updated, err := s.api.RateMessage(ctx, messageID, rating)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	if _, idx, ok := lo.FindIndexOf(s.messages, func(m domain.ChatMessage) bool { return m.ID == messageID }); ok {
		s.messages[idx] = updated
	}
	s.mu.Unlock()
	return nil
}

// DeleteSession removes the session remotely and locally. Deleting the
// current session clears it and its messages; deleting any other session
// leaves them untouched.
func (s *ChatStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.api.DeleteSession(ctx, id); err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.sessions = lo.Filter(s.sessions, func(c domain.ChatSession, _ int) bool { return c.ID != id })
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.messages = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *ChatStore) UpdateSessionTitle(ctx context.Context, id, title string) error {
	updated, err := s.api.UpdateSession(ctx, id, title)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	if _, idx, ok := lo.FindIndexOf(s.sessions, func(c domain.ChatSession) bool { return c.ID == id }); ok {
		s.sessions[idx] = updated
	}
	if s.current != nil && s.current.ID == id {
		s.current = &updated
	}
	s.mu.Unlock()
	return nil
}

func (s *ChatStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *ChatStore) Sessions() []domain.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChatSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *ChatStore) Current() (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.ChatSession{}, false
	}
	return *s.current, true
}

func (s *ChatStore) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *ChatStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ChatStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = ""
}

func (s *ChatStore) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
}

func validateOutgoing(content string, attachment io.Reader) error {
	var result *multierror.Error
	if content == "" && attachment == nil {
		result = multierror.Append(result, errors.New("message is empty"))
	}
	return result.ErrorOrNil()
}
