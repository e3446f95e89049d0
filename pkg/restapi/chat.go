package restapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tutorchat/client/pkg/domain"
)

type ChatAPI struct {
	c *Client
}

func NewChatAPI(c *Client) *ChatAPI {
	return &ChatAPI{c: c}
}

// Sessions lists the user's chat sessions. A zero topicID means the server
// default scope.
func (a *ChatAPI) Sessions(ctx context.Context, topicID int64) ([]domain.ChatSession, error) {
	path := "/chat/sessions"
	if topicID > 0 {
		path += "?topic_id=" + strconv.FormatInt(topicID, 10)
	}

	var sessions []domain.ChatSession
	if err := a.c.getJSON(ctx, path, &sessions); err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	return sessions, nil
}

func (a *ChatAPI) CreateSession(ctx context.Context, draft domain.SessionDraft) (domain.ChatSession, error) {
	var session domain.ChatSession
	if err := a.c.postJSON(ctx, "/chat/sessions", draft, &session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("creating chat session: %w", err)
	}
	return session, nil
}

func (a *ChatAPI) Session(ctx context.Context, id string) (domain.ChatSession, error) {
	var session domain.ChatSession
	if err := a.c.getJSON(ctx, "/chat/sessions/"+url.PathEscape(id), &session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("fetching chat session %s: %w", id, err)
	}
	return session, nil
}

func (a *ChatAPI) UpdateSession(ctx context.Context, id, title string) (domain.ChatSession, error) {
	in := struct {
		Title string `json:"title"`
	}{Title: title}

	var session domain.ChatSession
	if err := a.c.putJSON(ctx, "/chat/sessions/"+url.PathEscape(id), in, &session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("updating chat session %s: %w", id, err)
	}
	return session, nil
}

func (a *ChatAPI) DeleteSession(ctx context.Context, id string) error {
	if err := a.c.deleteJSON(ctx, "/chat/sessions/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting chat session %s: %w", id, err)
	}
	return nil
}

func (a *ChatAPI) Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	path := "/chat/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := a.c.getJSON(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("fetching messages for session %s: %w", sessionID, err)
	}
	return messages, nil
}

func (a *ChatAPI) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.ChatExchange, error) {
	var exchange domain.ChatExchange

	if msg.Attachment != nil {
		fields := map[string]string{
			"session_id": msg.SessionID,
			"content":    msg.Content,
		}
		if err := a.c.postMultipart(ctx, "/chat/message", fields, "attachment", msg.AttachmentName, msg.Attachment, &exchange); err != nil {
			return domain.ChatExchange{}, fmt.Errorf("sending message with attachment: %w", err)
		}
		return exchange, nil
	}

	in := struct {
		SessionID string `json:"session_id"`
		Content   string `json:"content"`
	}{SessionID: msg.SessionID, Content: msg.Content}

	if err := a.c.postJSON(ctx, "/chat/message", in, &exchange); err != nil {
		return domain.ChatExchange{}, fmt.Errorf("sending message: %w", err)
	}
	return exchange, nil
}

func (a *ChatAPI) RateMessage(ctx context.Context, messageID, rating string) (domain.ChatMessage, error) {
	in := struct {
		Rating string `json:"rating"`
	}{Rating: rating}

	var message domain.ChatMessage
	path := "/chat/messages/" + url.PathEscape(messageID) + "/rating"
	if err := a.c.patchJSON(ctx, path, in, &message); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("rating message %s: %w", messageID, err)
	}
	return message, nil
}
