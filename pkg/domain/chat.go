package domain

import (
	"io"
	"time"
)

type ChatSession struct {
	ID           string    `json:"id"`
	TopicID      int64     `json:"topic_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SessionDraft struct {
	TopicID int64  `json:"topic_id"`
	Title   string `json:"title,omitempty"`
}

type ChatMessage struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Sender     string    `json:"sender"`
	Content    string    `json:"content"`
	Attachment string    `json:"attachment,omitempty"`
	Rating     string    `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

const (
	RatingPositive = "positive"
	RatingNegative = "negative"
)

// ChatExchange is what the server returns for a sent message: the confirmed
// user message plus the assistant's reply.
type ChatExchange struct {
	UserMessage      ChatMessage `json:"user_message"`
	AssistantMessage ChatMessage `json:"assistant_message"`
}

// OutgoingMessage is a message about to be sent. When Attachment is non-nil
// the request goes out as multipart instead of JSON.
type OutgoingMessage struct {
	SessionID      string
	Content        string
	AttachmentName string
	Attachment     io.Reader
}
