package render

import (
	"strings"
	"testing"

	"github.com/tutorchat/client/pkg/domain"
)

func TestTranscript_RendersAssistantMarkdown(t *testing.T) {
	session := domain.ChatSession{ID: "s1", Title: "Algebra help"}
	messages := []domain.ChatMessage{
		{Sender: domain.SenderUser, Content: "explain x"},
		{Sender: domain.SenderAssistant, Content: "it is **important**"},
	}

	doc := string(Transcript(session, messages))

	if !strings.Contains(doc, "<strong>important</strong>") {
		t.Error("assistant markdown not rendered to HTML")
	}
	if !strings.Contains(doc, "Algebra help") {
		t.Error("session title missing")
	}
	if !strings.Contains(doc, "explain x") {
		t.Error("user message missing")
	}
}

func TestTranscript_EscapesUserContent(t *testing.T) {
	session := domain.ChatSession{ID: "s1"}
	messages := []domain.ChatMessage{
		{Sender: domain.SenderUser, Content: "<script>alert(1)</script>"},
	}

	doc := string(Transcript(session, messages))

	if strings.Contains(doc, "<script>") {
		t.Error("user content must be escaped")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Error("expected escaped user content")
	}
}

func TestTranscript_EmptyTitleFallback(t *testing.T) {
	doc := string(Transcript(domain.ChatSession{ID: "s1"}, nil))

	if !strings.Contains(doc, "Chat transcript") {
		t.Error("expected fallback title")
	}
}
