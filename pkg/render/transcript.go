package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/russross/blackfriday"

	"github.com/tutorchat/client/pkg/domain"
)

// Transcript renders a chat session as a standalone HTML document. Assistant
// messages are markdown and go through blackfriday; user messages are plain
// text and get escaped.
func Transcript(session domain.ChatSession, messages []domain.ChatMessage) []byte {
	var buf bytes.Buffer

	title := session.Title
	if title == "" {
		title = "Chat transcript"
	}

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 2em auto; }
.message { margin: 1em 0; padding: 0.5em 1em; border-radius: 8px; }
.user { background: #e8f0fe; }
.assistant { background: #f5f5f5; }
.sender { font-weight: bold; font-size: 0.85em; color: #555; }
.meta { color: #999; font-size: 0.8em; }
</style>
</head>
<body>
<h1>%s</h1>
`, html.EscapeString(title), html.EscapeString(title))

	for _, msg := range messages {
		fmt.Fprintf(&buf, `<div class="message %s">`, html.EscapeString(msg.Sender))
		fmt.Fprintf(&buf, `<div class="sender">%s</div>`, html.EscapeString(msg.Sender))

		if msg.Sender == domain.SenderAssistant {
			buf.Write(blackfriday.MarkdownCommon([]byte(msg.Content)))
		} else {
			fmt.Fprintf(&buf, "<p>%s</p>", html.EscapeString(msg.Content))
		}

		if msg.Attachment != "" {
			fmt.Fprintf(&buf, `<div class="meta">attachment: %s</div>`, html.EscapeString(msg.Attachment))
		}
		if !msg.CreatedAt.IsZero() {
			fmt.Fprintf(&buf, `<div class="meta">%s</div>`, msg.CreatedAt.Format("2006-01-02 15:04"))
		}
		buf.WriteString("</div>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
