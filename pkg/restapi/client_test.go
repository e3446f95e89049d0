package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tutorchat/client/pkg/domain"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestSend_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	storage := newMemStorage()
	storage.data[domain.StorageKeyAuthToken] = "tok-1"
	c := NewClient(srv.URL, time.Second, storage)

	var out struct{}
	if err := c.getJSON(context.Background(), "/topics", &out); err != nil {
		t.Fatalf("getJSON: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-Id header")
	}
}

func TestSend_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newMemStorage())

	var out struct{}
	if err := c.getJSON(context.Background(), "/topics", &out); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestSend_UnauthorizedClearsCredentialsAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	storage := newMemStorage()
	storage.data[domain.StorageKeyAuthToken] = "tok-1"
	storage.data[domain.StorageKeyAuthUser] = `{"id":1}`

	c := NewClient(srv.URL, time.Second, storage)
	notified := 0
	c.OnUnauthorized(func() { notified++ })

	err := c.getJSON(context.Background(), "/chat/sessions", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	if _, ok := storage.data[domain.StorageKeyAuthToken]; ok {
		t.Error("token should be cleared on 401")
	}
	if _, ok := storage.data[domain.StorageKeyAuthUser]; ok {
		t.Error("user snapshot should be cleared on 401")
	}
	if notified != 1 {
		t.Errorf("observer called %d times, want exactly 1", notified)
	}
}

func TestSend_TransportFailureNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second, newMemStorage())

	err := c.getJSON(context.Background(), "/topics", nil)
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("err = %v, want ErrConnectivity", err)
	}
}

func TestSend_ServerMessageExtractedVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusUnprocessableEntity, `{"message":"topic name already taken"}`, "topic name already taken"},
		{"error field", http.StatusBadRequest, `{"error":"missing session_id"}`, "missing session_id"},
		{"no body", http.StatusInternalServerError, ``, "server returned status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, newMemStorage())

			err := c.getJSON(context.Background(), "/topics", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if status, ok := StatusOf(err); !ok || status != tt.status {
				t.Errorf("StatusOf = %d, %v, want %d", status, ok, tt.status)
			}
		})
	}
}

func TestSend_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newMemStorage())

	err := c.getJSON(context.Background(), "/topics/99", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostMultipart(t *testing.T) {
	var gotContentType, gotField, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		gotField = r.FormValue("session_id")
		file, header, err := r.FormFile("attachment")
		if err != nil {
			t.Errorf("reading form file: %v", err)
		} else {
			file.Close()
			gotFile = header.Filename
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newMemStorage())

	fields := map[string]string{"session_id": "s1"}
	err := c.postMultipart(context.Background(), "/chat/message", fields, "attachment", "notes.pdf", strings.NewReader("pdf bytes"), nil)
	if err != nil {
		t.Fatalf("postMultipart: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Errorf("Content-Type = %q, want multipart/form-data", gotContentType)
	}
	if gotField != "s1" {
		t.Errorf("session_id = %q, want s1", gotField)
	}
	if gotFile != "notes.pdf" {
		t.Errorf("filename = %q, want notes.pdf", gotFile)
	}
}

func TestChatAPI_SendMessage_JSONWithoutAttachment(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"user_message":{"id":"u1"},"assistant_message":{"id":"a1"}}`))
	}))
	defer srv.Close()

	api := NewChatAPI(NewClient(srv.URL, time.Second, newMemStorage()))

	exchange, err := api.SendMessage(context.Background(), domain.OutgoingMessage{SessionID: "s1", Content: "hi"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if exchange.UserMessage.ID != "u1" || exchange.AssistantMessage.ID != "a1" {
		t.Errorf("exchange = %+v", exchange)
	}
}

func TestChatAPI_Sessions_TopicFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	api := NewChatAPI(NewClient(srv.URL, time.Second, newMemStorage()))

	if _, err := api.Sessions(context.Background(), 42); err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if gotQuery != "topic_id=42" {
		t.Errorf("query = %q, want topic_id=42", gotQuery)
	}

	if _, err := api.Sessions(context.Background(), 0); err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty for server default scope", gotQuery)
	}
}
