package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorchat/client/pkg/domain"
	"github.com/tutorchat/client/pkg/logger"
)

// CredentialStorage is the slice of local storage the adapter needs: it reads
// the bearer token before each request and wipes the stored identity when the
// server says the session is gone.
type CredentialStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Client issues requests against the tutoring API. It owns the one real
// transport-level decision in this codebase: on a 401 it clears the stored
// credentials itself and invokes registered observers, so the session store
// can react to expiry without the transport importing it.
type Client struct {
	baseURL string
	hc      *http.Client
	creds   CredentialStorage

	mu                    sync.Mutex
	unauthorizedObservers []func()
}

func NewClient(baseURL string, timeout time.Duration, creds CredentialStorage) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// OnUnauthorized registers fn to be called whenever any request receives a
// 401. Observers run synchronously on the calling goroutine, once per response.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unauthorizedObservers = append(c.unauthorizedObservers, fn)
}

type serverError struct {
	status  int
	message string
}

func (e *serverError) Error() string { return e.message }

// errorBody is the error payload shape the API uses; some endpoints fill
// "message", older ones "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(ctx, req, out)
}

// postMultipart uploads a file with optional extra form fields.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return fmt.Errorf("writing form field %q: %w", key, err)
		}
	}

	fw, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("copying file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	if token, ok, err := c.creds.Get(ctx, domain.StorageKeyAuthToken); err != nil {
		slog.WarnContext(ctx, "reading stored token", logger.Err(err))
	} else if ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		// No response at all. The caller gets the one generic connectivity
		// message instead of transport internals.
		slog.DebugContext(ctx, "transport failure", "url", req.URL.String(), logger.Err(err))
		return domain.ErrConnectivity
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(ctx)
		return domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.extractError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}

	return nil
}

func (c *Client) invalidateSession(ctx context.Context) {
	for _, key := range []string{domain.StorageKeyAuthToken, domain.StorageKeyAuthUser} {
		if err := c.creds.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "clearing stored credential", "key", key, logger.Err(err))
		}
	}

	c.mu.Lock()
	observers := make([]func(), len(c.unauthorizedObservers))
	copy(observers, c.unauthorizedObservers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// extractError surfaces the server's own message verbatim when it sent one.
func (c *Client) extractError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Message != "" {
			return &serverError{status: resp.StatusCode, message: eb.Message}
		}
		if eb.Error != "" {
			return &serverError{status: resp.StatusCode, message: eb.Error}
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return &serverError{
		status:  resp.StatusCode,
		message: fmt.Sprintf("server returned status %d", resp.StatusCode),
	}
}

// StatusOf returns the HTTP status behind err, if it came from the server.
func StatusOf(err error) (int, bool) {
	var se *serverError
	if errors.As(err, &se) {
		return se.status, true
	}
	return 0, false
}
