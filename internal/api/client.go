// Package api is the HTTP client for the tutor backend. Every non-2xx
// response is reported as a *StatusError; the caller decides how to degrade.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// maxErrorBody caps how much of an error body is kept on StatusError.
const maxErrorBody = 512

// Client talks to the tutor backend over HTTP/JSON.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTransport replaces the round tripper of the underlying *http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListSessions returns the user's chat sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context, user string) ([]Session, error) {
	var out []Session
	err := c.do(ctx, OpListSessions, http.MethodGet, chatsPath(user), nil, nil, sessionListSchema, &out)
	return out, err
}

// CreateSession creates an empty chat session.
func (c *Client) CreateSession(ctx context.Context, user string) (Session, error) {
	var out Session
	err := c.do(ctx, OpCreateSession, http.MethodPost, chatsPath(user), nil, nil, sessionSchema, &out)
	return out, err
}

// DeleteSession deletes a chat session.
func (c *Client) DeleteSession(ctx context.Context, user, id string) error {
	return c.do(ctx, OpDeleteSession, http.MethodDelete, chatsPath(user, id), nil, nil, nil, nil)
}

// History returns the stored turns of a session in conversation order.
func (c *Client) History(ctx context.Context, user, id string) ([]Turn, error) {
	var out []Turn
	err := c.do(ctx, OpGetHistory, http.MethodGet, chatsPath(user, id), nil, nil, turnListSchema, &out)
	return out, err
}

// SendMessage posts text to a session and returns the stored turn.
func (c *Client) SendMessage(ctx context.Context, user, id, text string) (Turn, error) {
	var out Turn
	body := map[string]string{"message": text}
	err := c.do(ctx, OpSendMessage, http.MethodPost, chatsPath(user, id, "messages"), nil, body, turnSchema, &out)
	return out, err
}

// FetchQuestion requests one question for topic at difficulty.
func (c *Client) FetchQuestion(ctx context.Context, topic, difficulty string) (Question, error) {
	q := url.Values{}
	q.Set("topic", topic)
	q.Set("difficulty", difficulty)

	var out Question
	err := c.do(ctx, OpFetchQuestion, http.MethodGet, "/api/quiz", q, nil, questionSchema, &out)
	return out, err
}

// SubmitQuiz posts the outcome batch of a finished quiz run.
func (c *Client) SubmitQuiz(ctx context.Context, sub QuizSubmission) error {
	return c.do(ctx, OpSubmitQuiz, http.MethodPost, "/api/quiz/result", nil, sub, nil, nil)
}

// Performance returns the user's performance snapshot. A 404 means the
// backend has no data yet and is reported as (nil, nil).
func (c *Client) Performance(ctx context.Context, user string) (*PerformanceSnapshot, error) {
	var raw json.RawMessage
	err := c.do(ctx, OpPerformance, http.MethodGet, "/api/performance/"+url.PathEscape(user), nil, nil, performanceSchema, &raw)
	if err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decodePerformance(raw), nil
}

// Recommendations returns course recommendations for the user.
func (c *Client) Recommendations(ctx context.Context, user string) ([]Course, error) {
	var out []Course
	err := c.do(ctx, OpRecommendations, http.MethodGet, "/api/recommendations/"+url.PathEscape(user), nil, nil, courseListSchema, &out)
	return out, err
}

// Jobs returns the job listings.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var out []Job
	err := c.do(ctx, OpJobs, http.MethodGet, "/api/jobs", nil, nil, jobListSchema, &out)
	return out, err
}

// Events returns upcoming events.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var out []Event
	err := c.do(ctx, OpEvents, http.MethodGet, "/api/events", nil, nil, eventListSchema, &out)
	return out, err
}

func chatsPath(user string, rest ...string) string {
	var b strings.Builder
	b.WriteString("/api/chats/")
	b.WriteString(url.PathEscape(user))
	for _, seg := range rest {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// do performs one request/response exchange and decodes the result into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, schema *Schema, out any) error {
	ctx = WithOp(ctx, op)

	// path segments are already escaped, so join strings rather than URL.Path.
	target := c.baseURL.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Op:         op,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(raw)), maxErrorBody),
		}
	}

	if out == nil {
		return nil
	}

	if err := validateBody(op, schema, raw); err != nil {
		c.logger.Debug("response failed validation", zap.String("op", op), zap.Error(err))
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ValidationError{Op: op, Content: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// decodePerformance walks the raw snapshot with gjson so topics keep the
// order the server sent them in.
func decodePerformance(raw []byte) *PerformanceSnapshot {
	res := gjson.ParseBytes(raw)
	snap := &PerformanceSnapshot{Message: res.Get("message").String()}

	res.Get("performance_by_topic").ForEach(func(key, value gjson.Result) bool {
		tp := TopicPerformance{
			Topic:   key.String(),
			Summary: value.Get("summary").String(),
		}
		if details := value.Get("details"); details.IsObject() {
			tp.Details = make(map[string]string)
			details.ForEach(func(k, v gjson.Result) bool {
				tp.Details[k.String()] = v.String()
				return true
			})
		}
		snap.Topics = append(snap.Topics, tp)
		return true
	})

	for _, w := range res.Get("weakest_areas").Array() {
		snap.WeakestAreas = append(snap.WeakestAreas, w.String())
	}
	return snap
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
