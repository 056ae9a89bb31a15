package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/store"
)

// RequestRecorder is an http.RoundTripper decorator that logs every
// backend call and appends it to the local journal.
type RequestRecorder struct {
	next   http.RoundTripper
	repo   store.EventRepo
	logger *zap.Logger
}

// WithRecorder wraps next so each round trip is logged and journalled.
// repo may be nil, in which case calls are only logged.
func WithRecorder(next http.RoundTripper, repo store.EventRepo, logger *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestRecorder{next: next, repo: repo, logger: logger}
}

func (r *RequestRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	op := OpFrom(req.Context())

	resp, err := r.next.RoundTrip(req)

	data := store.RequestEventData{
		Op:        op,
		Method:    req.Method,
		Path:      req.URL.Path,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if resp != nil {
		data.Status = resp.StatusCode
		data.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	} else if !data.Success {
		data.ErrorMessage = http.StatusText(data.Status)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", data.Method),
		zap.String("path", data.Path),
		zap.Int("status", data.Status),
		zap.Int64("latency_ms", data.LatencyMs),
	}
	if err != nil {
		r.logger.Debug("api request failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("api request", fields...)
	}

	if r.repo != nil {
		// The journal must not fail the request, and must outlive a cancelled one.
		if logErr := r.repo.AppendRequest(context.WithoutCancel(req.Context()), data); logErr != nil {
			r.logger.Warn("failed to journal api request", zap.String("op", op), zap.Error(logErr))
		}
	}

	return resp, err
}
