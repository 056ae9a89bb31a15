package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
)

// Server exposes a Backend over HTTP.
type Server struct {
	backend *Backend
	logger  *zap.Logger
	router  *mux.Router
}

// New returns a Server for backend. logger may be nil.
func New(backend *Backend, logger *zap.Logger) *Server {
	if backend == nil {
		backend = NewBackend()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{backend: backend, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router
	r.Use(s.logMiddleware)

	r.HandleFunc("/", s.root).Methods(http.MethodGet)

	chats := r.PathPrefix("/api/chats/{user}").Subrouter()
	chats.HandleFunc("", s.listSessions).Methods(http.MethodGet)
	chats.HandleFunc("", s.createSession).Methods(http.MethodPost)
	chats.HandleFunc("/{id}", s.history).Methods(http.MethodGet)
	chats.HandleFunc("/{id}", s.deleteSession).Methods(http.MethodDelete)
	chats.HandleFunc("/{id}/messages", s.postMessage).Methods(http.MethodPost)

	r.HandleFunc("/api/quiz", s.question).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/result", s.quizResult).Methods(http.MethodPost)
	r.HandleFunc("/api/performance/{user}", s.performance).Methods(http.MethodGet)
	r.HandleFunc("/api/recommendations/{user}", s.recommendations).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs", s.jobs).Methods(http.MethodGet)
	r.HandleFunc("/api/events", s.events).Methods(http.MethodGet)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("devserver request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the AI Career Assistant API"})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Sessions(mux.Vars(r)["user"]))
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.CreateSession(mux.Vars(r)["user"]))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	turns := s.backend.History(vars["user"], vars["id"])
	if turns == nil {
		turns = []api.Turn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.backend.DeleteSession(vars["user"], vars["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	vars := mux.Vars(r)
	turn, ok := s.backend.AddMessage(vars["user"], vars["id"], req.Message)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Chat session not found")
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) question(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = "random"
	}
	q, err := s.backend.Question(topic)
	if err != nil {
		s.logger.Warn("question generation failed", zap.String("topic", topic), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error generating quiz question: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) quizResult(w http.ResponseWriter, r *http.Request) {
	var sub api.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || sub.UserID == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid quiz submission")
		return
	}
	s.backend.AddQuizResult(sub)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Quiz results saved."})
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	a, ok := s.backend.Analyze(mux.Vars(r)["user"])
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNoHistory)
		return
	}
	body, err := encodeAnalysis(a)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// encodeAnalysis writes performance_by_topic with keys in a.Topics order;
// encoding/json would sort them.
func encodeAnalysis(a Analysis) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"message":`)
	msg, err := json.Marshal(a.Message)
	if err != nil {
		return nil, err
	}
	buf.Write(msg)

	buf.WriteString(`,"performance_by_topic":{`)
	for i, topic := range a.Topics {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(topic)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.ByTopic[topic])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`},"weakest_areas":`)
	weak, err := json.Marshal(a.WeakestAreas)
	if err != nil {
		return nil, err
	}
	buf.Write(weak)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Recommendations(mux.Vars(r)["user"]))
}

func (s *Server) jobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) events(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, events)
}
