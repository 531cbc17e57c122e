package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	appLog "mdcal/internal/log"
)

// Server serves the most recently generated artifacts in serve mode.
// A cron-driven refresh and the HTTP handlers run on different goroutines,
// so the current artifacts are guarded by a RWMutex.
type Server struct {
	mu       sync.RWMutex
	html     []byte
	ical     []byte
	icalName string

	mux *http.ServeMux
}

// NewServer constructs a Server with no artifacts yet; Update must be
// called before the first request can be answered with content.
func NewServer() *Server {
	s := &Server{mux: http.NewServeMux()}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/", s.handleRoot)
	return s
}

// Update swaps in freshly generated artifacts. ical may be nil when the
// calendar output is suppressed; the download route then answers 404.
func (s *Server) Update(html, ical []byte, icalName string) {
	s.mu.Lock()
	s.html = html
	s.ical = ical
	s.icalName = icalName
	s.mu.Unlock()
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	appLog.Info("serving", "listen", "http://"+addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	html := s.html
	ical := s.ical
	icalName := s.icalName
	s.mu.RUnlock()

	switch {
	case r.URL.Path == "/":
		if html == nil {
			http.Error(w, "no content generated yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)

	case icalName != "" && r.URL.Path == "/"+icalName:
		if ical == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		_, _ = w.Write(ical)

	default:
		http.NotFound(w, r)
	}
}
