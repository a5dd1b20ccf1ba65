// Package server serves the browser page: absolutely positioned boxes
// generated from the same seeded scene as the terminal renderer.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wesen/viewpeek/pkg/scene"
)

//go:embed static
var staticFiles embed.FS

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// SceneDoc is the body of GET /scene.json.
type SceneDoc struct {
	World    Size         `json:"world"`
	Elements []ElementDoc `json:"elements"`
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ElementDoc is one tracked box.
type ElementDoc struct {
	ID     int    `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

// NewSceneDoc describes the tracked elements of s.
func NewSceneDoc(s *scene.Scene) SceneDoc {
	doc := SceneDoc{
		World:    Size{Width: s.World().X, Height: s.World().Y},
		Elements: make([]ElementDoc, 0, len(s.Tracked())),
	}
	for _, id := range s.Tracked() {
		e := s.Element(id)
		doc.Elements = append(doc.Elements, ElementDoc{
			ID:     int(id),
			X:      e.Bounds.Min.X,
			Y:      e.Bounds.Min.Y,
			Width:  e.Bounds.Dx(),
			Height: e.Bounds.Dy(),
			Color:  e.Color,
		})
	}
	return doc
}

// Server is the static page server.
type Server struct {
	addr   string
	logger *slog.Logger
	doc    []byte
	router *chi.Mux
}

// New creates a server for doc listening on addr.
func New(addr string, doc SceneDoc, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("server: encode scene: %w", err)
	}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("server: static files: %w", err)
	}

	s := &Server{addr: addr, logger: logger, doc: body}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/scene.json", s.handleScene)
	r.Handle("/*", http.FileServerFS(static))

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.doc)
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server: shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
