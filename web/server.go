// ABOUTME: lofigui HTTP server wiring the application shell, template engine, and task runner behind chi.
// ABOUTME: The home route starts an action and launches the model; the display route renders the buffer.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/2389-research/lofigui/action"
	"github.com/2389-research/lofigui/app"
	"github.com/2389-research/lofigui/format"
	"github.com/2389-research/lofigui/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultAddr is the listen address used when ServerConfig.Addr is empty.
const DefaultAddr = "127.0.0.1:1340"

const shutdownTimeout = 10 * time.Second

// errStartAborted is returned by a reserved model task whose action never started.
var errStartAborted = errors.New("action start aborted")

// Model is the business logic run when a client hits the home route. It
// writes its output through out and should return when ctx is cancelled.
type Model func(ctx context.Context, out *format.Printer) error

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr       string     // listen address (default: DefaultAddr)
	App        app.Config // shell configuration; zero value means app.DefaultConfig()
	Layout     string     // template rendered on the display route (default: LayoutNavbar)
	KeepBuffer bool       // keep previous output when a new action starts
	MaxTasks   int        // concurrent model runs, 0 for no limit
}

// Server serves one application shell.
type Server struct {
	app        *app.App
	templates  *TemplateEngine
	runner     *TaskRunner
	printer    *format.Printer
	markdown   *render.Converter
	model      Model
	router     chi.Router
	addr       string
	layout     string
	keepBuffer bool
}

// NewServer builds a server around model. The shell starts with a default
// controller named after the product.
func NewServer(cfg ServerConfig, model Model) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.App == (app.Config{}) {
		cfg.App = app.DefaultConfig()
	}
	if cfg.Layout == "" {
		cfg.Layout = LayoutNavbar
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}
	if cfg.App.TemplateDir != "" {
		if err := tmpl.LoadDir(cfg.App.TemplateDir); err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
	}
	if !tmpl.Has(cfg.Layout) {
		return nil, fmt.Errorf("layout: %w: %q", ErrTemplateNotFound, cfg.Layout)
	}

	a := app.New(cfg.App, nil, tmpl)
	a.SetController(action.NewController(cfg.App.ProductName, cfg.App.Refresh))

	md := newConverter(cfg.App)
	s := &Server{
		app:        a,
		templates:  tmpl,
		runner:     NewTaskRunner(cfg.MaxTasks),
		printer:    format.NewPrinter(a.Buffer(), format.WithConverter(md)),
		markdown:   md,
		model:      model,
		addr:       cfg.Addr,
		layout:     cfg.Layout,
		keepBuffer: cfg.KeepBuffer,
	}
	s.router = s.buildRouter()
	return s, nil
}

// newConverter builds the markdown converter models write through.
func newConverter(cfg app.Config) *render.Converter {
	var opts []render.ConverterOption
	if cfg.SanitizeMarkdown {
		opts = append(opts, render.WithSanitizer(bluemonday.UGCPolicy()))
	}
	if cfg.MarkdownCacheTTL > 0 {
		opts = append(opts, render.WithCache(cfg.MarkdownCacheTTL))
	}
	return render.NewConverter(opts...)
}

// App returns the application shell served by s.
func (s *Server) App() *app.App {
	return s.app
}

// Templates returns the template engine, for registering extra pages.
func (s *Server) Templates() *TemplateEngine {
	return s.templates
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts the HTTP server
// down and waits for running models to return.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("component=web action=listen addr=%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if serr := s.Shutdown(shutdownCtx); err == nil {
		err = serr
	}
	<-errCh
	return err
}

// Shutdown cancels running models, waits for them, and closes the buffer.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("component=web action=shutdown")
	err := s.runner.Shutdown(ctx)
	s.app.EndAction()
	s.app.Buffer().Close()
	return err
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.app.RunID))
	r.Use(middleware.Recoverer)

	cfg := s.app.Config()
	r.Get(cfg.HomePath, s.handleHome)
	if cfg.DisplayPath != cfg.HomePath {
		r.Get(cfg.DisplayPath, s.handleDisplay)
	}
	r.Get("/favicon.ico", ServeFavicon)
	r.Get("/health", s.handleHealth)

	return r
}

// handleHome starts an action, launches the model in the background, and
// redirects the client to the display page. When the runner is full the
// request is rejected before any state changes.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	var runIDs chan string
	if s.model != nil {
		runIDs = make(chan string, 1)
		started := s.runner.TryGo("model", func(ctx context.Context) error {
			runID, ok := <-runIDs
			if !ok {
				return errStartAborted
			}
			defer s.app.EndRun(runID)
			return s.model(ctx, s.printer)
		})
		if !started {
			log.Printf("component=web action=start status=rejected")
			http.Error(w, "too many running tasks", http.StatusServiceUnavailable)
			return
		}
		// Closing releases the reserved slot if starting the action panics.
		defer close(runIDs)
	}

	if !s.keepBuffer {
		buf := s.app.Buffer()
		buf.Drain()
		buf.Reset()
	}
	s.app.StartAction(0)
	runID := s.app.RunID()
	if runIDs != nil {
		runIDs <- runID
	} else {
		s.app.EndRun(runID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, app.RedirectHTML(s.app.Config().DisplayPath))
}

// handleDisplay renders the configured layout with the current buffer.
func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	if err := s.app.TemplateResponse(w, r, s.layout, nil); err != nil {
		log.Printf("component=web action=display status=error err=%v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
