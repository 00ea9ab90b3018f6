// ABOUTME: Application shell owning one controller, one buffer, and the startup bounce policy.
// ABOUTME: Builds render contexts from defaults, controller state, and caller overrides, then renders templates.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/2389-research/lofigui/action"
	"github.com/2389-research/lofigui/buffer"
)

// ErrNoRenderer is returned by TemplateResponse when the shell has no Renderer.
var ErrNoRenderer = errors.New("app: no renderer configured")

// NoControllerName is reported by ControllerName when no controller is set.
const NoControllerName = "Lofigui no controller"

// Renderer executes a named template with a render context.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

// App is the application shell. There is one buffer and one controller per
// App, shared by every client of the process.
type App struct {
	cfg      Config
	buf      *buffer.Buffer
	renderer Renderer

	// swapMu serializes controller replacement so teardown of the outgoing
	// controller finishes before the next swap starts.
	swapMu sync.Mutex

	mu          sync.Mutex
	controller  action.Controller
	local       *action.State
	startup     bool
	bounceCount int
}

// New creates a shell. A nil buf gets a fresh buffer sized by the config.
func New(cfg Config, buf *buffer.Buffer, r Renderer) *App {
	if buf == nil {
		buf = buffer.New(buffer.WithMaxSize(cfg.MaxBufferSize))
	}
	return &App{
		cfg:      cfg,
		buf:      buf,
		renderer: r,
		local:    action.NewState(cfg.Refresh),
		startup:  true,
	}
}

// Config returns the shell configuration.
func (a *App) Config() Config {
	return a.cfg
}

// Buffer returns the buffer rendered into the "results" key.
func (a *App) Buffer() *buffer.Buffer {
	return a.buf
}

// Controller returns the current controller, or nil.
func (a *App) Controller() action.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controller
}

// SetController replaces the controller.
//
// Setting the controller already held is a no-op and leaves a running action
// alone. Otherwise the outgoing controller is asked whether an action is
// running and, if so, to end it. Missing capabilities and panics raised by
// either call are logged and ignored; the new controller is adopted anyway.
func (a *App) SetController(c action.Controller) {
	a.swapMu.Lock()
	defer a.swapMu.Unlock()

	old := a.Controller()
	if sameController(old, c) {
		return
	}

	if old != nil {
		teardown(old)
		if _, ok := old.(action.StateProvider); !ok {
			a.local.End()
		}
	}

	a.mu.Lock()
	a.controller = c
	a.mu.Unlock()

	log.Printf("component=app action=controller_set from=%q to=%q", controllerName(old), controllerName(c))
}

// teardown ends the action of an outgoing controller on a best-effort basis.
func teardown(c action.Controller) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("component=app action=controller_teardown status=recovered controller=%q panic=%v", controllerName(c), r)
		}
	}()

	q, ok := c.(action.ActionQuerier)
	if !ok {
		return
	}
	if !q.IsActionRunning() {
		return
	}
	e, ok := c.(action.ActionEnder)
	if !ok {
		log.Printf("component=app action=controller_teardown status=skipped controller=%q reason=no_end_action", controllerName(c))
		return
	}
	e.EndAction()
}

// sameController reports whether a and b are the same controller instance.
// Controllers of non-comparable types are never considered the same.
func sameController(a, b action.Controller) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// ControllerName returns the display name of the current controller.
func (a *App) ControllerName() string {
	return controllerName(a.Controller())
}

func controllerName(c action.Controller) string {
	if c == nil {
		return NoControllerName
	}
	if n, ok := c.(action.Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", c)
}

// state returns the State polling is rendered from: the controller's own
// when it provides one, otherwise the shell's local state.
func (a *App) state(c action.Controller) *action.State {
	if p, ok := c.(action.StateProvider); ok {
		if s := p.ActionState(); s != nil {
			return s
		}
	}
	return a.local
}

// StartAction starts an action and clears the startup bounce. Controllers
// that can start actions are told to; the shell's local state is used when
// the controller has no State of its own.
func (a *App) StartAction(refresh time.Duration) {
	a.mu.Lock()
	a.startup = false
	c := a.controller
	a.mu.Unlock()

	if s, ok := c.(action.ActionStarter); ok {
		s.StartAction(refresh)
	}
	if _, ok := c.(action.StateProvider); !ok {
		a.local.Start(refresh)
	}
}

// EndAction ends the running action. It does not interrupt the task
// producing output; it only changes the reported state.
func (a *App) EndAction() {
	c := a.Controller()
	if e, ok := c.(action.ActionEnder); ok {
		e.EndAction()
	}
	if _, ok := c.(action.StateProvider); !ok {
		a.local.End()
	}
}

// RunID returns the ID of the most recently started action, or "" when the
// action state has never been started.
func (a *App) RunID() string {
	return a.state(a.Controller()).RunID()
}

// EndRun ends the action only if runID is still the current run. It reports
// whether the action was ended. Background tasks use it so a finished task
// does not end a run started after it.
func (a *App) EndRun(runID string) bool {
	if runID == "" || a.RunID() != runID || !a.IsActionRunning() {
		return false
	}
	a.EndAction()
	return true
}

// IsActionRunning reports whether an action is running. It reads the same
// State that StateDict renders polling from; a controller without its own
// State can still report a run the shell did not start through its querier.
func (a *App) IsActionRunning() bool {
	c := a.Controller()
	if _, ok := c.(action.StateProvider); ok {
		return a.state(c).Running()
	}
	if a.local.Running() {
		return true
	}
	if q, ok := c.(action.ActionQuerier); ok {
		return q.IsActionRunning()
	}
	return false
}

// StateDict builds the render context. Later sources win: built-in defaults,
// then controller-contributed state, then extra. The buffer is read once.
func (a *App) StateDict(r *http.Request, extra map[string]any) map[string]any {
	c := a.Controller()
	snap := a.state(c).Render()

	d := map[string]any{
		"request":         r,
		"product":         a.cfg.ProductName,
		"version":         a.cfg.VersionString(),
		"controller_name": controllerName(c),
		"results":         a.buf.Read(),
		"polling":         snap.Status(),
		"poll_count":      snap.PollCount,
		"refresh":         snap.Directive(a.cfg.DisplayPath),
		"run_id":          snap.RunID,
	}

	if sc, ok := c.(action.StateContributor); ok {
		maps.Copy(d, sc.StateDict())
	}
	maps.Copy(d, extra)
	return d
}

// Startup reports whether the startup bounce is still armed.
func (a *App) Startup() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startup
}

// bounce decides whether a render of path should redirect home instead.
// The flag is one-way: once cleared it stays cleared.
func (a *App) bounce(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.startup {
		return false
	}
	if path == a.cfg.HomePath {
		a.startup = false
		return false
	}
	a.bounceCount++
	if a.bounceCount <= a.cfg.BounceLimit {
		log.Printf("component=app action=startup_bounce path=%s count=%d", path, a.bounceCount)
		return true
	}
	a.startup = false
	return false
}

// RedirectHTML is the body sent in place of a page to bounce the client to url.
func RedirectHTML(url string) string {
	return fmt.Sprintf(`<head><meta http-equiv="Refresh" content="0; URL=%s"/></head>`, url)
}

// TemplateResponse renders the named template with StateDict merged with
// extra. While the startup bounce is armed, requests for anything but the
// home path receive a redirect home instead.
func (a *App) TemplateResponse(w http.ResponseWriter, r *http.Request, name string, extra map[string]any) error {
	path := ""
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if a.bounce(path) {
		_, err := io.WriteString(w, RedirectHTML(a.cfg.HomePath))
		return err
	}

	if a.renderer == nil {
		return ErrNoRenderer
	}

	var out bytes.Buffer
	if err := a.renderer.Render(&out, name, a.StateDict(r, extra)); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err := out.WriteTo(w)
	return err
}
