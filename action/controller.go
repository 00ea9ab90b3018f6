// ABOUTME: Controller capability interfaces, a no-op base to embed, and the default controller.
// ABOUTME: Capabilities are optional; the app shell probes them with type assertions.
package action

import (
	"maps"
	"sync"
	"time"
)

// Controller is anything an application shell can hold. What the shell can
// do with it depends on which of the capability interfaces below it
// implements.
type Controller interface{}

// ActionQuerier reports whether the controller has an action running.
type ActionQuerier interface {
	IsActionRunning() bool
}

// ActionEnder ends the controller's running action.
type ActionEnder interface {
	EndAction()
}

// ActionStarter starts an action. A zero refresh keeps the current interval.
type ActionStarter interface {
	StartAction(refresh time.Duration)
}

// StateProvider exposes the State the shell should render polling from.
type StateProvider interface {
	ActionState() *State
}

// StateContributor adds controller-specific keys to the render context.
type StateContributor interface {
	StateDict() map[string]any
}

// Named gives the controller a display name.
type Named interface {
	Name() string
}

// Base implements every optional capability as a no-op. Embed it in custom
// controllers and override only what is needed.
type Base struct{}

func (Base) IsActionRunning() bool     { return false }
func (Base) EndAction()                {}
func (Base) StartAction(time.Duration) {}
func (Base) StateDict() map[string]any { return nil }
func (Base) Name() string              { return "" }

// DefaultController bundles a State with a display name and a set of values
// contributed to every render.
type DefaultController struct {
	name  string
	state *State

	mu     sync.RWMutex
	values map[string]any
}

// NewController returns a DefaultController with an idle State.
func NewController(name string, refresh time.Duration) *DefaultController {
	return &DefaultController{
		name:   name,
		state:  NewState(refresh),
		values: make(map[string]any),
	}
}

func (c *DefaultController) Name() string { return c.name }

func (c *DefaultController) ActionState() *State { return c.state }

func (c *DefaultController) StartAction(refresh time.Duration) { c.state.Start(refresh) }

func (c *DefaultController) EndAction() { c.state.End() }

func (c *DefaultController) IsActionRunning() bool { return c.state.Running() }

// Set stores a value contributed to every render context.
func (c *DefaultController) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// StateDict returns a copy of the contributed values.
func (c *DefaultController) StateDict() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.values)
}
