package overlay

import (
	"sync"

	"github.com/mmcdole/toplist/internal/clock"
	"github.com/mmcdole/toplist/internal/domain"
)

// Phase is the overlay visibility stage
type Phase int

const (
	Hidden Phase = iota
	Visible
	PendingHide // Pointer left; hides when the delay elapses
)

func (p Phase) String() string {
	switch p {
	case Visible:
		return "visible"
	case PendingHide:
		return "pending-hide"
	default:
		return "hidden"
	}
}

// State is a snapshot of the overlay.
// Item is for display only and must not be mutated.
type State struct {
	Phase    Phase
	Item     *domain.RankedItem
	Position Position
	Trigger  Rect
}

// Shown reports whether the overlay is on screen
func (s State) Shown() bool {
	return s.Phase != Hidden
}

// Controller owns the overlay state machine.
// Safe for concurrent use; onChange runs with the lock held and must not
// call back into the controller.
type Controller struct {
	layout   Layout
	clock    clock.Clock
	onChange func(State)

	mu    sync.Mutex
	state State
	gen   uint64
	timer clock.Timer
}

// NewController creates a hidden overlay. onChange may be nil.
func NewController(layout Layout, clk clock.Clock, onChange func(State)) *Controller {
	if clk == nil {
		clk = clock.Real{}
	}
	if onChange == nil {
		onChange = func(State) {}
	}
	return &Controller{layout: layout, clock: clk, onChange: onChange}
}

// Layout returns the placement constants in use
func (c *Controller) Layout() Layout {
	return c.layout
}

// State returns a snapshot of the overlay
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Select shows the overlay for item next to trigger
func (c *Controller) Select(trigger Rect, viewport Size, item domain.RankedItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.state = State{
		Phase:    Visible,
		Item:     &item,
		Position: Place(trigger, viewport, c.layout),
		Trigger:  trigger,
	}
	c.onChange(c.state)
}

// PointerLeave starts the hide delay
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != Visible {
		return
	}

	c.cancelLocked()
	gen := c.gen
	c.state.Phase = PendingHide
	c.timer = c.clock.AfterFunc(c.layout.HideDelay, func() { c.elapsed(gen) })
	c.onChange(c.state)
}

// PointerEnter keeps a pending overlay on screen
func (c *Controller) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PendingHide {
		return
	}

	c.cancelLocked()
	c.state.Phase = Visible
	c.onChange(c.state)
}

// Hide dismisses the overlay immediately
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == Hidden {
		return
	}
	c.cancelLocked()
	c.state = State{}
	c.onChange(c.state)
}

// Close cancels any pending hide without notifying
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Controller) elapsed(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.state.Phase != PendingHide {
		return
	}
	c.timer = nil
	c.state = State{}
	c.onChange(c.state)
}

// cancelLocked stops the hide timer and invalidates any callback already
// in flight
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
