package disclosure

import (
	"sync"
	"time"
)

// DefaultHold is how long a press must last to count as a hold.
const DefaultHold = 500 * time.Millisecond

type stopper interface {
	Stop() bool
}

// Gesture turns raw pointer events on one comment into actions: a tap
// toggles the branch, a hold or a double tap toggles the vote menu, and
// the tap that ends a hold is swallowed.
type Gesture struct {
	Hold       time.Duration
	OnCollapse func()
	OnVoteMenu func()

	afterFunc func(time.Duration, func()) stopper

	mu    sync.Mutex
	timer stopper
	held  bool
}

func NewGesture(onCollapse, onVoteMenu func()) *Gesture {
	return &Gesture{
		Hold:       DefaultHold,
		OnCollapse: onCollapse,
		OnVoteMenu: onVoteMenu,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// PointerDown starts the hold timer. Presses of anything but the primary
// button only cancel a pending hold.
func (g *Gesture) PointerDown(primary bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	if !primary {
		return
	}
	var t stopper
	t = g.afterFunc(g.Hold, func() {
		g.mu.Lock()
		if g.timer != t {
			g.mu.Unlock()
			return
		}
		g.timer = nil
		g.held = true
		fn := g.OnVoteMenu
		g.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	g.timer = t
}

func (g *Gesture) PointerUp()    { g.cancel() }
func (g *Gesture) PointerLeave() { g.cancel() }
func (g *Gesture) PointerMove()  { g.cancel() }

// Tap handles a click. It reports whether the branch was toggled.
func (g *Gesture) Tap() bool {
	g.mu.Lock()
	if g.held {
		g.held = false
		g.mu.Unlock()
		return false
	}
	fn := g.OnCollapse
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
	return true
}

func (g *Gesture) DoubleTap() {
	if g.OnVoteMenu != nil {
		g.OnVoteMenu()
	}
}

func (g *Gesture) cancel() {
	g.mu.Lock()
	g.cancelLocked()
	g.mu.Unlock()
}

func (g *Gesture) cancelLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
