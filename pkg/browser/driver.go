package browser

import "image"

// Driver is the frame driver: resume/resize/scroll/key/redraw
// orchestration over a State. It is thin glue a host event loop — a fyne
// window, a one-shot CLI render, a test harness — calls into; all
// pipeline logic lives in State and the packages below it. A Driver
// decides whether an event actually warrants a redraw (Redraw is skipped
// when State reports no change) rather than every handler
// unconditionally repainting.
type Driver struct {
	State *State
}

// NewDriver wraps state in a frame driver.
func NewDriver(state *State) *Driver { return &Driver{State: state} }

// Resume redraws the current state unconditionally — the host regained
// focus/visibility with no state change of its own (window restore, tab
// switch back).
func (d *Driver) Resume() image.Image { return d.State.Redraw() }

// PointerMove handles mouse motion, redrawing only if the hovered element
// actually changed.
func (d *Driver) PointerMove(x, y float64) image.Image {
	if !d.State.PointerMove(x, y) {
		return nil
	}
	return d.State.Redraw()
}

// Scroll handles a relative scroll delta.
func (d *Driver) Scroll(dx, dy float64) image.Image {
	d.State.Scroll(dx, dy)
	return d.State.Redraw()
}

// ResizeViewport handles a viewport-size-only change (no reflow — see
// State.ResizeViewport).
func (d *Driver) ResizeViewport(w, h float64) image.Image {
	d.State.ResizeViewport(w, h)
	return d.State.Redraw()
}

// ResizeWindow handles a host window resize: full reflow, then redraw.
func (d *Driver) ResizeWindow(w, h float64) image.Image {
	d.State.ResizeWindow(w, h)
	return d.State.Redraw()
}

// Key dispatches one of the debug key bindings ('0'-'9', 'w', 'd', 't')
// and redraws. Any other rune is a no-op mode change but still redraws,
// since a host may coalesce an unrelated repaint request into a key event.
func (d *Driver) Key(r rune) image.Image {
	switch {
	case r >= '0' && r <= '9':
		d.State.ToggleLayer(int(r - '0'))
	case r == 'w':
		d.State.CycleWireframe()
	case r == 'd':
		d.State.ToggleDebugHover()
	case r == 't':
		d.State.ToggleTileGrid()
	}
	return d.State.Redraw()
}

// RecoverBackendLoss implements the device-reset recovery path: discard
// every texture, mark every tile Dirty, then redraw once the host has
// recreated its graphics surface.
func (d *Driver) RecoverBackendLoss() image.Image {
	d.State.HandleBackendLoss()
	return d.State.Redraw()
}
