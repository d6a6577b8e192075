package pagecanvas

import (
	"fmt"
	"image"

	"github.com/gogpu/pagecanvas/surface"
)

// pageState is the per-page render state. A pointer is held so that a step
// can finish updating it even if the page is disposed during a renderer call.
type pageState struct {
	status Status
}

// Orchestrator schedules progressive rendering of pages onto one shared
// canvas surface.
//
// The host calls RenderPage once per visible page per paint cycle. Each call
// performs one state-machine step and reports whether the page's rectangle
// on the canvas now holds a presentable image. InitCanvas starts the cycle's
// time budget; NeedsPause tells the host when the budget is spent.
//
// Orchestrator is NOT safe for concurrent use. It is meant to be driven
// from the host's UI goroutine.
type Orchestrator struct {
	opts options

	canvas     surface.Surface
	canvasSize image.Point

	pages  map[Page]*pageState
	budget budget
}

// New creates an Orchestrator with no canvas and no pages.
func New(opts ...Option) *Orchestrator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Orchestrator{
		opts:  o,
		pages: make(map[Page]*pageState),
		budget: budget{
			clock:       o.clock,
			defaultWait: o.waitTime,
			wait:        o.waitTime,
		},
	}
}

// InitCanvas allocates the canvas at size if none exists and starts a new
// time budget. A live canvas is never resized: later calls with a different
// size only reset the budget. The budget is reset even if allocation fails.
func (o *Orchestrator) InitCanvas(size image.Point) error {
	o.budget.reset()

	if o.canvas != nil {
		return nil
	}

	s, err := o.opts.factory(surface.Options{Width: size.X, Height: size.Y, Alpha: true})
	if err != nil {
		return fmt.Errorf("pagecanvas: allocate canvas %dx%d: %w", size.X, size.Y, err)
	}
	o.canvas = s
	o.canvasSize = size
	Logger().Info("pagecanvas: canvas allocated", "width", size.X, "height", size.Y)
	return nil
}

// ReleaseCanvas stops progressive rendering on every registered page,
// forgets all pages and disposes the canvas. It is safe to call repeatedly.
func (o *Orchestrator) ReleaseCanvas() {
	for p, st := range o.pages {
		o.releasePage(p, st)
	}
	clear(o.pages)

	if o.canvas != nil {
		if err := o.canvas.Close(); err != nil {
			Logger().Warn("pagecanvas: canvas close failed", "err", err)
		}
		o.canvas = nil
		o.canvasSize = image.Point{}
		Logger().Info("pagecanvas: canvas released")
	}
}

// Canvas returns the shared canvas surface, or nil if none is allocated.
func (o *Orchestrator) Canvas() surface.Surface {
	return o.canvas
}

// CanvasSize returns the size the canvas was allocated with, or the zero
// point if none is allocated.
func (o *Orchestrator) CanvasSize() image.Point {
	return o.canvasSize
}

// Len returns the number of registered pages.
func (o *Orchestrator) Len() int {
	return len(o.pages)
}

// Status returns the render status of page and whether it is registered.
func (o *Orchestrator) Status(page Page) (Status, bool) {
	st, ok := o.pages[page]
	if !ok {
		return 0, false
	}
	return st.status, true
}

// NeedsContinuePaint reports whether any registered page still has
// rendering outstanding, i.e. the host should schedule another paint cycle.
func (o *Orchestrator) NeedsContinuePaint() bool {
	for _, st := range o.pages {
		if st.status.pending() {
			return true
		}
	}
	return false
}

// NeedsPause reports whether the host should stop issuing render steps for
// page and yield. It is false for unregistered pages; otherwise it is true
// once more than the wait time has passed since the last InitCanvas.
// NeedsPause never blocks.
func (o *Orchestrator) NeedsPause(page Page) bool {
	if _, ok := o.pages[page]; !ok {
		return false
	}
	return o.budget.exceeded()
}

// RenderPage performs one render step for page into rect of the canvas and
// reports whether rect now holds a presentable image. false means work is
// outstanding and RenderPage should be called again on a later cycle.
//
// Thumbnail flags force a thumbnail render and useProgressive=false forces
// a blocking render, whatever the page's current status.
//
// If no canvas has been allocated, one is allocated at rect.Max through
// InitCanvas, which also starts a new time budget. When that allocation
// fails RenderPage returns false without registering page.
func (o *Orchestrator) RenderPage(page Page, rect image.Rectangle, rotation Rotation, flags RenderFlags, useProgressive bool) bool {
	if o.canvas == nil {
		if err := o.InitCanvas(rect.Max); err != nil {
			Logger().Warn("pagecanvas: no canvas for page", "err", err)
			return false
		}
	}

	st, ok := o.pages[page]
	if !ok {
		st = o.addPage(page)
	}

	if flags.Thumbnail() || !useProgressive {
		// The forced render replaces any progressive render in flight.
		if st.status == StatusToBeContinued {
			page.CancelProgressiveRender()
		}
		st.status = StatusSynchronous
		if flags.Thumbnail() {
			st.status = StatusThumbnail
		}
	}

	return o.step(page, st, rect, rotation, flags)
}

// step applies one transition of the render state machine.
func (o *Orchestrator) step(page Page, st *pageState, rect image.Rectangle, rotation Rotation, flags RenderFlags) bool {
	from := st.status

	switch st.status {
	case StatusReader:
		st.status = page.BeginProgressiveRender(o.canvas, rect, rotation, flags)
		o.logTransition(from, st.status)
		return st.status == StatusDone

	case StatusToBeContinued:
		st.status = page.ContinueProgressiveRender()
		o.logTransition(from, st.status)
		return false

	case StatusDone:
		page.CancelProgressiveRender()
		st.status = StatusStopped
		o.logTransition(from, st.status)
		return true

	case StatusStopped:
		return true

	case StatusSynchronous:
		st.status = StatusStopped
		page.Render(o.canvas, rect, rotation, flags)
		o.logTransition(from, st.status)
		return true

	case StatusThumbnail:
		st.status = StatusStopped
		if err := o.drawThumbnail(page, rect, rotation, flags); err != nil {
			Logger().Warn("pagecanvas: thumbnail failed", "err", err)
			o.drawPlaceholder(rect)
		}
		o.logTransition(from, st.status)
		return true

	default:
		// StatusFailed and anything a renderer may report that is not
		// handled above.
		Logger().Warn("pagecanvas: render failed", "status", from, "rect", rect)
		o.drawPlaceholder(rect)
		page.CancelProgressiveRender()
		st.status = StatusStopped
		return true
	}
}

func (o *Orchestrator) logTransition(from, to Status) {
	Logger().Debug("pagecanvas: step", "from", from, "to", to)
}

// PageDisposed removes a disposed page. Pages call it through the
// DisposeListener subscription made when the page was registered.
func (o *Orchestrator) PageDisposed(p Page) {
	o.RemovePage(p)
}

// RemovePage forgets page, cancelling its progressive render if one is in
// flight and unsubscribing from its disposal. Unknown pages are ignored.
func (o *Orchestrator) RemovePage(page Page) {
	st, ok := o.pages[page]
	if !ok {
		return
	}
	o.releasePage(page, st)
	delete(o.pages, page)
	Logger().Debug("pagecanvas: page removed", "pages", len(o.pages))
}

func (o *Orchestrator) addPage(page Page) *pageState {
	st := &pageState{status: StatusReader}
	o.pages[page] = st
	page.AddDisposeListener(o)
	Logger().Debug("pagecanvas: page registered", "pages", len(o.pages))
	return st
}

// releasePage stops an in-flight progressive render and unsubscribes.
// The caller removes the map entry.
func (o *Orchestrator) releasePage(page Page, st *pageState) {
	if st.status == StatusToBeContinued {
		page.CancelProgressiveRender()
	}
	page.RemoveDisposeListener(o)
}
