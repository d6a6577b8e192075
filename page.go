package pagecanvas

import (
	"image"

	"github.com/gogpu/pagecanvas/surface"
)

// Page is a renderable document page.
//
// Rasterization is the implementation's business: the Orchestrator only
// decides when to call it. Progressive rendering is split into a Begin call
// followed by Continue calls, each of which should return within a bounded
// time. Implementations must be comparable (typically pointer types) since
// the Orchestrator keys its state by Page value.
type Page interface {
	// Width and Height return the page size in page-space units. They also
	// give the native pixel size of a thumbnail render.
	Width() float64
	Height() float64

	// BeginProgressiveRender starts a progressive render of the page into
	// rect of s and reports the resulting status.
	BeginProgressiveRender(s surface.Surface, rect image.Rectangle, rotation Rotation, flags RenderFlags) Status

	// ContinueProgressiveRender performs the next bounded step of the
	// in-flight progressive render.
	ContinueProgressiveRender() Status

	// CancelProgressiveRender finalizes or aborts the progressive render.
	// It must be safe to call when no render is in flight.
	CancelProgressiveRender()

	// Render draws the whole page into rect of s, blocking until done.
	Render(s surface.Surface, rect image.Rectangle, rotation Rotation, flags RenderFlags)

	// AddDisposeListener subscribes l to the page's disposal.
	AddDisposeListener(l DisposeListener)

	// RemoveDisposeListener unsubscribes l. Removing a listener that was
	// never added is a no-op.
	RemoveDisposeListener(l DisposeListener)
}

// DisposeListener is notified when a page is disposed. A page must notify
// its listeners before it is freed.
type DisposeListener interface {
	PageDisposed(p Page)
}
