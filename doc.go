// Package pagecanvas schedules progressive rendering of document pages onto
// one shared off-screen canvas.
//
// # Overview
//
// A viewer paints the visible pages of a document into a single canvas
// surface. Rendering a page can be slow, so renderers split it into steps:
// begin, continue, continue, ... The Orchestrator decides for every page
// and every paint cycle which step to take next, so that the host's UI loop
// never blocks for longer than a bounded time slice.
//
// # Quick Start
//
//	o := pagecanvas.New()
//	defer o.ReleaseCanvas()
//
//	// Once per paint cycle:
//	_ = o.InitCanvas(image.Pt(800, 1200))
//	for _, v := range visible {
//	    for !o.RenderPage(v.page, v.rect, pagecanvas.Rotate0, pagecanvas.FlagNormal, true) {
//	        if o.NeedsPause(v.page) {
//	            break
//	        }
//	    }
//	}
//	if o.NeedsContinuePaint() {
//	    invalidate() // schedule another cycle
//	}
//
// A page that reports StatusDone right at the deadline still owes one
// RenderPage call to finalize it, and NeedsContinuePaint does not count it.
// PaintCycle wraps this loop and makes that call before returning.
//
// # Render States
//
// Each registered page carries a Status:
//
//   - StatusReader: registered, nothing started; the next step begins a
//     progressive render
//   - StatusToBeContinued: a progressive render is in flight
//   - StatusDone: the renderer finished; the next step finalizes it
//   - StatusStopped: the image is final; further steps do nothing
//   - StatusSynchronous, StatusThumbnail: one-shot render modes forced by
//     RenderPage arguments
//   - StatusFailed: the renderer gave up; the next step paints a red and
//     white placeholder
//
// # Time Budget
//
// InitCanvas starts a budget of DefaultWaitTime (see WithWaitTime).
// NeedsPause compares the time elapsed since that call against the budget.
// It does not move the start point, so all pages share one deadline per
// paint cycle.
//
// # Page Lifetime
//
// Pages are registered on their first RenderPage call and subscribe the
// Orchestrator as a DisposeListener. A disposed page is forgotten
// automatically; RemovePage and ReleaseCanvas forget pages explicitly.
//
// # Thread Safety
//
// Orchestrator is NOT safe for concurrent use. SetLogger and Logger are.
package pagecanvas
