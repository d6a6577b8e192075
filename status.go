package pagecanvas

// Status is the render state of one page on the canvas.
//
// Renderers report StatusReader, StatusToBeContinued, StatusDone or
// StatusFailed from their progressive render calls. StatusStopped,
// StatusSynchronous and StatusThumbnail are set only by the Orchestrator.
type Status uint8

const (
	// StatusReader means the page is registered and no progressive render
	// has been started yet.
	StatusReader Status = iota

	// StatusToBeContinued means a progressive render is in flight and needs
	// more ContinueProgressiveRender steps.
	StatusToBeContinued

	// StatusDone means the renderer finished; the render still has to be
	// finalized.
	StatusDone

	// StatusFailed means the renderer gave up on the page.
	StatusFailed

	// StatusStopped means the page image on the canvas is final.
	StatusStopped

	// StatusSynchronous requests one blocking render on the next step.
	StatusSynchronous

	// StatusThumbnail requests a scaled thumbnail render on the next step.
	StatusThumbnail
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusReader:
		return "reader"
	case StatusToBeContinued:
		return "to-be-continued"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusStopped:
		return "stopped"
	case StatusSynchronous:
		return "synchronous"
	case StatusThumbnail:
		return "thumbnail"
	default:
		return "unknown"
	}
}

// pending reports whether the page still needs paint cycles.
func (s Status) pending() bool {
	return s == StatusReader || s == StatusToBeContinued
}
