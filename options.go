package pagecanvas

import (
	"image/color"
	"time"

	"github.com/gogpu/pagecanvas/surface"
)

// DefaultWaitTime is the time budget of one paint cycle, measured from
// InitCanvas.
const DefaultWaitTime = 70 * time.Millisecond

// Option configures an Orchestrator during creation.
// Use functional options to customize Orchestrator behavior.
//
// Example:
//
//	// Defaults: 70ms budget, best available surface backend
//	o := pagecanvas.New()
//
//	// Tighter budget and a host-provided surface backend
//	o := pagecanvas.New(
//	    pagecanvas.WithWaitTime(30*time.Millisecond),
//	    pagecanvas.WithSurfaceFactory(surface.FactoryByName("shm")),
//	)
type Option func(*options)

// options holds optional configuration for Orchestrator creation.
type options struct {
	waitTime    time.Duration
	clock       Clock
	factory     surface.Factory
	thumbFilter surface.Filter
	placeholder Placeholder
}

// defaultOptions returns the default orchestrator options.
func defaultOptions() options {
	return options{
		waitTime:    DefaultWaitTime,
		clock:       SystemClock(),
		factory:     surface.DefaultFactory,
		thumbFilter: surface.FilterCatmullRom,
		placeholder: DefaultPlaceholder(),
	}
}

// WithWaitTime sets the per-cycle time budget. Non-positive values are
// ignored.
func WithWaitTime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.waitTime = d
		}
	}
}

// WithClock sets the clock used to sample elapsed time.
// Tests inject a manual clock; nil is ignored.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithSurfaceFactory sets the factory that allocates the shared canvas and
// temporary thumbnail surfaces. nil is ignored.
//
// Example:
//
//	o := pagecanvas.New(pagecanvas.WithSurfaceFactory(surface.FactoryByName("image")))
func WithSurfaceFactory(f surface.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithThumbnailFilter sets the interpolation used when a thumbnail is
// scaled into its target rectangle. Default: surface.FilterCatmullRom.
func WithThumbnailFilter(f surface.Filter) Option {
	return func(o *options) {
		o.thumbFilter = f
	}
}

// WithPlaceholder sets the error placeholder style. Nil colors keep their
// defaults; a negative margin is treated as zero.
func WithPlaceholder(p Placeholder) Option {
	return func(o *options) {
		if p.Border == nil {
			p.Border = o.placeholder.Border
		}
		if p.Fill == nil {
			p.Fill = o.placeholder.Fill
		}
		p.Margin = max(p.Margin, 0)
		o.placeholder = p
	}
}

// Placeholder describes the pattern painted over a page that failed to
// render: Border fills the whole target rectangle, Fill covers it inset by
// Margin pixels.
type Placeholder struct {
	Margin int
	Border color.Color
	Fill   color.Color
}

// DefaultPlaceholder returns a red frame five pixels wide around white.
func DefaultPlaceholder() Placeholder {
	return Placeholder{
		Margin: 5,
		Border: color.RGBA{R: 0xff, A: 0xff},
		Fill:   color.White,
	}
}
