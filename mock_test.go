package pagecanvas

import (
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/gogpu/pagecanvas/surface"
)

// manualClock is a Clock that only moves when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// mockPage implements Page with scripted statuses.
type mockPage struct {
	width, height float64

	// begin is returned by BeginProgressiveRender; steps are returned by
	// successive ContinueProgressiveRender calls, the last one repeating.
	begin Status
	steps []Status

	// fill, if set, is painted into the target rectangle by Render.
	fill color.Color

	// onContinue runs at the start of every continue step.
	onContinue func()

	beginCalls    int
	continueCalls int
	cancelCalls   int
	renderCalls   int

	renderSizes []image.Point
	renderRects []image.Rectangle

	listeners []DisposeListener
}

func newMockPage(width, height float64, begin Status, steps ...Status) *mockPage {
	return &mockPage{width: width, height: height, begin: begin, steps: steps}
}

func (p *mockPage) Width() float64  { return p.width }
func (p *mockPage) Height() float64 { return p.height }

func (p *mockPage) BeginProgressiveRender(_ surface.Surface, _ image.Rectangle, _ Rotation, _ RenderFlags) Status {
	p.beginCalls++
	return p.begin
}

func (p *mockPage) ContinueProgressiveRender() Status {
	if p.onContinue != nil {
		p.onContinue()
	}
	p.continueCalls++
	if len(p.steps) == 0 {
		return StatusDone
	}
	i := min(p.continueCalls, len(p.steps)) - 1
	return p.steps[i]
}

func (p *mockPage) CancelProgressiveRender() { p.cancelCalls++ }

func (p *mockPage) Render(s surface.Surface, rect image.Rectangle, _ Rotation, _ RenderFlags) {
	p.renderCalls++
	p.renderSizes = append(p.renderSizes, surface.Size(s))
	p.renderRects = append(p.renderRects, rect)
	if p.fill != nil {
		s.FillRect(rect, p.fill)
	}
}

func (p *mockPage) AddDisposeListener(l DisposeListener) {
	p.listeners = append(p.listeners, l)
}

func (p *mockPage) RemoveDisposeListener(l DisposeListener) {
	for i, x := range p.listeners {
		if x == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// dispose notifies listeners the way a real page would before being freed.
func (p *mockPage) dispose() {
	ls := append([]DisposeListener(nil), p.listeners...)
	for _, l := range ls {
		l.PageDisposed(p)
	}
}

// recordingFactory allocates ImageSurfaces and remembers them.
type recordingFactory struct {
	sizes    []image.Point
	surfaces []surface.Surface

	// failFrom makes allocation number failFrom (1-based) and later fail.
	failFrom int
}

var errAllocation = errors.New("allocation refused")

func (f *recordingFactory) New(opts surface.Options) (surface.Surface, error) {
	f.sizes = append(f.sizes, image.Pt(opts.Width, opts.Height))
	if f.failFrom > 0 && len(f.sizes) >= f.failFrom {
		return nil, errAllocation
	}
	s, err := surface.NewImageSurfaceWithOptions(opts)
	if err != nil {
		return nil, err
	}
	f.surfaces = append(f.surfaces, s)
	return s, nil
}

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
)
