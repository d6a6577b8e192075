// Package synthpage provides a synthetic progressive page renderer.
//
// A Page paints itself as a stack of colored bands, one band per
// progressive step, and finishes by drawing its label. It exists to drive
// the Orchestrator from the demo command and from tests without a real
// document renderer.
package synthpage

import (
	"image"
	"image/color"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/gogpu/pagecanvas"
	"github.com/gogpu/pagecanvas/internal/cache"
	"github.com/gogpu/pagecanvas/surface"
)

// Stats counts renderer calls made on a Page.
type Stats struct {
	Begin    int
	Continue int
	Cancel   int
	Render   int
}

// Page is a synthetic pagecanvas.Page.
//
// Page is NOT safe for concurrent use.
type Page struct {
	id     uuid.UUID
	label  string
	width  float64
	height float64
	steps  int
	failAt int
	delay  time.Duration
	paper  color.Color
	ink    color.Color
	bands  []color.Color
	faces  *cache.Cache[float64, font.Face]

	// in-flight progressive render
	target   surface.Surface
	rect     image.Rectangle
	rotation pagecanvas.Rotation
	flags    pagecanvas.RenderFlags
	next     int
	running  bool

	disposed  bool
	listeners []pagecanvas.DisposeListener
	stats     Stats
}

var _ pagecanvas.Page = (*Page)(nil)

// New creates a page of the given size in points.
func New(width, height float64, opts ...Option) *Page {
	p := &Page{
		id:     uuid.New(),
		width:  width,
		height: height,
		steps:  DefaultSteps,
		paper:  color.White,
		ink:    color.Black,
		bands:  defaultBands,
		faces:  newFaceCache(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.label == "" {
		p.label = p.id.String()[:8]
	}
	return p
}

// ID returns the page's unique identifier.
func (p *Page) ID() uuid.UUID { return p.id }

// Label returns the text drawn on the finished page.
func (p *Page) Label() string { return p.label }

// Steps returns the number of progressive steps after the first.
func (p *Page) Steps() int { return p.steps }

// Stats returns the renderer call counters.
func (p *Page) Stats() Stats { return p.stats }

// Running reports whether a progressive render is in flight.
func (p *Page) Running() bool { return p.running }

// Disposed reports whether Dispose has been called.
func (p *Page) Disposed() bool { return p.disposed }

func (p *Page) String() string { return p.label }

// Width returns the page width in points.
func (p *Page) Width() float64 { return p.width }

// Height returns the page height in points.
func (p *Page) Height() float64 { return p.height }

// BeginProgressiveRender clears rect to the paper color and starts a
// render. A page with no steps finishes immediately.
func (p *Page) BeginProgressiveRender(s surface.Surface, rect image.Rectangle, rotation pagecanvas.Rotation, flags pagecanvas.RenderFlags) pagecanvas.Status {
	p.stats.Begin++
	if p.disposed {
		return pagecanvas.StatusFailed
	}

	p.target, p.rect, p.rotation, p.flags = s, rect, rotation, flags
	p.next = 0
	s.FillRect(rect, p.color(p.paper))

	if p.steps == 0 {
		p.finish()
		return pagecanvas.StatusDone
	}
	p.running = true
	return pagecanvas.StatusToBeContinued
}

// ContinueProgressiveRender paints the next band. The last band also
// draws the label and reports StatusDone.
func (p *Page) ContinueProgressiveRender() pagecanvas.Status {
	p.stats.Continue++
	if !p.running {
		return pagecanvas.StatusFailed
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.next++
	if p.failAt > 0 && p.next == p.failAt {
		p.running = false
		return pagecanvas.StatusFailed
	}

	i := p.next - 1
	p.target.FillRect(bandRect(p.rect, p.rotation, i, p.steps), p.color(p.band(i)))
	if p.next < p.steps {
		return pagecanvas.StatusToBeContinued
	}

	p.finish()
	return pagecanvas.StatusDone
}

// CancelProgressiveRender abandons the in-flight render, if any.
func (p *Page) CancelProgressiveRender() {
	p.stats.Cancel++
	p.running = false
	p.target = nil
}

// Render paints the whole page into rect of s in one call. Failure
// injection does not apply.
func (p *Page) Render(s surface.Surface, rect image.Rectangle, rotation pagecanvas.Rotation, flags pagecanvas.RenderFlags) {
	p.stats.Render++
	if p.disposed {
		return
	}

	saved := p.flags
	p.flags = flags
	defer func() { p.flags = saved }()

	s.FillRect(rect, p.color(p.paper))
	for i := range p.steps {
		s.FillRect(bandRect(rect, rotation, i, p.steps), p.color(p.band(i)))
	}
	p.drawLabel(s, rect, p.color(p.ink))
}

// AddDisposeListener subscribes l to the page's disposal.
func (p *Page) AddDisposeListener(l pagecanvas.DisposeListener) {
	p.listeners = append(p.listeners, l)
}

// RemoveDisposeListener unsubscribes l. Unknown listeners are ignored.
func (p *Page) RemoveDisposeListener(l pagecanvas.DisposeListener) {
	for i, x := range p.listeners {
		if x == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// Dispose notifies every listener that the page is going away and stops
// any render in flight. Listeners may unsubscribe while being notified.
// Calling Dispose again does nothing.
func (p *Page) Dispose() {
	if p.disposed {
		return
	}
	ls := append([]pagecanvas.DisposeListener(nil), p.listeners...)
	for _, l := range ls {
		l.PageDisposed(p)
	}
	p.disposed = true
	p.running = false
	p.target = nil
	p.listeners = nil
	p.faces.Clear()
	pagecanvas.Logger().Debug("synthpage: page disposed", "label", p.label)
}

func (p *Page) finish() {
	p.drawLabel(p.target, p.rect, p.color(p.ink))
	p.running = false
	p.target = nil
}

func (p *Page) band(i int) color.Color {
	return p.bands[i%len(p.bands)]
}

// color applies the render flags to c.
func (p *Page) color(c color.Color) color.Color {
	if p.flags.Has(pagecanvas.FlagGrayscale) {
		return color.GrayModel.Convert(c)
	}
	return c
}

// bandRect returns band i of n within rect. Bands stack top to bottom, or
// left to right when the page is rotated a quarter turn.
func bandRect(rect image.Rectangle, rotation pagecanvas.Rotation, i, n int) image.Rectangle {
	if n <= 0 {
		return image.Rectangle{}
	}
	switch rotation {
	case pagecanvas.Rotate90, pagecanvas.Rotate270:
		w := rect.Dx()
		x0 := rect.Min.X + i*w/n
		x1 := rect.Min.X + (i+1)*w/n
		if rotation == pagecanvas.Rotate270 {
			x0, x1 = rect.Max.X-(i+1)*w/n, rect.Max.X-i*w/n
		}
		return image.Rect(x0, rect.Min.Y, x1, rect.Max.Y)
	case pagecanvas.Rotate180:
		h := rect.Dy()
		return image.Rect(rect.Min.X, rect.Max.Y-(i+1)*h/n, rect.Max.X, rect.Max.Y-i*h/n)
	default:
		h := rect.Dy()
		return image.Rect(rect.Min.X, rect.Min.Y+i*h/n, rect.Max.X, rect.Min.Y+(i+1)*h/n)
	}
}
