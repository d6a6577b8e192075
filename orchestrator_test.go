package pagecanvas

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/pagecanvas/surface"
)

// newTestOrchestrator returns an orchestrator with a manual clock and an
// initialised 200x200 canvas.
func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *manualClock) {
	t.Helper()
	clk := newManualClock()
	o := New(append([]Option{WithClock(clk)}, opts...)...)
	if err := o.InitCanvas(image.Pt(200, 200)); err != nil {
		t.Fatalf("InitCanvas: %v", err)
	}
	t.Cleanup(o.ReleaseCanvas)
	return o, clk
}

func mustStatus(t *testing.T, o *Orchestrator, p Page, want Status) {
	t.Helper()
	got, ok := o.Status(p)
	if !ok {
		t.Fatalf("page not registered, want status %v", want)
	}
	if got != want {
		t.Fatalf("status = %v, want %v", got, want)
	}
}

func TestUnsubmittedPageHasNoState(t *testing.T) {
	o, clk := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusToBeContinued)

	clk.Advance(time.Hour)
	if o.NeedsPause(p) {
		t.Error("NeedsPause = true for unregistered page")
	}
	if _, ok := o.Status(p); ok {
		t.Error("unregistered page has a state entry")
	}
	if o.Len() != 0 || o.NeedsContinuePaint() {
		t.Error("empty orchestrator reports pages")
	}
	if len(p.listeners) != 0 {
		t.Error("unregistered page has listeners")
	}
}

func TestNeedsPauseFixedDeadline(t *testing.T) {
	o, clk := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusToBeContinued)
	o.RenderPage(p, image.Rect(0, 0, 10, 10), Rotate0, FlagNormal, true)

	if o.NeedsPause(p) {
		t.Fatal("NeedsPause right after InitCanvas = true")
	}

	// Sampling must not move the deadline: two checks 40ms apart add up.
	clk.Advance(40 * time.Millisecond)
	if o.NeedsPause(p) {
		t.Fatal("NeedsPause at 40ms = true")
	}
	clk.Advance(30 * time.Millisecond)
	if o.NeedsPause(p) {
		t.Fatal("NeedsPause at exactly the threshold = true, want strictly greater")
	}
	clk.Advance(time.Millisecond)
	if !o.NeedsPause(p) {
		t.Fatal("NeedsPause at 71ms = false")
	}

	if err := o.InitCanvas(image.Pt(200, 200)); err != nil {
		t.Fatal(err)
	}
	if o.NeedsPause(p) {
		t.Error("NeedsPause after re-InitCanvas = true")
	}
}

func TestNeedsPauseCustomWaitTime(t *testing.T) {
	o, clk := newTestOrchestrator(t, WithWaitTime(10*time.Millisecond))
	p := newMockPage(10, 10, StatusToBeContinued)
	o.RenderPage(p, image.Rect(0, 0, 10, 10), Rotate0, FlagNormal, true)

	clk.Advance(11 * time.Millisecond)
	if !o.NeedsPause(p) {
		t.Error("NeedsPause past custom wait time = false")
	}
}

func TestInitCanvasIdempotent(t *testing.T) {
	f := &recordingFactory{}
	o := New(WithClock(newManualClock()), WithSurfaceFactory(f.New))
	defer o.ReleaseCanvas()

	if err := o.InitCanvas(image.Pt(100, 80)); err != nil {
		t.Fatal(err)
	}
	first := o.Canvas()

	if err := o.InitCanvas(image.Pt(300, 300)); err != nil {
		t.Fatal(err)
	}
	if o.Canvas() != first {
		t.Error("InitCanvas reallocated a live canvas")
	}
	if got := o.CanvasSize(); got != image.Pt(100, 80) {
		t.Errorf("CanvasSize = %v, want (100,80)", got)
	}
	if len(f.sizes) != 1 {
		t.Errorf("factory calls = %d, want 1", len(f.sizes))
	}
}

func TestInitCanvasErrors(t *testing.T) {
	o := New(WithClock(newManualClock()))
	err := o.InitCanvas(image.Pt(0, 10))
	if !errors.Is(err, surface.ErrInvalidDimensions) {
		t.Fatalf("InitCanvas(0x10) = %v, want ErrInvalidDimensions", err)
	}
	if o.Canvas() != nil {
		t.Error("canvas allocated despite error")
	}

	f := &recordingFactory{failFrom: 1}
	o = New(WithClock(newManualClock()), WithSurfaceFactory(f.New))
	p := newMockPage(10, 10, StatusDone)
	if o.RenderPage(p, image.Rect(0, 0, 10, 10), Rotate0, FlagNormal, true) {
		t.Error("RenderPage without canvas = true")
	}
	if _, ok := o.Status(p); ok {
		t.Error("page registered although the canvas failed")
	}
	if p.beginCalls != 0 || len(p.listeners) != 0 {
		t.Error("renderer invoked or subscribed without a canvas")
	}
	if o.NeedsContinuePaint() {
		t.Error("failed allocation left a page pending")
	}

	// An empty rectangle cannot size the lazy canvas either.
	o = New(WithClock(newManualClock()))
	if o.RenderPage(p, image.Rectangle{}, Rotate0, FlagNormal, true) {
		t.Error("RenderPage into empty rect without canvas = true")
	}
	if o.Len() != 0 || o.NeedsContinuePaint() {
		t.Error("page left pending after lazy allocation failed")
	}
}

func TestRenderPageLazyCanvas(t *testing.T) {
	o := New(WithClock(newManualClock()))
	defer o.ReleaseCanvas()

	p := newMockPage(10, 10, StatusToBeContinued)
	o.RenderPage(p, image.Rect(10, 20, 110, 220), Rotate0, FlagNormal, true)

	if got := o.CanvasSize(); got != image.Pt(110, 220) {
		t.Errorf("lazy canvas size = %v, want (110,220)", got)
	}
}

func TestRenderPageLazyCanvasStartsBudget(t *testing.T) {
	clk := newManualClock()
	o := New(WithClock(clk))
	defer o.ReleaseCanvas()

	// Time spent before the canvas exists does not count against the budget.
	clk.Advance(time.Second)
	p := newMockPage(10, 10, StatusToBeContinued)
	o.RenderPage(p, image.Rect(0, 0, 10, 10), Rotate0, FlagNormal, true)
	if o.NeedsPause(p) {
		t.Error("NeedsPause right after lazy allocation = true")
	}
	clk.Advance(71 * time.Millisecond)
	if !o.NeedsPause(p) {
		t.Error("NeedsPause past the budget = false")
	}
}

func TestFirstRenderPage(t *testing.T) {
	tests := []struct {
		name       string
		begin      Status
		wantReady  bool
		wantStatus Status
	}{
		{"in progress", StatusToBeContinued, false, StatusToBeContinued},
		{"immediately done", StatusDone, true, StatusDone},
		{"immediately failed", StatusFailed, false, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOrchestrator(t)
			p := newMockPage(10, 10, tt.begin)

			got := o.RenderPage(p, image.Rect(0, 0, 50, 50), Rotate0, FlagNormal, true)
			if got != tt.wantReady {
				t.Errorf("RenderPage = %v, want %v", got, tt.wantReady)
			}
			mustStatus(t, o, p, tt.wantStatus)
			if p.beginCalls != 1 {
				t.Errorf("begin calls = %d, want 1", p.beginCalls)
			}
			if len(p.listeners) != 1 || p.listeners[0] != DisposeListener(o) {
				t.Error("orchestrator not subscribed to page disposal")
			}
		})
	}
}

func TestProgressiveLifecycle(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusToBeContinued, StatusToBeContinued, StatusDone)
	rect := image.Rect(0, 0, 50, 50)

	steps := []struct {
		ready        bool
		status       Status
		needContinue bool
	}{
		{false, StatusToBeContinued, true}, // begin
		{false, StatusToBeContinued, true}, // continue
		{false, StatusDone, false},         // continue reports done
		{true, StatusStopped, false},       // finalize
		{true, StatusStopped, false},       // already stopped
	}
	for i, s := range steps {
		if got := o.RenderPage(p, rect, Rotate0, FlagNormal, true); got != s.ready {
			t.Errorf("step %d: RenderPage = %v, want %v", i, got, s.ready)
		}
		mustStatus(t, o, p, s.status)
		if got := o.NeedsContinuePaint(); got != s.needContinue {
			t.Errorf("step %d: NeedsContinuePaint = %v, want %v", i, got, s.needContinue)
		}
	}

	if p.beginCalls != 1 || p.continueCalls != 2 || p.cancelCalls != 1 {
		t.Errorf("calls begin=%d continue=%d cancel=%d, want 1, 2, 1",
			p.beginCalls, p.continueCalls, p.cancelCalls)
	}
}

func TestStoppedIsIdempotent(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusDone)
	rect := image.Rect(0, 0, 50, 50)

	o.RenderPage(p, rect, Rotate0, FlagNormal, true) // begin -> done
	o.RenderPage(p, rect, Rotate0, FlagNormal, true) // done -> stopped

	for i := 0; i < 5; i++ {
		if !o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
			t.Fatalf("call %d on stopped page = false", i)
		}
	}
	if p.beginCalls != 1 || p.continueCalls != 0 {
		t.Errorf("renderer re-invoked: begin=%d continue=%d", p.beginCalls, p.continueCalls)
	}
	mustStatus(t, o, p, StatusStopped)
}

// advanceTo drives p into want using progressive calls.
func advanceTo(t *testing.T, o *Orchestrator, p *mockPage, want Status) {
	t.Helper()
	rect := image.Rect(0, 0, 50, 50)
	switch want {
	case StatusReader:
		return
	case StatusToBeContinued:
		p.begin = StatusToBeContinued
		o.RenderPage(p, rect, Rotate0, FlagNormal, true)
	case StatusStopped:
		p.begin = StatusDone
		o.RenderPage(p, rect, Rotate0, FlagNormal, true)
		o.RenderPage(p, rect, Rotate0, FlagNormal, true)
	}
	if want != StatusReader {
		mustStatus(t, o, p, want)
	}
}

func TestOverridesPreemptStatus(t *testing.T) {
	priors := []Status{StatusReader, StatusToBeContinued, StatusStopped}
	modes := []struct {
		name        string
		flags       RenderFlags
		progressive bool
	}{
		{"thumbnail", FlagThumbnail, true},
		{"hq thumbnail", FlagHQThumbnail, true},
		{"thumbnail without progressive", FlagThumbnail | FlagAnnotations, false},
		{"synchronous", FlagNormal, false},
	}

	for _, m := range modes {
		for _, prior := range priors {
			t.Run(m.name+"/"+prior.String(), func(t *testing.T) {
				o, _ := newTestOrchestrator(t)
				p := newMockPage(20, 30, StatusToBeContinued)
				advanceTo(t, o, p, prior)
				beginBefore, cancelBefore := p.beginCalls, p.cancelCalls

				if !o.RenderPage(p, image.Rect(10, 10, 60, 60), Rotate90, m.flags, m.progressive) {
					t.Error("forced render returned false")
				}
				mustStatus(t, o, p, StatusStopped)
				if p.renderCalls != 1 {
					t.Errorf("render calls = %d, want 1", p.renderCalls)
				}
				if p.beginCalls != beginBefore {
					t.Error("forced render started a progressive render")
				}
				wantCancel := cancelBefore
				if prior == StatusToBeContinued {
					wantCancel++
				}
				if p.cancelCalls != wantCancel {
					t.Errorf("cancel calls = %d, want %d", p.cancelCalls, wantCancel)
				}
			})
		}
	}
}

func TestSynchronousRendersIntoCanvas(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := newMockPage(20, 30, StatusToBeContinued)
	p.fill = green
	rect := image.Rect(10, 10, 60, 60)

	o.RenderPage(p, rect, Rotate0, FlagNormal, false)

	if p.renderRects[0] != rect {
		t.Errorf("render rect = %v, want %v", p.renderRects[0], rect)
	}
	if p.renderSizes[0] != image.Pt(200, 200) {
		t.Errorf("rendered into %v surface, want the 200x200 canvas", p.renderSizes[0])
	}
	if got := o.Canvas().Image().RGBAAt(30, 30); got != green {
		t.Errorf("canvas pixel = %v, want green", got)
	}
}

func TestFailurePlaceholder(t *testing.T) {
	for _, reported := range []Status{StatusFailed, Status(42)} {
		t.Run(reported.String(), func(t *testing.T) {
			o, _ := newTestOrchestrator(t)
			p := newMockPage(10, 10, reported)
			rect := image.Rect(20, 30, 120, 90)

			if o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
				t.Fatal("begin reporting failure returned true")
			}
			if !o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
				t.Fatal("failure step returned false")
			}
			mustStatus(t, o, p, StatusStopped)
			if p.cancelCalls != 1 {
				t.Errorf("cancel calls = %d, want 1", p.cancelCalls)
			}

			img := o.Canvas().Image()
			pixels := []struct {
				at   image.Point
				want color.RGBA
			}{
				{rect.Min, red},
				{image.Pt(24, 34), red},
				{image.Pt(25, 35), white},
				{image.Pt(70, 60), white},
				{image.Pt(114, 84), white},
				{image.Pt(115, 85), red},
				{image.Pt(119, 89), red},
			}
			for _, px := range pixels {
				if got := img.RGBAAt(px.at.X, px.at.Y); got != px.want {
					t.Errorf("pixel %v = %v, want %v", px.at, got, px.want)
				}
			}
			if got := img.RGBAAt(19, 29); got.A != 0 {
				t.Errorf("pixel outside rect = %v, want untouched", got)
			}

			// Stopped redisplays without retrying.
			if !o.RenderPage(p, rect, Rotate0, FlagNormal, true) || p.beginCalls != 1 {
				t.Error("stopped failed page was retried")
			}
		})
	}
}

func TestFailureAfterContinue(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusToBeContinued, StatusFailed)
	rect := image.Rect(0, 0, 40, 40)

	o.RenderPage(p, rect, Rotate0, FlagNormal, true)
	if o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
		t.Error("continue step returned true")
	}
	mustStatus(t, o, p, StatusFailed)
	if o.NeedsContinuePaint() {
		t.Error("failed page should not need continued painting")
	}
	if !o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
		t.Error("placeholder step returned false")
	}
	if got := o.Canvas().Image().RGBAAt(0, 0); got != red {
		t.Errorf("placeholder border = %v, want red", got)
	}
}

func TestCustomPlaceholder(t *testing.T) {
	o, _ := newTestOrchestrator(t, WithPlaceholder(Placeholder{Margin: 2, Border: green}))
	p := newMockPage(10, 10, StatusFailed)
	rect := image.Rect(0, 0, 20, 20)

	o.RenderPage(p, rect, Rotate0, FlagNormal, true)
	o.RenderPage(p, rect, Rotate0, FlagNormal, true)

	img := o.Canvas().Image()
	if got := img.RGBAAt(1, 1); got != green {
		t.Errorf("border = %v, want green", got)
	}
	if got := img.RGBAAt(2, 2); got != white {
		t.Errorf("fill = %v, want default white", got)
	}
}

func TestReleaseCanvas(t *testing.T) {
	f := &recordingFactory{}
	o := New(WithClock(newManualClock()), WithSurfaceFactory(f.New))
	if err := o.InitCanvas(image.Pt(100, 100)); err != nil {
		t.Fatal(err)
	}

	inFlight := newMockPage(10, 10, StatusToBeContinued)
	stopped := newMockPage(10, 10, StatusDone)
	advanceTo(t, o, inFlight, StatusToBeContinued)
	advanceTo(t, o, stopped, StatusStopped)
	stoppedCancels := stopped.cancelCalls

	o.ReleaseCanvas()

	if o.Len() != 0 || o.NeedsContinuePaint() {
		t.Error("pages survived ReleaseCanvas")
	}
	if inFlight.cancelCalls != 1 {
		t.Errorf("in-flight cancel calls = %d, want 1", inFlight.cancelCalls)
	}
	if stopped.cancelCalls != stoppedCancels {
		t.Error("stopped page cancelled again on release")
	}
	if len(inFlight.listeners) != 0 || len(stopped.listeners) != 0 {
		t.Error("listeners not removed on release")
	}
	if o.Canvas() != nil || o.CanvasSize() != (image.Point{}) {
		t.Error("canvas survived ReleaseCanvas")
	}
	if f.surfaces[0].Image() != nil {
		t.Error("canvas surface not closed")
	}

	// Twice in a row is safe.
	o.ReleaseCanvas()

	// A fresh cycle allocates a new canvas, size may change.
	if err := o.InitCanvas(image.Pt(50, 40)); err != nil {
		t.Fatal(err)
	}
	if got := o.CanvasSize(); got != image.Pt(50, 40) {
		t.Errorf("CanvasSize after re-init = %v", got)
	}
	o.ReleaseCanvas()
}

func TestPageDisposalDeregisters(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := newMockPage(10, 10, StatusToBeContinued)
	advanceTo(t, o, p, StatusToBeContinued)

	p.dispose()

	if _, ok := o.Status(p); ok {
		t.Error("disposed page still registered")
	}
	if p.cancelCalls != 1 {
		t.Errorf("cancel calls = %d, want 1", p.cancelCalls)
	}
	if len(p.listeners) != 0 {
		t.Error("listener not removed on disposal")
	}
	if o.NeedsPause(p) {
		t.Error("NeedsPause for disposed page = true")
	}
}

// disposingPage disposes itself from inside a continue step.
type disposingPage struct {
	*mockPage
}

func (p disposingPage) ContinueProgressiveRender() Status {
	ls := append([]DisposeListener(nil), p.listeners...)
	for _, l := range ls {
		l.PageDisposed(p)
	}
	return StatusDone
}

func TestDisposalDuringStep(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	p := disposingPage{newMockPage(10, 10, StatusToBeContinued)}
	rect := image.Rect(0, 0, 10, 10)

	o.RenderPage(p, rect, Rotate0, FlagNormal, true)
	if o.RenderPage(p, rect, Rotate0, FlagNormal, true) {
		t.Error("continue step returned true")
	}
	if o.Len() != 0 {
		t.Error("page disposed mid-step is still registered")
	}
}

func TestRemovePage(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	// Unknown page: no-op.
	o.RemovePage(newMockPage(1, 1, StatusDone))

	p := newMockPage(10, 10, StatusDone)
	advanceTo(t, o, p, StatusStopped)
	cancels := p.cancelCalls

	o.RemovePage(p)
	o.RemovePage(p)

	if o.Len() != 0 {
		t.Error("page not removed")
	}
	if p.cancelCalls != cancels {
		t.Error("stopped page cancelled on removal")
	}

	// Re-submitting registers afresh in StatusReader.
	p.begin = StatusToBeContinued
	o.RenderPage(p, image.Rect(0, 0, 10, 10), Rotate0, FlagNormal, true)
	mustStatus(t, o, p, StatusToBeContinued)
	if len(p.listeners) != 1 {
		t.Errorf("listeners = %d after re-registration, want 1", len(p.listeners))
	}
}
