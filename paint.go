package pagecanvas

import (
	"context"
	"image"
)

// PageView is one visible page placed on the canvas for a paint cycle.
type PageView struct {
	Page        Page
	Rect        image.Rectangle
	Rotation    Rotation
	Flags       RenderFlags
	Progressive bool
}

// PaintCycle runs one host paint cycle over views.
//
// It calls InitCanvas(size), which starts the cycle's time budget, then
// gives every view at least one RenderPage step and keeps stepping a view
// while it is unfinished and NeedsPause reports budget left. Pages past
// the deadline still advance one step, so pages late in views are never
// starved.
//
// A page whose last step reported StatusDone is finalized before
// PaintCycle returns, so a complete cycle leaves no progressive render
// open. complete reports whether no page needs another cycle. ctx is
// checked between steps; a single renderer call is never interrupted.
//
// Example host loop:
//
//	for {
//	    done, err := o.PaintCycle(ctx, size, views)
//	    if err != nil || done {
//	        break
//	    }
//	    present(o.Canvas()) // and wait for the next frame
//	}
func (o *Orchestrator) PaintCycle(ctx context.Context, size image.Point, views []PageView) (complete bool, err error) {
	if err := o.InitCanvas(size); err != nil {
		return false, err
	}

	for _, v := range views {
		for {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			if o.RenderPage(v.Page, v.Rect, v.Rotation, v.Flags, v.Progressive) {
				break
			}
			if o.NeedsPause(v.Page) {
				break
			}
		}
	}

	for _, v := range views {
		if st, ok := o.pages[v.Page]; ok && st.status == StatusDone {
			o.step(v.Page, st, v.Rect, v.Rotation, v.Flags)
		}
	}

	return !o.NeedsContinuePaint(), nil
}
