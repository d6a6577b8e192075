package pagecanvas

import (
	"fmt"
	"image"

	"github.com/gogpu/pagecanvas/surface"
)

// thumbnailSize returns the size of the temporary surface a thumbnail is
// rendered into: the native page size, grown per axis to the target
// rectangle when FlagHQThumbnail is set.
func thumbnailSize(page Page, rect image.Rectangle, flags RenderFlags) image.Point {
	w, h := int(page.Width()), int(page.Height())
	if flags.Has(FlagHQThumbnail) {
		w = max(w, rect.Dx())
		h = max(h, rect.Dy())
	}
	return image.Pt(w, h)
}

// drawThumbnail renders page into a temporary surface and composites it,
// scaled, into rect of the canvas. The temporary surface is closed on
// every path.
func (o *Orchestrator) drawThumbnail(page Page, rect image.Rectangle, rotation Rotation, flags RenderFlags) error {
	size := thumbnailSize(page, rect, flags)

	tmp, err := o.opts.factory(surface.Options{Width: size.X, Height: size.Y, Alpha: true})
	if err != nil {
		return fmt.Errorf("pagecanvas: allocate thumbnail %dx%d: %w", size.X, size.Y, err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	page.Render(tmp, image.Rectangle{Max: size}, rotation, flags)
	o.canvas.DrawScaled(tmp.Image(), rect, o.opts.thumbFilter)
	return nil
}

// drawPlaceholder paints the error pattern over rect.
func (o *Orchestrator) drawPlaceholder(rect image.Rectangle) {
	p := o.opts.placeholder
	o.canvas.FillRect(rect, p.Border)
	o.canvas.FillRect(rect.Inset(p.Margin), p.Fill)
}
