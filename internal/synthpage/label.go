package synthpage

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/pagecanvas"
	"github.com/gogpu/pagecanvas/internal/cache"
	"github.com/gogpu/pagecanvas/surface"
)

const (
	minLabelSize = 6
	maxLabelSize = 48

	// maxFaces bounds the label faces a page keeps, one per label size.
	maxFaces = 4
)

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

func newFaceCache() *cache.Cache[float64, font.Face] {
	return cache.New(maxFaces, func(_ float64, f font.Face) {
		_ = f.Close()
	})
}

// labelFace returns the page's label face at size, creating it on first
// use.
func (p *Page) labelFace(size float64) (font.Face, error) {
	return p.faces.GetOrCreate(size, func() (font.Face, error) {
		f, err := regularFont()
		if err != nil {
			return nil, err
		}
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
}

// labelSize returns the font size in pixels for a label inside rect, or 0
// if rect is too small to hold one.
func labelSize(rect image.Rectangle) float64 {
	size := min(rect.Dy()/6, rect.Dx()/4, maxLabelSize)
	if size < minLabelSize {
		return 0
	}
	return float64(size)
}

// drawLabel draws the page label centered in rect of s, clipped to rect.
func (p *Page) drawLabel(s surface.Surface, rect image.Rectangle, ink color.Color) {
	if s == nil || p.label == "" {
		return
	}
	dst := s.Image()
	if dst == nil {
		return
	}
	size := labelSize(rect)
	if size == 0 {
		return
	}

	face, err := p.labelFace(size)
	if err != nil {
		pagecanvas.Logger().Warn("synthpage: label face", "size", size, "err", err)
		return
	}

	clip, ok := dst.SubImage(rect.Intersect(dst.Bounds())).(*image.RGBA)
	if !ok || clip.Bounds().Empty() {
		return
	}

	d := &font.Drawer{
		Dst:  clip,
		Src:  image.NewUniform(ink),
		Face: face,
	}
	width := d.MeasureString(p.label)
	m := face.Metrics()
	center := rect.Min.Add(rect.Size().Div(2))
	d.Dot = fixed.Point26_6{
		X: fixed.I(center.X) - width/2,
		Y: fixed.I(center.Y) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(p.label)
}
