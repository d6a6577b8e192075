// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// ErrSurfaceClosed is returned when output is requested from a closed surface.
var ErrSurfaceClosed = errors.New("surface: surface is closed")

// ImageSurface is a CPU-based surface that stores pixels in an *image.RGBA.
//
// This is the default surface implementation.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.FillRect(image.Rect(0, 0, 800, 600), color.White)
//	s.FillRect(image.Rect(100, 100, 300, 200), color.RGBA{255, 0, 0, 255})
//
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	alpha  bool
	img    *image.RGBA

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new alpha-capable surface with the given
// dimensions. Non-positive dimensions are clamped to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return &ImageSurface{
		width:  width,
		height: height,
		alpha:  true,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewImageSurfaceWithOptions creates a surface from opts.
// Unlike NewImageSurface it rejects non-positive dimensions.
func NewImageSurfaceWithOptions(opts Options) (*ImageSurface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, opts.Width, opts.Height)
	}

	s := &ImageSurface{
		width:  opts.Width,
		height: opts.Height,
		alpha:  opts.Alpha,
		img:    image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}

	bg := opts.Background
	if bg == nil && !opts.Alpha {
		bg = color.White
	}
	if bg != nil {
		s.Clear(bg)
	}
	return s, nil
}

// NewImageSurfaceFromImage creates a surface backed by an existing image.
// The surface will render into the provided image directly.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	bounds := img.Bounds()
	return &ImageSurface{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		alpha:  true,
		img:    img,
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// HasAlpha reports whether the surface was created alpha-capable.
func (s *ImageSurface) HasAlpha() bool {
	return s.alpha
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	s.FillRect(s.img.Bounds(), c)
}

// FillRect replaces the pixels of r with c. The rectangle is clipped to
// the surface; an empty intersection is a no-op.
func (s *ImageSurface) FillRect(r image.Rectangle, c color.Color) {
	if s.closed || c == nil {
		return
	}
	r = r.Canon().Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, &image.Uniform{C: s.opaque(c)}, image.Point{}, draw.Src)
}

// DrawScaled composites src over the surface, scaled into dst.
func (s *ImageSurface) DrawScaled(src image.Image, dst image.Rectangle, f Filter) {
	if s.closed || src == nil {
		return
	}
	dst = dst.Canon()
	if dst.Empty() || src.Bounds().Empty() {
		return
	}
	f.scaler().Scale(s.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Image returns the underlying image.RGBA.
// This is a direct reference, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	if s.closed {
		return nil
	}
	return s.img
}

// SavePNG writes the surface contents to a PNG file.
func (s *ImageSurface) SavePNG(path string) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	return WritePNG(path, s)
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

// opaque drops the alpha channel of c on surfaces without one.
func (s *ImageSurface) opaque(c color.Color) color.Color {
	if s.alpha {
		return c
	}
	r, g, b, _ := c.RGBA()
	//nolint:gosec // G115: safe - r>>8 is always in [0, 255]
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

// WritePNG writes the contents of any Surface to a PNG file.
func WritePNG(path string, s Surface) error {
	img := s.Image()
	if img == nil {
		return ErrSurfaceClosed
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("surface: encode %s: %w", path, err)
	}
	return f.Close()
}
