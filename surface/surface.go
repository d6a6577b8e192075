// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
)

// Surface is a fixed-size pixel buffer that pages render into and that
// thumbnails are composited onto.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
//
// Example usage:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.FillRect(image.Rect(0, 0, 800, 600), color.White)
//	img := s.Snapshot()
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// FillRect replaces every pixel of r (clipped to the surface) with c.
	FillRect(r image.Rectangle, c color.Color)

	// DrawScaled composites src, scaled to fit dst, over the surface.
	DrawScaled(src image.Image, dst image.Rectangle, f Filter)

	// Image returns the backing image. Renderers draw into it directly.
	// Returns nil after Close.
	Image() *image.RGBA

	// Snapshot returns a copy of the current surface contents.
	// Returns nil after Close.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// After Close, the surface must not be used.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Size returns the dimensions of s as a point.
func Size(s Surface) image.Point {
	if s == nil {
		return image.Point{}
	}
	return image.Pt(s.Width(), s.Height())
}
