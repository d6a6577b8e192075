// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ErrInvalidDimensions is returned when width or height is not positive.
var ErrInvalidDimensions = errors.New("surface: invalid dimensions")

// Filter specifies the interpolation mode for image scaling.
type Filter uint8

const (
	// FilterNearest uses nearest-neighbor interpolation.
	FilterNearest Filter = iota

	// FilterBilinear uses approximate bilinear interpolation.
	FilterBilinear

	// FilterCatmullRom uses Catmull-Rom cubic interpolation.
	// Slowest, but the best choice for downscaled page thumbnails.
	FilterCatmullRom
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmullrom"
	default:
		return "unknown"
	}
}

// ParseFilter returns the Filter named s. Unknown names yield false.
func ParseFilter(s string) (Filter, bool) {
	switch s {
	case "nearest":
		return FilterNearest, true
	case "bilinear":
		return FilterBilinear, true
	case "catmullrom", "catmull-rom":
		return FilterCatmullRom, true
	default:
		return FilterNearest, false
	}
}

// scaler maps f to an x/image/draw scaler.
func (f Filter) scaler() xdraw.Scaler {
	switch f {
	case FilterBilinear:
		return xdraw.ApproxBiLinear
	case FilterCatmullRom:
		return xdraw.CatmullRom
	default:
		return xdraw.NearestNeighbor
	}
}

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Alpha keeps an alpha channel. When false the surface starts out
	// opaque and Background (or white) fills it.
	Alpha bool

	// Background is the initial fill color.
	// Default: transparent for alpha surfaces, white otherwise.
	Background color.Color
}

// DefaultOptions returns Options with default values.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:  width,
		Height: height,
		Alpha:  true,
	}
}
