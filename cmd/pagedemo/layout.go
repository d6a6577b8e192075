package main

import (
	"image"

	"github.com/gogpu/pagecanvas"
	"github.com/gogpu/pagecanvas/internal/config"
)

// layoutGrid places pages row by row in a grid of equal cells and returns
// each page's rectangle and the canvas size that holds them.
//
// The cell is as large as the biggest progressive or synchronous page.
// Thumbnail pages and any page bigger than the cell are scaled down to fit
// it, keeping their aspect ratio. Pages rotated a quarter turn swap width
// and height.
func layoutGrid(pages []config.Page, columns, gap int) ([]image.Rectangle, image.Point) {
	if len(pages) == 0 {
		return nil, image.Point{}
	}
	columns = max(min(columns, len(pages)), 1)
	gap = max(gap, 0)

	sizes := make([]image.Point, len(pages))
	var cell image.Point
	for i, p := range pages {
		sizes[i] = pageSize(p)
		flags, _, _ := p.RenderMode()
		if !flags.Thumbnail() {
			cell.X = max(cell.X, sizes[i].X)
			cell.Y = max(cell.Y, sizes[i].Y)
		}
	}
	if cell.X == 0 || cell.Y == 0 {
		for _, s := range sizes {
			cell.X = max(cell.X, s.X)
			cell.Y = max(cell.Y, s.Y)
		}
	}

	rects := make([]image.Rectangle, len(pages))
	for i, s := range sizes {
		col, row := i%columns, i/columns
		origin := image.Pt(gap+col*(cell.X+gap), gap+row*(cell.Y+gap))
		fit := fitInside(s, cell)
		offset := cell.Sub(fit).Div(2)
		at := origin.Add(offset)
		rects[i] = image.Rectangle{Min: at, Max: at.Add(fit)}
	}

	rows := (len(pages) + columns - 1) / columns
	canvas := image.Pt(gap+columns*(cell.X+gap), gap+rows*(cell.Y+gap))
	return rects, canvas
}

// pageSize returns the page size in whole pixels as displayed.
func pageSize(p config.Page) image.Point {
	s := image.Pt(max(int(p.Width), 1), max(int(p.Height), 1))
	if r, ok := pagecanvas.RotationFromDegrees(p.Rotation); ok && r.Degrees()%180 != 0 {
		s.X, s.Y = s.Y, s.X
	}
	return s
}

// fitInside scales s down uniformly until it fits in box. It never scales
// up.
func fitInside(s, box image.Point) image.Point {
	if s.X <= box.X && s.Y <= box.Y {
		return s
	}
	// Compare s.X/box.X with s.Y/box.Y without floating point.
	if s.X*box.Y >= s.Y*box.X {
		return image.Pt(box.X, max(s.Y*box.X/s.X, 1))
	}
	return image.Pt(max(s.X*box.Y/s.Y, 1), box.Y)
}
