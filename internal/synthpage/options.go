package synthpage

import (
	"image/color"
	"time"
)

// DefaultSteps is the number of continue steps a page takes by default.
const DefaultSteps = 4

var defaultBands = []color.Color{
	color.RGBA{R: 0xd6, G: 0xe4, B: 0xf0, A: 0xff},
	color.RGBA{R: 0xb3, G: 0xcd, B: 0xe3, A: 0xff},
	color.RGBA{R: 0x8c, G: 0xb4, B: 0xd6, A: 0xff},
	color.RGBA{R: 0x64, G: 0x9a, B: 0xc8, A: 0xff},
}

// Option configures a Page.
type Option func(*Page)

// WithLabel sets the text drawn on the finished page.
// Default: the first eight characters of the page ID.
func WithLabel(label string) Option {
	return func(p *Page) {
		p.label = label
	}
}

// WithSteps sets how many continue steps a progressive render takes.
// Zero makes BeginProgressiveRender finish the page. Negative values are
// ignored.
func WithSteps(n int) Option {
	return func(p *Page) {
		if n >= 0 {
			p.steps = n
		}
	}
}

// WithFailAt makes continue step n (1-based) report StatusFailed.
// Zero disables failure injection.
func WithFailAt(n int) Option {
	return func(p *Page) {
		p.failAt = max(n, 0)
	}
}

// WithStepDelay makes every continue step sleep for d, simulating
// renderer work.
func WithStepDelay(d time.Duration) Option {
	return func(p *Page) {
		p.delay = max(d, 0)
	}
}

// WithBands sets the band colors, cycled when there are more steps than
// colors. An empty list is ignored.
func WithBands(colors ...color.Color) Option {
	return func(p *Page) {
		if len(colors) > 0 {
			p.bands = colors
		}
	}
}

// WithInk sets the label color.
func WithInk(c color.Color) Option {
	return func(p *Page) {
		if c != nil {
			p.ink = c
		}
	}
}
