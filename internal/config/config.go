// Package config loads pagedemo scene files.
//
// A scene is a TOML document describing the canvas, the paint-cycle
// settings and the pages to render:
//
//	[render]
//	wait_time = "70ms"
//	max_cycles = 200
//	columns = 3
//
//	[[page]]
//	label = "Cover"
//	width = 210
//	height = 297
//	steps = 6
//	mode = "progressive"
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/pagecanvas"
	"github.com/gogpu/pagecanvas/surface"
)

// Validation errors.
var (
	ErrNoPages         = errors.New("config: scene has no pages")
	ErrInvalidSize     = errors.New("config: invalid size")
	ErrInvalidMode     = errors.New("config: invalid render mode")
	ErrInvalidFlag     = errors.New("config: invalid render flag")
	ErrInvalidRotation = errors.New("config: invalid rotation")
	ErrInvalidFilter   = errors.New("config: invalid filter")
	ErrInvalidBackend  = errors.New("config: invalid surface backend")
	ErrInvalidSteps    = errors.New("config: invalid step count")
	ErrUnknownKey      = errors.New("config: unknown key")
)

// Render modes accepted in a page's mode key.
const (
	ModeProgressive = "progressive"
	ModeSync        = "sync"
	ModeThumbnail   = "thumbnail"
	ModeHQThumbnail = "hq-thumbnail"
)

// Defaults filled in for keys a scene leaves out.
const (
	DefaultMaxCycles = 1000
	DefaultColumns   = 3
	DefaultGap       = 8
	DefaultSteps     = 4
	DefaultOutput    = "pagedemo.png"
	DefaultFilter    = "catmullrom"
)

// Duration is a time.Duration read from a TOML string such as "70ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Scene is a parsed scene file.
type Scene struct {
	Canvas Canvas `toml:"canvas"`
	Render Render `toml:"render"`
	Pages  []Page `toml:"page"`
}

// Canvas sets the canvas size. Zero values are computed from the page
// grid.
type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Render holds the paint-cycle settings.
type Render struct {
	WaitTime  Duration `toml:"wait_time"`
	MaxCycles int      `toml:"max_cycles"`
	Columns   int      `toml:"columns"`
	Gap       int      `toml:"gap"`
	Filter    string   `toml:"filter"`
	Output    string   `toml:"output"`

	// Backend names the surface backend for the canvas. Empty picks the
	// best available one.
	Backend string `toml:"backend"`
}

// Page describes one synthetic page.
type Page struct {
	Label     string   `toml:"label"`
	Width     float64  `toml:"width"`
	Height    float64  `toml:"height"`
	Steps     *int     `toml:"steps"`
	FailAt    int      `toml:"fail_at"`
	StepDelay Duration `toml:"step_delay"`
	Mode      string   `toml:"mode"`
	Flags     []string `toml:"flags"`
	Rotation  int      `toml:"rotation"`
}

const defaultSceneTOML = `# pagedemo default scene
[render]
wait_time = "70ms"
max_cycles = 1000
columns = 3
gap = 8
filter = "catmullrom"
output = "pagedemo.png"
backend = "image"

[[page]]
label = "Cover"
width = 210
height = 297
steps = 6
step_delay = "15ms"

[[page]]
label = "Contents"
width = 210
height = 297
steps = 4
step_delay = "15ms"
flags = ["annotations"]

[[page]]
label = "Chapter 1"
width = 210
height = 297
steps = 8
step_delay = "15ms"

[[page]]
label = "Broken"
width = 210
height = 297
steps = 6
fail_at = 3

[[page]]
label = "Landscape"
width = 297
height = 210
steps = 4
rotation = 90

[[page]]
label = "Index"
width = 420
height = 594
mode = "thumbnail"
`

// Default returns the built-in demo scene.
func Default() *Scene {
	s, err := Parse(defaultSceneTOML)
	if err != nil {
		panic(fmt.Sprintf("config: default scene: %v", err))
	}
	return s
}

// Load reads, defaults and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read scene: %w", err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes, defaults and validates a scene document. Keys the scene
// types do not define are rejected.
func Parse(data string) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("config: decode scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) applyDefaults() {
	r := &s.Render
	if r.WaitTime.Duration == 0 {
		r.WaitTime.Duration = pagecanvas.DefaultWaitTime
	}
	if r.MaxCycles == 0 {
		r.MaxCycles = DefaultMaxCycles
	}
	if r.Columns == 0 {
		r.Columns = DefaultColumns
	}
	if r.Gap == 0 {
		r.Gap = DefaultGap
	}
	if r.Filter == "" {
		r.Filter = DefaultFilter
	}
	if r.Output == "" {
		r.Output = DefaultOutput
	}

	for i := range s.Pages {
		p := &s.Pages[i]
		if p.Steps == nil {
			n := DefaultSteps
			p.Steps = &n
		}
		if p.Mode == "" {
			p.Mode = ModeProgressive
		}
		if p.Label == "" {
			p.Label = fmt.Sprintf("Page %d", i+1)
		}
	}
}

// Validate checks the scene for values the demo cannot render.
func (s *Scene) Validate() error {
	if len(s.Pages) == 0 {
		return ErrNoPages
	}
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidSize, s.Canvas.Width, s.Canvas.Height)
	}
	r := s.Render
	if r.WaitTime.Duration < 0 || r.MaxCycles < 0 || r.Columns < 0 || r.Gap < 0 {
		return fmt.Errorf("config: render settings must not be negative")
	}
	if _, ok := surface.ParseFilter(r.Filter); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, r.Filter)
	}
	if r.Backend != "" {
		b, ok := surface.Lookup(r.Backend)
		if !ok {
			return fmt.Errorf("%w: %q not registered", ErrInvalidBackend, r.Backend)
		}
		// The canvas keeps an alpha channel.
		if !b.Alpha {
			return fmt.Errorf("%w: %q has no alpha channel", ErrInvalidBackend, r.Backend)
		}
	}

	for i, p := range s.Pages {
		if err := p.validate(); err != nil {
			return fmt.Errorf("page %d (%s): %w", i+1, p.Label, err)
		}
	}
	return nil
}

func (p Page) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, p.Width, p.Height)
	}
	if p.Steps != nil && *p.Steps < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSteps, *p.Steps)
	}
	if p.FailAt < 0 {
		return fmt.Errorf("%w: fail_at %d", ErrInvalidSteps, p.FailAt)
	}
	if _, _, err := p.RenderMode(); err != nil {
		return err
	}
	if _, ok := pagecanvas.RotationFromDegrees(p.Rotation); !ok {
		return fmt.Errorf("%w: %d", ErrInvalidRotation, p.Rotation)
	}
	return nil
}

// RenderMode returns the flags and progressive switch for the page's mode
// and flag list.
func (p Page) RenderMode() (flags pagecanvas.RenderFlags, progressive bool, err error) {
	flags, ok := pagecanvas.ParseRenderFlags(p.Flags...)
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidFlag, p.Flags)
	}

	switch p.Mode {
	case ModeProgressive, "":
		return flags, true, nil
	case ModeSync:
		return flags, false, nil
	case ModeThumbnail:
		return flags | pagecanvas.FlagThumbnail, true, nil
	case ModeHQThumbnail:
		return flags | pagecanvas.FlagHQThumbnail, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidMode, p.Mode)
	}
}

// StepCount returns the configured step count or DefaultSteps.
func (p Page) StepCount() int {
	if p.Steps == nil {
		return DefaultSteps
	}
	return *p.Steps
}

// ThumbnailFilter returns the parsed thumbnail filter.
func (r Render) ThumbnailFilter() surface.Filter {
	f, ok := surface.ParseFilter(r.Filter)
	if !ok {
		return surface.FilterCatmullRom
	}
	return f
}

// SurfaceFactory returns the factory for the configured backend.
func (r Render) SurfaceFactory() surface.Factory {
	if r.Backend == "" {
		return surface.DefaultFactory
	}
	return surface.FactoryByName(r.Backend)
}
