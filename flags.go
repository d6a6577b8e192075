package pagecanvas

import "strings"

// RenderFlags selects how a page is rendered. Flags are independent bits
// and are passed through to the Page renderer unchanged.
type RenderFlags uint32

const (
	// FlagNormal is the zero value: plain progressive display rendering.
	FlagNormal RenderFlags = 0

	// FlagAnnotations renders annotation appearances.
	FlagAnnotations RenderFlags = 1 << 0

	// FlagLCDText uses subpixel text rendering.
	FlagLCDText RenderFlags = 1 << 1

	// FlagGrayscale renders in grayscale.
	FlagGrayscale RenderFlags = 1 << 2

	// FlagThumbnail renders a scaled thumbnail at native page size.
	FlagThumbnail RenderFlags = 1 << 3

	// FlagHQThumbnail renders a thumbnail at no less than the target
	// rectangle size before scaling.
	FlagHQThumbnail RenderFlags = 1 << 4
)

var flagNames = []struct {
	flag RenderFlags
	name string
}{
	{FlagAnnotations, "annotations"},
	{FlagLCDText, "lcdtext"},
	{FlagGrayscale, "grayscale"},
	{FlagThumbnail, "thumbnail"},
	{FlagHQThumbnail, "hqthumbnail"},
}

// Has reports whether all bits of flag are set in f.
func (f RenderFlags) Has(flag RenderFlags) bool {
	return f&flag == flag
}

// Thumbnail reports whether either thumbnail flag is set.
func (f RenderFlags) Thumbnail() bool {
	return f&(FlagThumbnail|FlagHQThumbnail) != 0
}

// String returns the set flag names joined by "|", or "normal".
func (f RenderFlags) String() string {
	if f == FlagNormal {
		return "normal"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		names = append(names, "unknown")
	}
	return strings.Join(names, "|")
}

// ParseRenderFlags parses names as produced by String. Unknown names
// yield false.
func ParseRenderFlags(names ...string) (RenderFlags, bool) {
	var f RenderFlags
	for _, n := range names {
		if n == "" || n == "normal" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return f, true
}

// Rotation is the page orientation passed to the renderer.
type Rotation uint8

const (
	// Rotate0 is the normal orientation.
	Rotate0 Rotation = iota
	// Rotate90 rotates 90 degrees clockwise.
	Rotate90
	// Rotate180 rotates 180 degrees.
	Rotate180
	// Rotate270 rotates 90 degrees counter-clockwise.
	Rotate270
)

// Degrees returns the clockwise rotation angle.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// RotationFromDegrees converts a multiple of 90 to a Rotation.
// Negative angles rotate counter-clockwise.
func RotationFromDegrees(deg int) (Rotation, bool) {
	if deg%90 != 0 {
		return Rotate0, false
	}
	q := ((deg/90)%4 + 4) % 4
	return Rotation(q), true
}
