// github.com/tagawa0525/pdf-masking - a library for reading and writing PDF files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package model holds the data-model types shared across the
// redaction pipeline (§3 of the design document): ColorMode, BBox,
// image placements, white-fill rectangles, and the PageOutput tagged
// union.
package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ColorMode selects how a page is redacted.
type ColorMode int

const (
	ColorRGB ColorMode = iota
	ColorGrayscale
	ColorBW
	ColorSkip
)

func (m ColorMode) String() string {
	switch m {
	case ColorRGB:
		return "rgb"
	case ColorGrayscale:
		return "grayscale"
	case ColorBW:
		return "bw"
	case ColorSkip:
		return "skip"
	default:
		return "rgb"
	}
}

// ParseColorMode parses the wire form used by job/settings YAML and
// the cache-key JSON.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "rgb":
		return ColorRGB, nil
	case "grayscale":
		return ColorGrayscale, nil
	case "bw":
		return ColorBW, nil
	case "skip":
		return ColorSkip, nil
	default:
		return 0, fmt.Errorf("model: invalid color_mode %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ColorMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m ColorMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// BBox is an axis-aligned bounding box in page-point space.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Intersects reports whether b and other overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 && b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Intersect returns the overlapping region of b and other. The caller
// must check [BBox.Intersects] first; a non-overlapping pair yields a
// degenerate (inverted) box.
func (b BBox) Intersect(other BBox) BBox {
	return BBox{
		X0: max(b.X0, other.X0),
		Y0: max(b.Y0, other.Y0),
		X1: min(b.X1, other.X1),
		Y1: min(b.Y1, other.Y1),
	}
}

// ImagePlacement records where an image XObject is painted on a page.
type ImagePlacement struct {
	XObjectName string
	BBox        BBox
}

// WhiteFillRect records an axis-aligned opaque-white filled rectangle
// detected by the content-stream analyzer.
type WhiteFillRect struct {
	BBox BBox
}

// PageOutputKind discriminates the PageOutput tagged union.
type PageOutputKind int

const (
	OutputOutlines PageOutputKind = iota
	OutputTextMasked
	OutputMrc
	OutputBWMask
	OutputSkip
)

func (k PageOutputKind) String() string {
	switch k {
	case OutputOutlines:
		return "Outlines"
	case OutputTextMasked:
		return "TextMasked"
	case OutputMrc:
		return "Mrc"
	case OutputBWMask:
		return "BwMask"
	case OutputSkip:
		return "Skip"
	default:
		return "Unknown"
	}
}

// TextRegion is one segmented text-masked region (§4.4
// compose_text_masked): a 1-bit JBIG2 submask and its page-point BBox.
type TextRegion struct {
	JBIG2         []byte
	BBox          BBox
	Width, Height int // pixel dimensions of the JBIG2-encoded submask
}

// ImagePatch records a redacted image-XObject replacement (§4.5) to be
// spliced into an Outlines or TextMasked page's copied /Resources
// dictionary, in place of the original (unmodified) XObject stream.
type ImagePatch struct {
	XObjectName      string
	Data             []byte
	Filter           string
	ColorSpace       string
	BitsPerComponent int
	Width, Height    int
}

// OutlinesOutput carries the replacement content-stream bytes for the
// Outlines PageOutput variant.
type OutlinesOutput struct {
	Content []byte
}

// TextMaskedOutput carries the stripped content stream plus the
// segmented text regions for the TextMasked PageOutput variant.
type TextMaskedOutput struct {
	Content []byte
	Regions []TextRegion
}

// MrcOutput carries the three MRC layers for the Mrc PageOutput
// variant.
type MrcOutput struct {
	Mask       []byte // JBIG2
	Background []byte // JPEG
	Foreground []byte // JPEG
	Width      int
	Height     int
}

// BWMaskOutput carries the single full-page JBIG2 mask for the
// BwMask PageOutput variant.
type BWMaskOutput struct {
	Mask   []byte
	Width  int
	Height int
}

// SkipOutput marks a page that is carried through unmodified.
type SkipOutput struct{}

// PageOutput is the closed per-page result, dispatched on Kind.
type PageOutput struct {
	Kind       PageOutputKind
	Outlines   *OutlinesOutput
	TextMasked *TextMaskedOutput
	Mrc        *MrcOutput
	BWMask     *BWMaskOutput
	Skip       *SkipOutput

	// ImagePatches carries redacted replacements for image XObjects
	// that the page's content stream still references directly
	// (Outlines and TextMasked only; Mrc and BwMask rasterize the
	// whole page and so never preserve the original XObjects).
	ImagePatches []ImagePatch

	// Warnings holds non-fatal issues for logging. No stage of the
	// pipeline appends to it; dropped clipping text-rendering modes and
	// unanalyzed Form XObjects are not recorded here.
	Warnings []string
}
