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

package raster

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/tagawa0525/pdf-masking/internal/jbig2"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// Quality bundles the per-job quality configuration consulted by the
// MRC composer (§4.4's "quality configuration {bg_quality, fg_quality,
// fg_dpi}").
type Quality struct {
	DPI       uint32
	FgDPI     uint32
	BgQuality uint8
	FgQuality uint8
	ColorMode model.ColorMode
}

// inpaintRadius is the "8-pixel default" neighborhood of §4.4 step 3,
// expressed as a box-filter radius.
const inpaintRadius = 2

// Compose implements the full-page MRC path (§4.4 "compose"): Otsu
// threshold, JBIG2 mask, median-inpainted JPEG background,
// white-filled-and-downsampled JPEG foreground.
func Compose(page *image.RGBA, q Quality) (*model.MrcOutput, error) {
	gray := ToGray(page)
	bits, _, width, height := Binarize(gray)

	maskBytes, err := jbig2.Encode(bits, width, height)
	if err != nil {
		return nil, rerr.Wrap(rerr.Jbig2Encode, err)
	}

	bg := MedianInpaint(page, bits, width, height, inpaintRadius)
	bgJPEG, err := encodeJPEG(bg, q)
	if err != nil {
		return nil, rerr.Wrap(rerr.JpegEncode, err)
	}

	fg := WhitenForeground(page, bits, width, height)
	factor := 1.0
	if q.FgDPI > 0 && q.DPI > q.FgDPI {
		factor = float64(q.DPI) / float64(q.FgDPI)
	}
	fg = Downsample(fg, factor)
	fgJPEG, err := jpegEncodeAt(fg, int(q.FgQuality))
	if err != nil {
		return nil, rerr.Wrap(rerr.JpegEncode, err)
	}

	return &model.MrcOutput{
		Mask:       maskBytes,
		Background: bgJPEG,
		Foreground: fgJPEG,
		Width:      width,
		Height:     height,
	}, nil
}

// ComposeBW implements the bw compose path (§4.4 "compose_bw"): Otsu
// threshold and JBIG2 mask only, no background/foreground layers.
func ComposeBW(page *image.RGBA) (*model.BWMaskOutput, error) {
	gray := ToGray(page)
	bits, _, width, height := Binarize(gray)
	maskBytes, err := jbig2.Encode(bits, width, height)
	if err != nil {
		return nil, rerr.Wrap(rerr.Jbig2Encode, err)
	}
	return &model.BWMaskOutput{Mask: maskBytes, Width: width, Height: height}, nil
}

// TextMaskedParams bundles the segmentation tuning of §4.4
// "compose_text_masked": the minimum kept-component area in pixels
// and the pixel distance under which adjacent components merge.
type TextMaskedParams struct {
	MinAreaPx  int
	MergeDistPx int
	DPI         uint32
}

const (
	defaultMinAreaPx   = 16 // 4x4px per §4.4
	defaultMergeDistPx = 4
)

// DefaultTextMaskedParams returns the §4.4-prescribed defaults.
func DefaultTextMaskedParams(dpi uint32) TextMaskedParams {
	return TextMaskedParams{MinAreaPx: defaultMinAreaPx, MergeDistPx: defaultMergeDistPx, DPI: dpi}
}

// ComposeTextMasked implements §4.4 "compose_text_masked": segments
// the Otsu mask into connected-component bounding boxes, filters and
// merges them, and JBIG2-encodes each kept box's clipped submask along
// with its page-point BBox.
//
// An empty (nil) slice with a nil error means no text-like regions
// were found; the caller (the orchestrator) then falls back to
// [Compose] per §4.7 step 6, since an empty text-masked result cannot
// represent a page that actually has content.
func ComposeTextMasked(page *image.RGBA, params TextMaskedParams) ([]model.TextRegion, error) {
	gray := ToGray(page)
	bits, _, width, height := Binarize(gray)

	boxes := ConnectedComponents(bits, width, height, params.MinAreaPx, params.MergeDistPx)
	if len(boxes) == 0 {
		return nil, nil
	}

	ptsPerPixel := 72.0 / float64(params.DPI)
	regions := make([]model.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		sub, subW, subH := clipMask(bits, width, height, b)
		encoded, err := jbig2.Encode(sub, subW, subH)
		if err != nil {
			return nil, rerr.Wrap(rerr.Jbig2Encode, err)
		}
		regions = append(regions, model.TextRegion{
			JBIG2:  encoded,
			Width:  subW,
			Height: subH,
			BBox: model.BBox{
				X0: float64(b.x0) * ptsPerPixel,
				Y0: float64(height-b.y1) * ptsPerPixel,
				X1: float64(b.x1) * ptsPerPixel,
				Y1: float64(height-b.y0) * ptsPerPixel,
			},
		})
	}
	return regions, nil
}

// clipMask extracts the sub-rectangle b of a row-major 1-bit mask,
// the from-scratch equivalent of leptonica's clip primitive referenced
// by §4.4.
func clipMask(bits []byte, width, height int, b pixelBox) (sub []byte, w, h int) {
	w, h = b.width(), b.height()
	sub = make([]byte, w*h)
	for y := 0; y < h; y++ {
		srcY := b.y0 + y
		if srcY < 0 || srcY >= height {
			continue
		}
		copy(sub[y*w:(y+1)*w], bits[srcY*width+b.x0:srcY*width+b.x1])
	}
	return sub, w, h
}

func encodeJPEG(img *image.RGBA, q Quality) ([]byte, error) {
	if q.ColorMode == model.ColorGrayscale {
		return jpegEncodeAt(ToGray(img), int(q.BgQuality))
	}
	return jpegEncodeAt(img, int(q.BgQuality))
}

func jpegEncodeAt(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Recompose rebuilds the full-resolution RGBA bitmap implied by an MRC
// triple (mask, background, foreground), used only to evaluate the
// PSNR invariant of §4.4 step 5 against the original rendered page.
func Recompose(out *model.MrcOutput) (*image.RGBA, error) {
	bits, width, height, err := jbig2.Decode(out.Mask)
	if err != nil {
		return nil, rerr.Wrap(rerr.Jbig2Encode, err)
	}
	bg, err := jpeg.Decode(bytes.NewReader(out.Background))
	if err != nil {
		return nil, rerr.Wrap(rerr.JpegEncode, err)
	}
	fgImg, err := jpeg.Decode(bytes.NewReader(out.Foreground))
	if err != nil {
		return nil, rerr.Wrap(rerr.JpegEncode, err)
	}
	fgUp := upsampleTo(toRGBA(fgImg), width, height)

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	bgRGBA := toRGBA(bg)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c image.Image = bgRGBA
			if bits[y*width+x] != 0 {
				c = fgUp
			}
			result.Set(x, y, c.At(x, y))
		}
	}
	return result, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func upsampleTo(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	sx := float64(b.Dx()) / float64(width)
	sy := float64(b.Dy()) / float64(height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			srcX := min(b.Dx()-1, int(float64(x)*sx))
			srcY := min(b.Dy()-1, int(float64(y)*sy))
			out.Set(x, y, img.At(srcX+b.Min.X, srcY+b.Min.Y))
		}
	}
	return out
}
