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
	"image/color"
	"image/jpeg"
	"io"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/jbig2"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// RedactedImage is the result of redacting one image XObject: the
// re-encoded stream bytes, the PDF filter/color-space/bpc metadata the
// writer must record alongside it (§4.5 "the writer records filter
// name, color space, and bits-per-component for each replacement"),
// and whether any pixel was actually changed.
type RedactedImage struct {
	Data            []byte
	Filter          pdf.Name
	ColorSpace      pdf.Name
	BitsPerComponent int
	Changed         bool
}

// RedactImageXObject implements §4.5: given the image stream, its page
// placement bbox, and the page's white-fill rectangles, it overwrites
// pixels under any overlapping rectangle with white and re-encodes.
// A nil result (with nil error) means no rectangle overlapped the
// image and the caller should keep the original stream verbatim.
func RedactImageXObject(r pdf.Getter, stm *pdf.Stream, placement model.BBox, whites []model.WhiteFillRect) (*RedactedImage, error) {
	var overlapping []model.BBox
	for _, w := range whites {
		if placement.Intersects(w.BBox) {
			overlapping = append(overlapping, placement.Intersect(w.BBox))
		}
	}
	if len(overlapping) == 0 {
		return nil, nil
	}

	width, _ := pdf.GetInteger(r, stm.Dict["Width"])
	height, _ := pdf.GetInteger(r, stm.Dict["Height"])
	if width <= 0 || height <= 0 {
		return nil, rerr.New(rerr.ImageXObject, "image stream missing /Width or /Height")
	}

	filterName, bpc, colorSpace, img, err := decodeImage(r, stm, int(width), int(height))
	if err != nil {
		// Best-effort per §4.5's failure mode: leave the stream
		// untouched rather than fail the page.
		return nil, nil
	}

	for _, bb := range overlapping {
		px0, py0, px1, py1 := projectToPixels(bb, placement, int(width), int(height))
		burnWhite(img, px0, py0, px1, py1)
	}

	data, err := reencode(img, filterName, bpc)
	if err != nil {
		return nil, rerr.Wrap(rerr.ImageXObject, err)
	}
	if bpc != 1 {
		// reencode wrote an 8-bit grayscale JPEG.
		filterName, colorSpace = "DCTDecode", "DeviceGray"
	}

	return &RedactedImage{
		Data:             data,
		Filter:           filterName,
		ColorSpace:       colorSpace,
		BitsPerComponent: bpc,
		Changed:          true,
	}, nil
}

// projectToPixels maps a page-point white rectangle (already
// intersected with the image placement) into image-local pixel
// coordinates, flipping Y since PDF user space is bottom-up and pixel
// rows are top-down.
func projectToPixels(bb, placement model.BBox, width, height int) (x0, y0, x1, y1 int) {
	pw := placement.X1 - placement.X0
	ph := placement.Y1 - placement.Y0
	if pw == 0 || ph == 0 {
		return 0, 0, 0, 0
	}
	x0 = int(float64(width) * (bb.X0 - placement.X0) / pw)
	x1 = int(float64(width) * (bb.X1 - placement.X0) / pw)
	y0 = int(float64(height) * (1 - (bb.Y1-placement.Y0)/ph))
	y1 = int(float64(height) * (1 - (bb.Y0-placement.Y0)/ph))
	return clampI(x0, 0, width), clampI(y0, 0, height), clampI(x1, 0, width), clampI(y1, 0, height)
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func burnWhite(img *image.Gray, x0, y0, x1, y1 int) {
	white := color.Gray{Y: 255}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetGray(x, y, white)
		}
	}
}

// decodeImage dispatches on the stream's last filter to decode it into
// an 8-bit grayscale pixel buffer, per the "Decode" column of §4.5's
// filter table. JBIG2Decode goes through the internal run-length
// codec; DCTDecode through the standard library's JPEG decoder.
// FlateDecode/LZWDecode/RunLengthDecode/none decode via the object
// graph's existing [pdf.DecodeStream] (which already honors the PNG
// predictor for FlateDecode) and are treated as raw 8-bit samples.
// CCITTFaxDecode is not implemented (no CCITT codec anywhere in the
// example corpus) and reports an error so the caller leaves the image
// untouched, per §4.5's best-effort failure mode.
func decodeImage(r pdf.Getter, stm *pdf.Stream, width, height int) (filter pdf.Name, bpc int, colorSpace pdf.Name, img *image.Gray, err error) {
	filters, ferr := pdf.GetFilters(r, stm.Dict)
	if ferr != nil {
		return "", 0, "", nil, ferr
	}
	name := pdf.Name("")
	if len(filters) > 0 {
		name, _, _ = filters[len(filters)-1].Info(pdf.GetVersion(r))
	}

	bpc = 8
	if n, e := pdf.GetInteger(r, stm.Dict["BitsPerComponent"]); e == nil {
		bpc = int(n)
	}
	colorSpace, _ = stm.Dict["ColorSpace"].(pdf.Name)

	switch name {
	case "DCTDecode":
		raw, e := pdf.DecodeStream(r, stm, len(filters)-1)
		if e != nil {
			return "", 0, "", nil, e
		}
		data, e := io.ReadAll(raw)
		if e != nil {
			return "", 0, "", nil, e
		}
		decoded, _, e := image.Decode(bytes.NewReader(data))
		if e != nil {
			return "", 0, "", nil, e
		}
		return "DCTDecode", 8, "DeviceGray", toGrayAny(decoded), nil

	case "JBIG2Decode":
		raw, e := pdf.DecodeStream(r, stm, len(filters)-1)
		if e != nil {
			return "", 0, "", nil, e
		}
		data, e := io.ReadAll(raw)
		if e != nil {
			return "", 0, "", nil, e
		}
		bits, w, h, e := jbig2.Decode(data)
		if e != nil {
			return "", 0, "", nil, e
		}
		g := image.NewGray(image.Rect(0, 0, w, h))
		for i, b := range bits {
			if b != 0 {
				g.Pix[i] = 0
			} else {
				g.Pix[i] = 255
			}
		}
		return "JBIG2Decode", 1, "DeviceGray", g, nil

	case "CCITTFaxDecode":
		return "", 0, "", nil, rerr.New(rerr.ImageXObject, "CCITTFaxDecode is not supported")

	default: // FlateDecode, LZWDecode, RunLengthDecode, or no filter
		raw, e := pdf.DecodeStream(r, stm, 0)
		if e != nil {
			return "", 0, "", nil, e
		}
		data, e := io.ReadAll(raw)
		if e != nil {
			return "", 0, "", nil, e
		}
		g := image.NewGray(image.Rect(0, 0, width, height))
		n := min(len(data), width*height)
		copy(g.Pix[:n], data[:n])
		return "FlateDecode", 8, colorSpaceOrGray(colorSpace), g, nil
	}
}

func colorSpaceOrGray(cs pdf.Name) pdf.Name {
	if cs == "" {
		return "DeviceGray"
	}
	return cs
}

func toGrayAny(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g
}

// reencode implements §4.5's re-encode step: 1-bit images (the
// JBIG2Decode case) go through the run-length JBIG2 codec, matching
// §4.5's "a page's bits_per_component=1 images are only tried as JBIG2"
// rule; every other image, whatever its original filter, is re-encoded
// as an 8-bit grayscale JPEG at quality 85.
func reencode(img *image.Gray, filter pdf.Name, bpc int) ([]byte, error) {
	if bpc == 1 {
		b := img.Bounds()
		width, height := b.Dx(), b.Dy()
		bits := make([]byte, width*height)
		for i, v := range img.Pix {
			if v < 128 {
				bits[i] = 1
			}
		}
		return jbig2.Encode(bits, width, height)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
