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
	"image"
	"image/color"
	"testing"

	"github.com/tagawa0525/pdf-masking/internal/redact/model"
)

func checkerboardPage(w, h, block int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x/block+y/block)%2 == 0 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestOtsuSeparatesBlackAndWhite(t *testing.T) {
	img := checkerboardPage(32, 32, 8)
	gray := ToGray(img)
	bits, threshold, w, h := Binarize(gray)
	if threshold == 0 || threshold == 255 {
		t.Fatalf("degenerate threshold %d", threshold)
	}
	if w != 32 || h != 32 {
		t.Fatalf("got dims %dx%d", w, h)
	}
	// Corner pixel (0,0) is black in this pattern.
	if bits[0] != 1 {
		t.Fatalf("expected foreground pixel at origin")
	}
}

func TestComposeBWRoundTrips(t *testing.T) {
	img := checkerboardPage(16, 16, 4)
	out, err := ComposeBW(img)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 16 || out.Height != 16 {
		t.Fatalf("got dims %dx%d", out.Width, out.Height)
	}
	if len(out.Mask) == 0 {
		t.Fatal("empty mask")
	}
}

func TestComposePSNRInvariant(t *testing.T) {
	// An all-white page: the recomposed mask/background/foreground
	// triple must satisfy the >= 30dB invariant of §4.4 step 5.
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	out, err := Compose(img, Quality{DPI: 100, FgDPI: 100, BgQuality: 80, FgQuality: 80, ColorMode: model.ColorRGB})
	if err != nil {
		t.Fatal(err)
	}
	recomposed, err := Recompose(out)
	if err != nil {
		t.Fatal(err)
	}
	psnr := PSNR(img, recomposed)
	if psnr < 30 {
		t.Fatalf("PSNR %.1fdB below 30dB invariant", psnr)
	}
}

func TestConnectedComponentsFiltersSmallAndMerges(t *testing.T) {
	width, height := 20, 20
	bits := make([]byte, width*height)
	// A 5x5 block (kept) and a 1x1 speck far away (dropped by min area).
	for y := 2; y < 7; y++ {
		for x := 2; x < 7; x++ {
			bits[y*width+x] = 1
		}
	}
	bits[18*width+18] = 1

	boxes := ConnectedComponents(bits, width, height, 16, 0)
	if len(boxes) != 1 {
		t.Fatalf("expected 1 surviving component, got %d", len(boxes))
	}
	if boxes[0].width() != 5 || boxes[0].height() != 5 {
		t.Fatalf("got box %+v", boxes[0])
	}
}

func TestConnectedComponentsMergesNearby(t *testing.T) {
	width, height := 20, 10
	bits := make([]byte, width*height)
	for y := 2; y < 6; y++ {
		bits[y*width+2] = 1
		bits[y*width+3] = 1
		bits[y*width+4] = 1
		bits[y*width+5] = 1

		bits[y*width+10] = 1
		bits[y*width+11] = 1
		bits[y*width+12] = 1
		bits[y*width+13] = 1
	}
	far := ConnectedComponents(bits, width, height, 16, 1)
	if len(far) != 2 {
		t.Fatalf("expected 2 components with mergeDist=1, got %d", len(far))
	}
	near := ConnectedComponents(bits, width, height, 16, 10)
	if len(near) != 1 {
		t.Fatalf("expected 1 merged component with mergeDist=10, got %d", len(near))
	}
}
