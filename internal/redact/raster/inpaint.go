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

import "image"

// MedianInpaint replaces every pixel where mask[y*w+x] != 0 by the
// per-channel median of its neighborhood pixels (radius in pixels,
// the "8-pixel default" neighborhood of §4.4 step 3 corresponds to
// radius 1 applied twice, or a larger radius in one pass; callers pick
// whichever matches their quality/speed tradeoff). Background pixels
// (mask == 0) are left untouched and also serve as the only sampled
// values, so masked regions are filled purely from surrounding
// unmasked context.
func MedianInpaint(img *image.RGBA, mask []byte, width, height, radius int) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y*width+x] == 0 {
				continue
			}
			r, g, b, a := medianNeighborhood(img, mask, x, y, width, height, radius)
			i := out.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = a
		}
	}
	return out
}

func medianNeighborhood(img *image.RGBA, mask []byte, x, y, width, height, radius int) (r, g, b, a byte) {
	var rs, gs, bs, as []byte
	for dy := -radius; dy <= radius; dy++ {
		ny := y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := x + dx
			if nx < 0 || nx >= width {
				continue
			}
			if mask[ny*width+nx] != 0 {
				continue // only sample background context
			}
			i := img.PixOffset(nx+img.Rect.Min.X, ny+img.Rect.Min.Y)
			rs = append(rs, img.Pix[i+0])
			gs = append(gs, img.Pix[i+1])
			bs = append(bs, img.Pix[i+2])
			as = append(as, img.Pix[i+3])
		}
	}
	if len(rs) == 0 {
		return 255, 255, 255, 255 // fully masked neighborhood: fall back to white
	}
	return median(rs), median(gs), median(bs), median(as)
}

func median(vals []byte) byte {
	sorted := append([]byte(nil), vals...)
	for i := 1; i < len(sorted); i++ {
		v := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > v {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = v
	}
	return sorted[len(sorted)/2]
}

// WhitenForeground returns a copy of img with every pixel where
// mask[y*w+x] == 0 set to white, per §4.4 step 4 ("set pixels where
// the mask is clear to white").
func WhitenForeground(img *image.RGBA, mask []byte, width, height int) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y*width+x] != 0 {
				continue
			}
			i := out.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			out.Pix[i+0], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 255, 255, 255, 255
		}
	}
	return out
}

// Downsample reduces img by an integer-ish factor using area
// averaging (§4.4 step 4, "downsample ... with area averaging").
// factor is typically dpi/fg_dpi and may be fractional; this box-filter
// implementation accepts any factor > 1.
func Downsample(img *image.RGBA, factor float64) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	dstW := max(1, int(float64(srcW)/factor))
	dstH := max(1, int(float64(srcH)/factor))
	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	for dy := 0; dy < dstH; dy++ {
		y0 := int(float64(dy) * factor)
		y1 := min(srcH, int(float64(dy+1)*factor))
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for dx := 0; dx < dstW; dx++ {
			x0 := int(float64(dx) * factor)
			x1 := min(srcW, int(float64(dx+1)*factor))
			if x1 <= x0 {
				x1 = x0 + 1
			}
			var rs, gs, bs, as, n int
			for sy := y0; sy < y1 && sy < srcH; sy++ {
				for sx := x0; sx < x1 && sx < srcW; sx++ {
					i := img.PixOffset(sx+b.Min.X, sy+b.Min.Y)
					rs += int(img.Pix[i+0])
					gs += int(img.Pix[i+1])
					bs += int(img.Pix[i+2])
					as += int(img.Pix[i+3])
					n++
				}
			}
			if n == 0 {
				continue
			}
			i := out.PixOffset(dx, dy)
			out.Pix[i+0] = byte(rs / n)
			out.Pix[i+1] = byte(gs / n)
			out.Pix[i+2] = byte(bs / n)
			out.Pix[i+3] = byte(as / n)
		}
	}
	return out
}
