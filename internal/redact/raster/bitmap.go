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

// Package raster implements the MRC composer (§4.4) and the
// image-XObject redactor (§4.5): everything downstream of a rendered
// RGBA page bitmap.
package raster

import (
	"image"
	"image/color"
	"math"
)

// ToGray converts img to an 8-bit grayscale view using the standard
// luma weights, matching what the rest of the pipeline (Otsu
// thresholding, JPEG background/foreground encoding in grayscale
// ColorMode) expects.
func ToGray(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}

// OtsuThreshold computes Otsu's optimal binarization threshold (0-255)
// for gray, by maximizing inter-class variance over the pixel
// histogram.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}

	total := len(gray.Pix)
	var sum float64
	for t, n := range hist {
		sum += float64(t) * float64(n)
	}

	var sumB, wB float64
	var maxVar float64
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Binarize applies Otsu thresholding to gray and returns a row-major
// 1-bit mask (one byte per pixel, 0 or 1) where 1 marks a foreground
// (text/line-art, darker-than-threshold) pixel, along with the chosen
// threshold.
func Binarize(gray *image.Gray) (bits []byte, threshold uint8, width, height int) {
	b := gray.Bounds()
	width, height = b.Dx(), b.Dy()
	threshold = OtsuThreshold(gray)
	bits = make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x := 0; x < width; x++ {
			if row[x] <= threshold {
				bits[y*width+x] = 1
			}
		}
	}
	return bits, threshold, width, height
}

// PSNR computes the peak signal-to-noise ratio in dB between two RGBA
// images of identical dimensions, the invariant check of §4.4 step 5.
func PSNR(a, b *image.RGBA) float64 {
	bounds := a.Bounds()
	var sumSq float64
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ca := color.RGBAModel.Convert(a.At(x, y)).(color.RGBA)
			cb := color.RGBAModel.Convert(b.At(x, y)).(color.RGBA)
			for _, d := range [3]float64{
				float64(ca.R) - float64(cb.R),
				float64(ca.G) - float64(cb.G),
				float64(ca.B) - float64(cb.B),
			} {
				sumSq += d * d
				n++
			}
		}
	}
	if n == 0 || sumSq == 0 {
		return 99 // identical images; report a large but finite PSNR
	}
	mse := sumSq / float64(n)
	return 10 * math.Log10(255*255/mse)
}
