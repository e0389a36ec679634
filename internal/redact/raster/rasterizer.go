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
	"sync"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/converter"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// Rasterizer renders one page of a PDF to an RGBA8 bitmap at the given
// DPI (§6's "external rasterizer interface"). A page index is
// 0-based.
type Rasterizer interface {
	Render(r pdf.Getter, pageIndex int, dpi uint32) (*image.RGBA, error)
}

// nativeRasterizer renders in-process using this module's own content
// interpreter (package converter) rather than shelling out to an
// external renderer binary: the object graph, font subsystem, and path
// rasterizer this repository already carries (golang.org/x/image/vector)
// make an in-process implementation of §6's rasterizer contract both
// possible and preferable to a process-exec adapter with no real
// external tool to call into.
//
// Per §5, the rasterizer is treated as a process-wide singleton with
// its own synchronization; nativeRasterizer's mutex plays that role
// since package converter's rendering path is not documented as
// reentrant across goroutines.
type nativeRasterizer struct {
	mu sync.Mutex
}

// NewNativeRasterizer returns the process-wide default [Rasterizer].
func NewNativeRasterizer() Rasterizer {
	return &nativeRasterizer{}
}

func (n *nativeRasterizer) Render(r pdf.Getter, pageIndex int, dpi uint32) (*image.RGBA, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := converter.NewConverter(r)
	img, err := c.RenderPageToImage(pageIndex+1, float64(dpi))
	if err != nil {
		return nil, rerr.Wrap(rerr.Render, err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return rgba, nil
}
