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

import "sort"

// pixelBox is a bounding box in pixel (not page-point) coordinates.
type pixelBox struct {
	x0, y0, x1, y1 int // half-open: [x0,x1) x [y0,y1)
}

func (b pixelBox) width() int  { return b.x1 - b.x0 }
func (b pixelBox) height() int { return b.y1 - b.y0 }

func (b pixelBox) union(o pixelBox) pixelBox {
	return pixelBox{
		x0: min(b.x0, o.x0), y0: min(b.y0, o.y0),
		x1: max(b.x1, o.x1), y1: max(b.y1, o.y1),
	}
}

// distance returns the gap (in pixels) between two boxes along each
// axis; 0 if they overlap or touch on that axis.
func (b pixelBox) distance(o pixelBox) int {
	dx := 0
	if o.x0 > b.x1 {
		dx = o.x0 - b.x1
	} else if b.x0 > o.x1 {
		dx = b.x0 - o.x1
	}
	dy := 0
	if o.y0 > b.y1 {
		dy = o.y0 - b.y1
	} else if b.y0 > o.y1 {
		dy = b.y0 - o.y1
	}
	if dx > dy {
		return dx
	}
	return dy
}

// ConnectedComponents finds 4-connected foreground (bits[i]!=0) runs
// in a width×height 1-bit mask via union-find, then returns their
// bounding boxes, filtered to minArea (width*height >= minArea, the
// "4x4px minimum area" of §4.4) and merged pairwise while any two
// remaining boxes are within mergeDist pixels of each other.
func ConnectedComponents(bits []byte, width, height, minArea, mergeDist int) []pixelBox {
	labels := make([]int, width*height)
	uf := newUnionFind(width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if bits[idx] == 0 {
				continue
			}
			labels[idx] = idx + 1 // 1-based; 0 means "no label"
			if x > 0 && bits[idx-1] != 0 {
				uf.union(idx, idx-1)
			}
			if y > 0 && bits[idx-width] != 0 {
				uf.union(idx, idx-width)
			}
		}
	}

	boxes := map[int]*pixelBox{}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if bits[idx] == 0 {
				continue
			}
			root := uf.find(idx)
			b, ok := boxes[root]
			if !ok {
				b = &pixelBox{x0: x, y0: y, x1: x + 1, y1: y + 1}
				boxes[root] = b
				continue
			}
			if x < b.x0 {
				b.x0 = x
			}
			if x+1 > b.x1 {
				b.x1 = x + 1
			}
			if y < b.y0 {
				b.y0 = y
			}
			if y+1 > b.y1 {
				b.y1 = y + 1
			}
		}
	}

	var kept []pixelBox
	for _, b := range boxes {
		if b.width()*b.height() >= minArea {
			kept = append(kept, *b)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].y0 != kept[j].y0 {
			return kept[i].y0 < kept[j].y0
		}
		return kept[i].x0 < kept[j].x0
	})

	return mergeBoxes(kept, mergeDist)
}

// mergeBoxes repeatedly unions any pair of boxes within dist pixels
// until no more merges apply.
func mergeBoxes(boxes []pixelBox, dist int) []pixelBox {
	if dist <= 0 {
		return boxes
	}
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].distance(boxes[j]) <= dist {
					boxes[i] = boxes[i].union(boxes[j])
					boxes = append(boxes[:j], boxes[j+1:]...)
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
	return boxes
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
