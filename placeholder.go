// github.com/tagawa0525/pdf-masking - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

package pdf

import "io"

// Placeholder reserves an indirect reference for a value which is not yet
// known when it is first referenced (e.g. the length of a stream still
// being written). The caller fills in the real value later, using [Set].
//
// A Placeholder can be used anywhere an [Object] is expected: it encodes as
// an indirect reference to its eventual value.
type Placeholder struct {
	w    *Writer
	ref  Reference
	size int
}

// NewPlaceholder reserves a new placeholder object. size is a hint for the
// maximum encoded length of the eventual value; callers targeting a
// seekable stream may use it to reserve space inline instead of writing an
// indirect object, but this Writer always buffers output, so the value is
// deferred to an indirect object regardless of size.
func NewPlaceholder(w *Writer, size int) *Placeholder {
	return &Placeholder{w: w, ref: w.Alloc(), size: size}
}

// Set fills in the value represented by the placeholder.
func (p *Placeholder) Set(val Object) error {
	return p.w.Put(p.ref, val)
}

// Ref returns the indirect reference used to represent this placeholder.
func (p *Placeholder) Ref() Reference { return p.ref }

func (p *Placeholder) AsPDF(OutputOptions) Native { return p.ref }

func (p *Placeholder) PDF(w io.Writer) error { return p.ref.PDF(w) }
