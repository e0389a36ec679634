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

// MetaInfo collects the document-level information associated with a PDF
// file: its version, document catalog, information dictionary, and file
// identifier.
type MetaInfo struct {
	Version Version
	Catalog *Catalog
	Info    *Info
	ID      [][]byte

	// Trailer holds the raw trailer dictionary as found in the file, for
	// callers which need entries beyond Root/Info/ID (e.g. /Encrypt).
	Trailer Dict
}

// Putter represents a PDF file opened for writing.
type Putter interface {
	Getter

	// Alloc allocates an object number for a new indirect object.
	Alloc() Reference

	// Put writes obj under the given reference. Passing obj == nil deletes
	// the object.
	Put(ref Reference, obj Object) error

	// OpenStream opens a new stream object for writing, applying the given
	// filters (outermost first) to data written to the result.
	OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error)

	// GetOptions returns the output options used when encoding objects.
	GetOptions() OutputOptions
}
