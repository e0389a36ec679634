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

// xrefEntry records where one indirect object was found while scanning a
// PDF file body.
type xrefEntry struct {
	Generation uint16
	InStream   Reference // non-zero if the object was unpacked from an object stream
	free       bool
}

// IsFree reports whether the cross-reference entry marks a free (deleted)
// object slot.
func (e xrefEntry) IsFree() bool { return e.free }
