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

import "fmt"

// Version represents a PDF version number, e.g. PDF 1.7.
type Version int

// Supported PDF versions.
const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

func (v Version) String() string {
	if v == V2_0 {
		return "2.0"
	}
	return fmt.Sprintf("1.%d", int(v))
}

// tooHighVersion is one past the newest supported version.
const tooHighVersion = V2_0 + 1

// ToString returns the version as a string such as "1.7", or an error
// if v is not a supported version.
func (v Version) ToString() (string, error) {
	if v < V1_0 || v >= tooHighVersion {
		return "", errVersion
	}
	return v.String(), nil
}

// ParseVersion parses a PDF version string such as "1.7" or "PDF-1.7".
func ParseVersion(s string) (Version, error) {
	switch s {
	case "1.0", "PDF-1.0":
		return V1_0, nil
	case "1.1", "PDF-1.1":
		return V1_1, nil
	case "1.2", "PDF-1.2":
		return V1_2, nil
	case "1.3", "PDF-1.3":
		return V1_3, nil
	case "1.4", "PDF-1.4":
		return V1_4, nil
	case "1.5", "PDF-1.5":
		return V1_5, nil
	case "1.6", "PDF-1.6":
		return V1_6, nil
	case "1.7", "PDF-1.7":
		return V1_7, nil
	case "2.0", "PDF-2.0":
		return V2_0, nil
	}
	return 0, errVersion
}

// CheckVersion returns a [VersionError] if the writer's PDF version is
// older than earliest.
func (pdf *Writer) CheckVersion(operation string, earliest Version) error {
	if pdf.Version < earliest {
		return &VersionError{Operation: operation, Earliest: earliest}
	}
	return nil
}
