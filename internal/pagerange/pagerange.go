// github.com/tagawa0525/pdf-masking - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package pagerange parses the "N" / "N-M" page-range syntax used by
// job files (PageList entries) to select 1-based, inclusive page
// ranges.
package pagerange

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive, 1-based range of page numbers [First, Last].
// A single page is represented with First == Last.
type PageRange struct {
	First int
	Last  int
}

// String renders the range in the same syntax accepted by [PageRange.Set]:
// "N" for a single page, "N-M" otherwise.
func (pr PageRange) String() string {
	if pr.First == pr.Last {
		return strconv.Itoa(pr.First)
	}
	return fmt.Sprintf("%d-%d", pr.First, pr.Last)
}

// Set parses s as either a single page number or an inclusive range
// "N-M", both 1-based. It rejects zero or negative page numbers,
// malformed input, and a range whose end precedes its start.
func (pr *PageRange) Set(s string) error {
	if !strings.Contains(s, "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("pagerange: invalid page number %q", s)
		}
		if n <= 0 {
			return fmt.Errorf("pagerange: page number %d is not positive", n)
		}
		*pr = PageRange{First: n, Last: n}
		return nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return fmt.Errorf("pagerange: invalid range %q", s)
	}
	first, err1 := strconv.Atoi(parts[0])
	last, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("pagerange: invalid range %q", s)
	}
	if first <= 0 || last <= 0 {
		return fmt.Errorf("pagerange: page number in %q is not positive", s)
	}
	if last < first {
		return fmt.Errorf("pagerange: range %q ends before it starts", s)
	}
	*pr = PageRange{First: first, Last: last}
	return nil
}

// Expand returns every page number in the range, in order.
func (pr PageRange) Expand() []int {
	pages := make([]int, 0, pr.Last-pr.First+1)
	for n := pr.First; n <= pr.Last; n++ {
		pages = append(pages, n)
	}
	return pages
}
