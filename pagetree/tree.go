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

// Package pagetree builds the `/Pages` tree of an output PDF document.
//
// The redaction writer never knows the final page count up front (pages
// are produced one at a time by the per-page worker pool and collected
// in input order), so pages are appended incrementally and the tree is
// only balanced once the full page count is known, at [Writer.Close].
package pagetree

import "github.com/tagawa0525/pdf-masking"

// maxDegree bounds the number of kids under a single /Pages node. PDF
// viewers are known to choke on very wide kid arrays; 16 keeps any
// individual node small while still giving a shallow tree for the page
// counts this tool deals with (single documents, not million-page
// scans).
const maxDegree = 16

// A4 is the ISO 216 A4 media box in PDF points, used as the default
// inheritable media box for jobs that do not specify one explicitly.
var A4 = pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Real(595.28), pdf.Real(841.89)}

// InheritableAttributes holds page attributes set on the root /Pages
// node so that individual page dictionaries can omit them.
type InheritableAttributes struct {
	MediaBox  pdf.Object
	Resources pdf.Dict
}

func (a *InheritableAttributes) dict() pdf.Dict {
	d := pdf.Dict{}
	if a == nil {
		return d
	}
	if a.MediaBox != nil {
		d["MediaBox"] = a.MediaBox
	}
	if a.Resources != nil {
		d["Resources"] = a.Resources
	}
	return d
}

// Writer accumulates page dictionaries and, on [Writer.Close], writes a
// balanced /Pages tree to the underlying [pdf.Putter].
type Writer struct {
	out   pdf.Putter
	attrs pdf.Dict

	leaves []pdf.Reference
}

// NewWriter creates a page-tree writer. attrs (may be nil) is installed
// on the eventual root /Pages node as inheritable attributes.
func NewWriter(out pdf.Putter, attrs *InheritableAttributes) *Writer {
	return &Writer{out: out, attrs: attrs.dict()}
}

// AppendPage writes dict as a new page at the end of the tree and
// returns its reference. The caller must not set /Type, /Parent, or
// /Pages; those are managed by the tree. contentLen is currently
// unused (kept for API compatibility with callers that pre-size
// stream placeholders) and may be 0.
func (w *Writer) AppendPage(dict pdf.Dict, contentLen int64) (pdf.Reference, error) {
	page := pdf.Dict{}
	for k, v := range dict {
		page[k] = v
	}
	page["Type"] = pdf.Name("Page")

	ref := w.out.Alloc()
	if err := w.out.Put(ref, page); err != nil {
		return 0, err
	}
	w.leaves = append(w.leaves, ref)
	return ref, nil
}

// AppendPageRef registers an already-written page object (ref must
// already have been [pdf.Putter.Put] by the caller, with /Type set to
// /Page) as the next leaf of the tree. This is the path used for
// pages that are copied wholesale from another document (where the
// full dictionary, including nested resources, has already been
// written by a [pdf.Copier]) rather than built fresh via [AppendPage].
func (w *Writer) AppendPageRef(ref pdf.Reference) {
	w.leaves = append(w.leaves, ref)
}

// Close balances the accumulated pages into a tree of /Pages nodes no
// wider than maxDegree and returns a reference to the root node. The
// root node carries the inheritable attributes passed to [NewWriter]
// and /Count set to the total number of pages.
func (w *Writer) Close() (pdf.Reference, error) {
	if len(w.leaves) == 0 {
		root := w.out.Alloc()
		dict := pdf.Dict{}
		for k, v := range w.attrs {
			dict[k] = v
		}
		dict["Type"] = pdf.Name("Pages")
		dict["Kids"] = pdf.Array{}
		dict["Count"] = pdf.Integer(0)
		return root, w.out.Put(root, dict)
	}

	level := make([]pdf.Reference, len(w.leaves))
	copy(level, w.leaves)
	counts := make([]int, len(level))
	for i := range counts {
		counts[i] = 1
	}

	// Patch in /Parent once the parent reference is known, one level
	// at a time, bottom-up.
	for {
		var nextLevel []pdf.Reference
		var nextCounts []int
		for i := 0; i < len(level); i += maxDegree {
			end := i + maxDegree
			if end > len(level) {
				end = len(level)
			}
			kids := pdf.Array{}
			count := 0
			for _, ref := range level[i:end] {
				kids = append(kids, ref)
			}
			for _, c := range counts[i:end] {
				count += c
			}

			nodeRef := w.out.Alloc()
			node := pdf.Dict{
				"Type":  pdf.Name("Pages"),
				"Kids":  kids,
				"Count": pdf.Integer(count),
			}
			if err := w.out.Put(nodeRef, node); err != nil {
				return 0, err
			}
			if err := w.reparent(level[i:end], nodeRef); err != nil {
				return 0, err
			}

			nextLevel = append(nextLevel, nodeRef)
			nextCounts = append(nextCounts, count)
		}
		level = nextLevel
		counts = nextCounts
		if len(level) == 1 {
			break
		}
	}

	root := level[0]
	dict, err := w.getDict(root)
	if err != nil {
		return 0, err
	}
	for k, v := range w.attrs {
		if _, exists := dict[k]; !exists {
			dict[k] = v
		}
	}
	if err := w.out.Put(root, dict); err != nil {
		return 0, err
	}
	return root, nil
}

func (w *Writer) getDict(ref pdf.Reference) (pdf.Dict, error) {
	native, err := w.out.Get(ref, false)
	if err != nil {
		return nil, err
	}
	dict, _ := native.(pdf.Dict)
	if dict == nil {
		dict = pdf.Dict{}
	}
	return dict, nil
}

func (w *Writer) reparent(kids []pdf.Reference, parent pdf.Reference) error {
	for _, kid := range kids {
		dict, err := w.getDict(kid)
		if err != nil {
			return err
		}
		dict["Parent"] = parent
		if err := w.out.Put(kid, dict); err != nil {
			return err
		}
	}
	return nil
}
