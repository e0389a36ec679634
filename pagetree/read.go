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

package pagetree

import (
	"errors"
	"fmt"

	"github.com/tagawa0525/pdf-masking"
)

// GetPage returns the reference and dictionary of the pageNo'th page
// (0-based) in r's document, walking the /Pages tree depth-first and
// honoring inheritable attributes (/Resources, /MediaBox, /CropBox,
// /Rotate) by copying any inherited entry down into the returned
// dictionary when the page itself does not set it.
func GetPage(r pdf.Getter, pageNo int) (pdf.Reference, pdf.Dict, error) {
	if pageNo < 0 {
		return 0, nil, fmt.Errorf("pagetree: negative page number %d", pageNo)
	}

	meta := r.GetMeta()
	if meta == nil || meta.Catalog == nil {
		return 0, nil, errors.New("pagetree: no document catalog")
	}

	remaining := pageNo
	ref, dict, err := walk(r, meta.Catalog.Pages, pdf.Dict{}, &remaining)
	if err != nil {
		return 0, nil, err
	}
	if dict == nil {
		return 0, nil, fmt.Errorf("pagetree: page %d not found", pageNo)
	}
	return ref, dict, nil
}

// CountPages returns the total number of pages in r's document, read
// directly from the root /Pages node's /Count entry (the same count a
// [Writer] computes bottom-up while balancing a tree it builds itself).
func CountPages(r pdf.Getter) (int, error) {
	meta := r.GetMeta()
	if meta == nil || meta.Catalog == nil {
		return 0, errors.New("pagetree: no document catalog")
	}
	dict, err := pdf.GetDictTyped(r, meta.Catalog.Pages, "Pages")
	if err != nil {
		return 0, err
	}
	count, err := pdf.GetInteger(r, dict["Count"])
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

var inheritable = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// walk performs a depth-first search of the page tree rooted at ref,
// decrementing *remaining for each leaf encountered and returning once
// it reaches zero at a leaf.
func walk(r pdf.Getter, ref pdf.Object, inherited pdf.Dict, remaining *int) (pdf.Reference, pdf.Dict, error) {
	native, err := pdf.Resolve(r, ref)
	if err != nil {
		return 0, nil, err
	}
	dict, ok := native.(pdf.Dict)
	if !ok {
		return 0, nil, fmt.Errorf("pagetree: expected a dictionary, got %T", native)
	}

	merged := pdf.Dict{}
	for k, v := range inherited {
		merged[k] = v
	}
	for _, k := range inheritable {
		if v, ok := dict[k]; ok {
			merged[k] = v
		}
	}

	kids, hasKids := dict["Kids"]
	if !hasKids {
		if *remaining == 0 {
			out := pdf.Dict{}
			for k, v := range merged {
				out[k] = v
			}
			for k, v := range dict {
				out[k] = v
			}
			asRef, _ := ref.(pdf.Reference)
			return asRef, out, nil
		}
		*remaining--
		return 0, nil, nil
	}

	kidsArr, err := pdf.Resolve(r, kids)
	if err != nil {
		return 0, nil, err
	}
	arr, ok := kidsArr.(pdf.Array)
	if !ok {
		return 0, nil, errors.New("pagetree: /Kids is not an array")
	}

	for _, kid := range arr {
		childRef, childDict, err := walk(r, kid, merged, remaining)
		if err != nil {
			return 0, nil, err
		}
		if childDict != nil {
			return childRef, childDict, nil
		}
	}
	return 0, nil, nil
}
