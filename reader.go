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

import (
	"bytes"
	"io"
	"regexp"
	"slices"

	"golang.org/x/exp/maps"
)

// ReaderOptions controls how a PDF file is opened for reading.
type ReaderOptions struct {
	// Password supplies the user or owner password for encrypted files.
	Password func(bool) string
}

// Reader gives read access to a PDF file.
//
// Rather than trusting the file's own cross-reference table (which
// incremental updates, broken generators, and redaction tools themselves
// routinely leave stale or inconsistent), Reader recovers the object graph
// by scanning the whole file body for "N G obj ... endobj" spans and for
// compressed object streams. This is the same recovery strategy most PDF
// tooling falls back to when the trailer chain cannot be trusted, applied
// here unconditionally for robustness.
type Reader struct {
	meta    MetaInfo
	xref    map[uint32]xrefEntry
	objects map[Reference]Object
}

var objHeaderRE = regexp.MustCompile(`(?m)(?:^|[^0-9])([0-9]+)[ \t]+([0-9]+)[ \t]+obj\b`)

// NewReader opens a PDF file for reading.
func NewReader(r io.ReadSeeker, opt *ReaderOptions) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	version := V1_7
	if bytes.HasPrefix(buf, []byte("%PDF-")) {
		end := bytes.IndexAny(buf[5:], "\r\n")
		if end > 0 {
			if v, err := ParseVersion(string(buf[5 : 5+end])); err == nil {
				version = v
			}
		}
	}

	pdf := &Reader{
		meta: MetaInfo{
			Version: version,
		},
		xref:    map[uint32]xrefEntry{},
		objects: map[Reference]Object{},
	}

	var objStmRefs []Reference
	for _, m := range objHeaderRE.FindAllSubmatchIndex(buf, -1) {
		numStart, numEnd := m[2], m[3]
		genStart, genEnd := m[4], m[5]
		num, errN := parseIntLiteral(string(buf[numStart:numEnd]))
		gen, errG := parseIntLiteral(string(buf[genStart:genEnd]))
		if errN != nil || errG != nil {
			continue
		}
		ref := NewReference(uint32(num), uint16(gen))

		p := NewParser(buf)
		p.SetPos(m[1])
		p.SkipWhiteSpace()
		obj, err := p.ParseObject()
		if err != nil {
			continue
		}

		pdf.objects[ref] = obj
		pdf.xref[uint32(num)] = xrefEntry{Generation: uint16(gen)}

		if dict, ok := asObjStmDict(obj); ok {
			_ = dict
			objStmRefs = append(objStmRefs, ref)
		}
	}

	for _, ref := range objStmRefs {
		pdf.unpackObjectStream(ref)
	}

	root := pdf.findRoot(buf)
	if root != 0 {
		cat, err := ExtractCatalog(pdf, root)
		if err == nil {
			pdf.meta.Catalog = cat
		}
	}
	if pdf.meta.Catalog == nil {
		pdf.meta.Catalog = &Catalog{}
	}

	return pdf, nil
}

func asObjStmDict(obj Object) (Dict, bool) {
	d, ok := obj.(Dict)
	if !ok {
		return nil, false
	}
	tp, _ := d["Type"].(Name)
	return d, tp == "ObjStm"
}

func (pdf *Reader) unpackObjectStream(ref Reference) {
	stm, ok := pdf.objects[ref].(*Stream)
	if !ok {
		return
	}
	dict, _ := asObjStmDict(stm.Dict)
	n, _ := dict["N"].(Integer)
	first, _ := dict["First"].(Integer)
	if n <= 0 {
		return
	}

	data, err := ReadAll(pdf, stm)
	if err != nil {
		return
	}

	hp := NewParser(data)
	type pair struct{ num, offset int64 }
	pairs := make([]pair, 0, n)
	for i := Integer(0); i < n; i++ {
		numObj, err1 := hp.ParseObject()
		offObj, err2 := hp.ParseObject()
		if err1 != nil || err2 != nil {
			break
		}
		num, ok1 := numObj.(Integer)
		off, ok2 := offObj.(Integer)
		if !ok1 || !ok2 {
			break
		}
		pairs = append(pairs, pair{int64(num), int64(off)})
	}

	for _, pr := range pairs {
		objRef := NewReference(uint32(pr.num), 0)
		if _, exists := pdf.objects[objRef]; exists {
			continue
		}
		op := NewParser(data)
		op.SetPos(int(int64(first) + pr.offset))
		obj, err := op.ParseObject()
		if err != nil {
			continue
		}
		pdf.objects[objRef] = obj
		pdf.xref[uint32(pr.num)] = xrefEntry{InStream: ref}
	}
}

var trailerRE = regexp.MustCompile(`trailer\b`)

func (pdf *Reader) findRoot(buf []byte) Reference {
	// Prefer an explicit classic trailer dictionary, using its last
	// occurrence (incremental updates append new trailers).
	locs := trailerRE.FindAllIndex(buf, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		p := NewParser(buf)
		p.SetPos(locs[i][1])
		p.SkipWhiteSpace()
		obj, err := p.ParseObject()
		if err != nil {
			continue
		}
		dict, ok := obj.(Dict)
		if !ok {
			continue
		}
		pdf.meta.Trailer = dict
		if id, ok := dict["ID"].(Array); ok {
			pdf.meta.ID = arrayToID(id)
		}
		if ref, ok := dict["Root"].(Reference); ok {
			return ref
		}
	}

	// Fall back to any cross-reference stream dictionary (/Type /XRef),
	// and finally to scanning for a /Type /Catalog object directly.
	for ref, obj := range pdf.objects {
		if dict, ok := obj.(*Stream); ok {
			if tp, _ := dict.Dict["Type"].(Name); tp == "XRef" {
				if r, ok := dict.Dict["Root"].(Reference); ok {
					return r
				}
			}
		}
		if dict, ok := obj.(Dict); ok {
			if tp, _ := dict["Type"].(Name); tp == "Catalog" {
				if pdf.meta.Trailer == nil {
					pdf.meta.Trailer = Dict{"Root": ref}
				}
				return ref
			}
		}
	}
	return 0
}

func arrayToID(a Array) [][]byte {
	var res [][]byte
	for _, el := range a {
		if s, ok := el.(String); ok {
			res = append(res, []byte(s))
		}
	}
	return res
}

// GetMeta implements the [Getter] interface.
func (pdf *Reader) GetMeta() *MetaInfo { return &pdf.meta }

// Get implements the [Getter] interface.
func (pdf *Reader) Get(ref Reference, canObjStm bool) (Native, error) {
	entry, ok := pdf.xref[ref.Number()]
	if !ok || entry.free {
		return nil, nil
	}
	if entry.InStream != 0 && !canObjStm {
		return nil, &MalformedFileError{Err: Error("object lies in an object stream")}
	}

	obj := pdf.objects[ref]
	switch x := obj.(type) {
	case Dict:
		obj = maps.Clone(x)
	case Array:
		obj = slices.Clone(x)
	case nil:
		return nil, nil
	}
	native, _ := obj.(Native)
	return native, nil
}

// Resolve follows references starting at obj, using pdf as the backing
// file.
func (pdf *Reader) Resolve(obj Object) (Native, error) {
	return Resolve(pdf, obj)
}

// Close releases resources associated with the reader. Since Reader keeps
// the whole file body in memory, this is currently a no-op.
func (pdf *Reader) Close() error { return nil }
