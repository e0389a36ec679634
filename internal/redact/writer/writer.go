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

// Package writer implements the PDF-writer integration of §4.6: it
// assembles each per-page [model.PageOutput] into page dictionaries
// and XObjects on an output [pdf.Putter], dispatching on the output
// kind.
package writer

import (
	"fmt"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
	"github.com/tagawa0525/pdf-masking/pagetree"
)

// SourcePage bundles the information the writer needs about the
// source page beyond its [model.PageOutput]: its reference in the
// input document (for the Skip path) and its MediaBox (every other
// path re-renders content filling the same box).
type SourcePage struct {
	Ref       pdf.Reference
	Dict      pdf.Dict
	MediaBox  pdf.Array
	Output    model.PageOutput
}

// Document assembles a sequence of [SourcePage]s, each already
// resolved to a [model.PageOutput] by the orchestrator, into a fresh
// output PDF on out.
type Document struct {
	out     pdf.Putter
	in      pdf.Getter
	tree    *pagetree.Writer
	copier  *pdf.Copier
}

// NewDocument creates a writer.Document. in is the source document
// (consulted only for the Skip path's deep clone); out is the
// destination.
func NewDocument(out pdf.Putter, in pdf.Getter) *Document {
	return &Document{
		out:    out,
		in:     in,
		tree:   pagetree.NewWriter(out, &pagetree.InheritableAttributes{}),
		copier: pdf.NewCopier(outAsWriter(out), in),
	}
}

// outAsWriter narrows out to the concrete *pdf.Writer that NewCopier
// requires; the redaction writer always runs against a real
// pdf.Writer (never a read-only Getter), so this assertion cannot
// fail in practice.
func outAsWriter(out pdf.Putter) *pdf.Writer {
	w, ok := out.(*pdf.Writer)
	if !ok {
		panic("writer: output Putter is not a *pdf.Writer")
	}
	return w
}

// AddPage writes one source page's resolved output. Pages must be
// added in final document order (the orchestrator already restores
// input-page order per §5).
func (d *Document) AddPage(p SourcePage) error {
	switch p.Output.Kind {
	case model.OutputSkip:
		return d.addSkip(p)
	case model.OutputOutlines:
		return d.addOutlines(p)
	case model.OutputTextMasked:
		return d.addTextMasked(p)
	case model.OutputMrc:
		return d.addMrc(p)
	case model.OutputBWMask:
		return d.addBWMask(p)
	default:
		return rerr.New(rerr.PdfWrite, fmt.Sprintf("unknown page output kind %v", p.Output.Kind))
	}
}

// Close balances the page tree, installs the document catalog, and
// writes out's cross-reference table and trailer.
func (d *Document) Close() error {
	rootRef, err := d.tree.Close()
	if err != nil {
		return rerr.Wrap(rerr.PdfWrite, err)
	}
	d.out.GetMeta().Catalog = &pdf.Catalog{Pages: rootRef}
	if err := outAsWriter(d.out).Close(); err != nil {
		return rerr.Wrap(rerr.PdfWrite, err)
	}
	return nil
}

// clearFonts returns a copy of resources with /Font removed, per
// §4.6's "clear /Font from the page's /Resources" instruction that
// applies to every masked (non-Skip) output kind.
func clearFonts(resources pdf.Dict) pdf.Dict {
	out := pdf.Dict{}
	for k, v := range resources {
		if k == "Font" {
			continue
		}
		out[k] = v
	}
	return out
}

// copyResources deep-copies page's /Resources dictionary (minus /Font)
// into the output document via the Skip-page Copier, translating every
// nested reference (XObject streams, ExtGState, Pattern, ColorSpace)
// so the result is valid in the output object graph. This is required
// for the Outlines and TextMasked paths, whose content streams still
// reference the page's original image XObjects by name.
func (d *Document) copyResources(page pdf.Dict) (pdf.Dict, error) {
	raw := clearFonts(resourcesOf(page))
	copied, err := d.copier.CopyDict(raw)
	if err != nil {
		return nil, rerr.Wrap(rerr.PdfWrite, err)
	}
	return copied, nil
}

// applyPatches overwrites resources' /XObject entries named by patches
// with freshly-written redacted image streams (§4.5), replacing the
// copied-but-unmodified original.
func (d *Document) applyPatches(resources pdf.Dict, patches []model.ImagePatch) error {
	if len(patches) == 0 {
		return nil
	}
	xobjDict, _ := resources["XObject"].(pdf.Dict)
	if xobjDict == nil {
		xobjDict = pdf.Dict{}
	}
	for _, p := range patches {
		ref, err := d.newRawStream(p.Data, pdf.Dict{
			"Type":             pdf.Name("XObject"),
			"Subtype":          pdf.Name("Image"),
			"Filter":           pdf.Name(p.Filter),
			"ColorSpace":       pdf.Name(p.ColorSpace),
			"BitsPerComponent": pdf.Integer(p.BitsPerComponent),
			"Width":            pdf.Integer(p.Width),
			"Height":           pdf.Integer(p.Height),
		})
		if err != nil {
			return err
		}
		xobjDict[pdf.Name(p.XObjectName)] = ref
	}
	resources["XObject"] = xobjDict
	return nil
}

func (d *Document) newContentStream(content []byte) (pdf.Reference, error) {
	ref := d.out.Alloc()
	w, err := d.out.OpenStream(ref, nil, pdf.FilterCompress{})
	if err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	if _, err := w.Write(content); err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	if err := w.Close(); err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	return ref, nil
}

// newRawStream writes data verbatim under a stream dictionary holding
// the entries of extra (the data is already encoded, e.g. by the JBIG2
// or JPEG codec, and extra's /Filter names that codec) and returns its
// reference.
func (d *Document) newRawStream(data []byte, extra pdf.Dict) (pdf.Reference, error) {
	ref := d.out.Alloc()
	dict := pdf.Dict{}
	for k, v := range extra {
		dict[k] = v
	}
	w, err := d.out.OpenStream(ref, dict)
	if err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	if err := w.Close(); err != nil {
		return 0, rerr.Wrap(rerr.PdfWrite, err)
	}
	return ref, nil
}
