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

package outline

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/tagawa0525/pdf-masking"
	pdffont "github.com/tagawa0525/pdf-masking/font"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// ResolvedFont bridges a PDF simple font dictionary (as parsed by
// [pdffont.ExtractDicts]) to an outline-capable program, via
// golang.org/x/image/font/sfnt: [pdffont.ExtractDicts] resolves *which*
// font program and widths apply to a text run, this type walks that
// program's glyph outlines once resolved.
//
// Only simple (single-byte) fonts are supported. Composite (Type0/CID)
// fonts are out of scope for the outline path: per §4.3's failure
// mode, any unresolved glyph aborts the page to the rasterizing
// fallback, so a composite font simply reports [rerr.OutlineConvert]
// on first use rather than partially transforming the page.
type ResolvedFont struct {
	prog       *sfnt.Font
	buf        sfnt.Buffer
	unitsPerEm float64
	widths     map[byte]float64 // glyph-space advance widths, in 1/1000 em, keyed by char code
	gidCache   map[byte]sfnt.GlyphIndex
}

// Resolve builds a ResolvedFont for the font dictionary at fontRef,
// using the four-step resolution chain of §4.2: embedded font
// program, exact PostScript-name system match, decomposed-name
// heuristic, and finally the fixed substitution table. sysFonts
// supplies the system/substitute font programs to consult for the
// latter three steps; it may be nil, in which case only embedded
// fonts resolve.
func Resolve(r pdf.Getter, fontRef pdf.Object, sysFonts SystemFontDB) (*ResolvedFont, error) {
	dicts, err := pdffont.ExtractDicts(r, fontRef)
	if err != nil {
		return nil, rerr.Wrap(rerr.OutlineConvert, err)
	}
	if dicts.IsComposite() {
		return nil, rerr.New(rerr.OutlineConvert, "composite (Type0/CID) fonts are not supported by the outline path")
	}

	var data []byte
	if dicts.FontData != nil {
		data, err = pdf.ReadAll(r, dicts.FontData)
	}
	if err != nil || dicts.FontData == nil {
		if sysFonts == nil {
			return nil, rerr.New(rerr.OutlineConvert, "no embedded font program and no system font database configured")
		}
		data, err = sysFonts.Resolve(dicts.PostScriptName)
		if err != nil {
			return nil, rerr.Wrap(rerr.OutlineConvert, err)
		}
	}

	prog, err := sfnt.Parse(data)
	if err != nil {
		return nil, rerr.Wrap(rerr.OutlineConvert, err)
	}
	unitsPerEm, err := prog.UnitsPerEm()
	if err != nil {
		return nil, rerr.Wrap(rerr.OutlineConvert, err)
	}

	rf := &ResolvedFont{
		prog:       prog,
		unitsPerEm: float64(unitsPerEm),
		widths:     map[byte]float64{},
		gidCache:   map[byte]sfnt.GlyphIndex{},
	}

	firstChar, _ := pdf.GetInteger(r, dicts.FontDict["FirstChar"])
	widthsObj, _ := pdf.Resolve(r, dicts.FontDict["Widths"])
	if widthsArr, _ := widthsObj.(pdf.Array); widthsArr != nil {
		for i, w := range widthsArr {
			code := int(firstChar) + i
			if code < 0 || code > 255 {
				continue
			}
			if n, ok := w.(pdf.Integer); ok {
				rf.widths[byte(code)] = float64(n)
			} else if n, ok := w.(pdf.Real); ok {
				rf.widths[byte(code)] = float64(n)
			}
		}
	}

	return rf, nil
}

// SystemFontDB resolves a PostScript name to raw font-program bytes,
// implementing steps 2-4 of the §4.2 resolution chain (exact match,
// decomposed-name heuristic, fixed substitution table). The concrete
// implementation is process-wide, lazily initialized, and read-only
// after load, per §5.
type SystemFontDB interface {
	Resolve(postScriptName string) ([]byte, error)
}

// Width returns the glyph-space advance width (w0 in §4.3's formula)
// for code, in text-space units per unit of font size (the stored
// 1/1000-em width divided by 1000).
func (f *ResolvedFont) Width(code byte) (float64, bool) {
	w, ok := f.widths[code]
	return w / 1000, ok
}

// gid resolves a char code to a glyph index. Simple fonts are assumed
// to use a Latin-1-compatible code-to-rune mapping; this covers the
// common WinAnsiEncoding/MacRomanEncoding/StandardEncoding case for
// the printable ASCII range but does not implement a full
// Differences-array remapping.
func (f *ResolvedFont) gid(code byte) (sfnt.GlyphIndex, error) {
	if gid, ok := f.gidCache[code]; ok {
		return gid, nil
	}
	gid, err := f.prog.GlyphIndex(&f.buf, rune(code))
	if err != nil {
		return 0, err
	}
	if gid == 0 {
		return 0, rerr.New(rerr.OutlineConvert, "missing glyph for character code")
	}
	f.gidCache[code] = gid
	return gid, nil
}

// Outline returns the glyph outline for code, in font units (y-up),
// along with the font's units-per-em for scaling.
func (f *ResolvedFont) Outline(code byte) (sfnt.Segments, float64, error) {
	gid, err := f.gid(code)
	if err != nil {
		return nil, 0, rerr.Wrap(rerr.OutlineConvert, err)
	}
	segs, err := f.prog.LoadGlyph(&f.buf, gid, fixed.Int26_6(f.unitsPerEm)<<6, nil)
	if err != nil {
		return nil, 0, rerr.Wrap(rerr.OutlineConvert, err)
	}
	return segs, f.unitsPerEm, nil
}
