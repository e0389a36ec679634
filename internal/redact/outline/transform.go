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

// Package outline implements the text-to-outlines transformer (§4.3):
// it replaces each BT...ET text object in a content stream with path
// operators tracing the actual glyph outlines, so that the page no
// longer carries extractable text.
package outline

import (
	"bytes"
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// FontLookup resolves a page resource name (as used by Tf) to a
// [ResolvedFont], memoizing per (fontName, GID) outline parses for the
// lifetime of one page per §9's glyph-outline-cache note.
type FontLookup func(resourceName pdf.Name) (*ResolvedFont, error)

type textState struct {
	tm, tlm                    matrix.Matrix
	tfs, tc, tw, tz, tl, trise float64
	font                       *ResolvedFont
	tr                         int
}

func newTextState() textState {
	return textState{tm: matrix.Identity, tlm: matrix.Identity, tz: 100}
}

// Transform rewrites content, replacing every text object with outline
// path operators. ctm0 is the CTM in effect at the start of the
// content stream (normally the identity for a page's own content
// stream). lookup resolves /Tf font resource names.
//
// On any missing GID, unresolved font reference, or unsupported
// rendering mode, Transform aborts with an [rerr.OutlineConvert]
// error and returns no partial output, per §4.3's failure mode.
func Transform(content []byte, ctm0 matrix.Matrix, lookup FontLookup) ([]byte, error) {
	p := pdf.NewParser(content)
	var out bytes.Buffer
	lastFlush := 0

	var gfxStack []matrix.Matrix
	ctm := ctm0

	var operands []pdf.Object
	num := func(o pdf.Object) float64 {
		switch v := o.(type) {
		case pdf.Integer:
			return float64(v)
		case pdf.Real:
			return float64(v)
		}
		return 0
	}

	inText := false
	var ts textState
	var pathBuf bytes.Buffer

	for {
		before := p.Pos()
		if p.AtEnd() {
			break
		}
		obj, err := p.ParseObject()
		if err == nil {
			operands = append(operands, obj)
			continue
		}
		op, ok := p.ParseKeyword()
		if !ok {
			return nil, rerr.New(rerr.OutlineConvert, fmt.Sprintf("malformed operand at byte %d", before))
		}

		switch op {
		case "q":
			gfxStack = append(gfxStack, ctm)
		case "Q":
			if len(gfxStack) > 0 {
				ctm = gfxStack[len(gfxStack)-1]
				gfxStack = gfxStack[:len(gfxStack)-1]
			}
		case "cm":
			if len(operands) >= 6 && !inText {
				n := operands[len(operands)-6:]
				m := matrix.Matrix{num(n[0]), num(n[1]), num(n[2]), num(n[3]), num(n[4]), num(n[5])}
				ctm = m.Mul(ctm)
			}
		case "BT":
			out.Write(content[lastFlush:before])
			lastFlush = before
			inText = true
			ts = newTextState()
			pathBuf.Reset()
		case "ET":
			if !inText {
				return nil, rerr.New(rerr.OutlineConvert, "ET without BT")
			}
			inText = false
			out.WriteString("q\n")
			out.Write(pathBuf.Bytes())
			out.WriteString("Q\n")
			lastFlush = p.Pos()
		case "Tf":
			if inText && len(operands) >= 2 {
				if name, ok := operands[len(operands)-2].(pdf.Name); ok {
					f, err := lookup(name)
					if err != nil {
						return nil, rerr.Wrap(rerr.OutlineConvert, err)
					}
					ts.font = f
				}
				ts.tfs = num(operands[len(operands)-1])
			}
		case "Tc":
			if inText && len(operands) >= 1 {
				ts.tc = num(operands[len(operands)-1])
			}
		case "Tw":
			if inText && len(operands) >= 1 {
				ts.tw = num(operands[len(operands)-1])
			}
		case "Tz":
			if inText && len(operands) >= 1 {
				ts.tz = num(operands[len(operands)-1])
			}
		case "TL":
			if inText && len(operands) >= 1 {
				ts.tl = num(operands[len(operands)-1])
			}
		case "Ts":
			if inText && len(operands) >= 1 {
				ts.trise = num(operands[len(operands)-1])
			}
		case "Tr":
			if inText && len(operands) >= 1 {
				ts.tr = int(num(operands[len(operands)-1]))
				if ts.tr < 0 || ts.tr > 7 {
					return nil, rerr.New(rerr.OutlineConvert, fmt.Sprintf("unsupported text rendering mode %d", ts.tr))
				}
			}
		case "Td":
			if inText && len(operands) >= 2 {
				tx, ty := num(operands[len(operands)-2]), num(operands[len(operands)-1])
				ts.tlm = matrix.Translate(tx, ty).Mul(ts.tlm)
				ts.tm = ts.tlm
			}
		case "TD":
			if inText && len(operands) >= 2 {
				tx, ty := num(operands[len(operands)-2]), num(operands[len(operands)-1])
				ts.tl = -ty
				ts.tlm = matrix.Translate(tx, ty).Mul(ts.tlm)
				ts.tm = ts.tlm
			}
		case "Tm":
			if inText && len(operands) >= 6 {
				n := operands[len(operands)-6:]
				ts.tlm = matrix.Matrix{num(n[0]), num(n[1]), num(n[2]), num(n[3]), num(n[4]), num(n[5])}
				ts.tm = ts.tlm
			}
		case "T*":
			if inText {
				ts.tlm = matrix.Translate(0, -ts.tl).Mul(ts.tlm)
				ts.tm = ts.tlm
			}
		case "Tj":
			if inText && len(operands) >= 1 {
				if s, ok := operands[len(operands)-1].(pdf.String); ok {
					if err := emitString(&pathBuf, &ts, ctm, []byte(s)); err != nil {
						return nil, err
					}
				}
			}
		case "'":
			if inText {
				ts.tlm = matrix.Translate(0, -ts.tl).Mul(ts.tlm)
				ts.tm = ts.tlm
				if len(operands) >= 1 {
					if s, ok := operands[len(operands)-1].(pdf.String); ok {
						if err := emitString(&pathBuf, &ts, ctm, []byte(s)); err != nil {
							return nil, err
						}
					}
				}
			}
		case `"`:
			if inText && len(operands) >= 3 {
				ts.tw = num(operands[len(operands)-3])
				ts.tc = num(operands[len(operands)-2])
				ts.tlm = matrix.Translate(0, -ts.tl).Mul(ts.tlm)
				ts.tm = ts.tlm
				if s, ok := operands[len(operands)-1].(pdf.String); ok {
					if err := emitString(&pathBuf, &ts, ctm, []byte(s)); err != nil {
						return nil, err
					}
				}
			}
		case "TJ":
			if inText && len(operands) >= 1 {
				if arr, ok := operands[len(operands)-1].(pdf.Array); ok {
					for _, el := range arr {
						switch v := el.(type) {
						case pdf.String:
							if err := emitString(&pathBuf, &ts, ctm, []byte(v)); err != nil {
								return nil, err
							}
						case pdf.Integer, pdf.Real:
							adj := num(v)
							tx := -adj / 1000 * ts.tfs * ts.tz / 100
							ts.tm = matrix.Translate(tx, 0).Mul(ts.tm)
						}
					}
				}
			}
		}

		operands = operands[:0]
	}

	if inText {
		return nil, rerr.New(rerr.OutlineConvert, "missing ET")
	}
	out.Write(content[lastFlush:])
	return out.Bytes(), nil
}

// emitString lays out and emits path operators for each byte (char
// code) of s, advancing ts.tm exactly as the glyph-positioning
// algorithm in §4.3 describes, and appends the resulting path bytes
// to buf.
func emitString(buf *bytes.Buffer, ts *textState, ctm matrix.Matrix, s []byte) error {
	if ts.font == nil {
		return rerr.New(rerr.OutlineConvert, "Tj/TJ with no font selected")
	}
	// Rendering modes 4-7 add the glyph outline to the clipping path;
	// per Open Question (a) this is intentionally dropped, and mode 3
	// (invisible) and mode 7 (clip only) are rendered as no geometry.
	invisible := ts.tr == 3 || ts.tr == 7

	for _, code := range s {
		w0, _ := ts.font.Width(code)

		if !invisible {
			segs, unitsPerEm, err := ts.font.Outline(code)
			if err != nil {
				return rerr.Wrap(rerr.OutlineConvert, err)
			}
			scale := matrix.Matrix{ts.tfs * ts.tz / 100, 0, 0, ts.tfs, 0, ts.trise}
			trm := scale.Mul(ts.tm).Mul(ctm)
			writeGlyphPath(buf, segs, unitsPerEm, trm)
			buf.WriteString(fillOp(ts.tr))
			buf.WriteByte('\n')
		}

		tx := (w0*ts.tfs + ts.tc + wordSpacing(code, ts.tw)) * ts.tz / 100
		ts.tm = matrix.Translate(tx, 0).Mul(ts.tm)
	}
	return nil
}

func wordSpacing(code byte, tw float64) float64 {
	if code == ' ' {
		return tw
	}
	return 0
}

func fillOp(tr int) string {
	switch tr {
	case 0, 4:
		return "f"
	case 1, 5:
		return "S"
	case 2, 6:
		return "B"
	default:
		return "n"
	}
}

func writeGlyphPath(buf *bytes.Buffer, segs sfnt.Segments, unitsPerEm float64, trm matrix.Matrix) {
	norm := matrix.Matrix{1 / unitsPerEm, 0, 0, 1 / unitsPerEm, 0, 0}.Mul(trm)
	pt := func(x, y fixed.Int26_6) (float64, float64) {
		return norm.Apply(float64(x)/64, float64(y)/64)
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := pt(seg.Args[0].X, seg.Args[0].Y)
			fmt.Fprintf(buf, "%.3f %.3f m\n", x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0].X, seg.Args[0].Y)
			fmt.Fprintf(buf, "%.3f %.3f l\n", x, y)
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0].X, seg.Args[0].Y)
			x2, y2 := pt(seg.Args[1].X, seg.Args[1].Y)
			fmt.Fprintf(buf, "%.3f %.3f %.3f %.3f %.3f %.3f c\n", x1, y1, x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0].X, seg.Args[0].Y)
			x2, y2 := pt(seg.Args[1].X, seg.Args[1].Y)
			x3, y3 := pt(seg.Args[2].X, seg.Args[2].Y)
			fmt.Fprintf(buf, "%.3f %.3f %.3f %.3f %.3f %.3f c\n", x1, y1, x2, y2, x3, y3)
		}
	}
	buf.WriteString("h\n")
}
