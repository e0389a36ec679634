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

package content

import (
	"bytes"
	"testing"
)

func TestAnalyzeNoOpWithoutText(t *testing.T) {
	in := []byte("q 1 0 0 1 0 0 cm /Im Do Q\n")
	res, err := Analyze(in)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.Stripped, in) {
		t.Fatalf("expected byte-for-byte no-op, got %q", res.Stripped)
	}
	if res.HasText {
		t.Fatal("HasText should be false")
	}
}

func TestAnalyzeImagePlacementCTM(t *testing.T) {
	res, err := Analyze([]byte("q 2 0 0 2 10 20 cm /Im Do Q"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Images) != 1 {
		t.Fatalf("expected 1 image placement, got %d", len(res.Images))
	}
	got := res.Images[0].BBox
	want := struct{ X0, Y0, X1, Y1 float64 }{10, 20, 12, 22}
	if got.X0 != want.X0 || got.Y0 != want.Y0 || got.X1 != want.X1 || got.Y1 != want.Y1 {
		t.Fatalf("got bbox %+v, want %+v", got, want)
	}
}

func TestAnalyzeWhiteFillDetection(t *testing.T) {
	res, err := Analyze([]byte("1 1 1 rg 0 0 100 200 re f"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.WhiteFillRects) != 1 {
		t.Fatalf("expected 1 white rect, got %d", len(res.WhiteFillRects))
	}
	bb := res.WhiteFillRects[0].BBox
	if bb.X0 != 0 || bb.Y0 != 0 || bb.X1 != 100 || bb.Y1 != 200 {
		t.Fatalf("unexpected bbox %+v", bb)
	}

	res, err = Analyze([]byte("0.5 0.5 0.5 rg 0 0 10 10 re f"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.WhiteFillRects) != 0 {
		t.Fatalf("expected no white rects for gray fill, got %d", len(res.WhiteFillRects))
	}
}

func TestAnalyzeUnbalancedQIsError(t *testing.T) {
	if _, err := Analyze([]byte("q 1 0 0 1 0 0 cm")); err == nil {
		t.Fatal("expected unbalanced q/Q to error")
	}
}

func TestAnalyzeStripsTextObject(t *testing.T) {
	in := []byte("q 1 0 0 1 0 0 cm BT /F1 12 Tf (Hello) Tj ET Q")
	res, err := Analyze(in)
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasText {
		t.Fatal("expected HasText")
	}
	if bytes.Contains(res.Stripped, []byte("BT")) || bytes.Contains(res.Stripped, []byte("Tj")) {
		t.Fatalf("expected text operators stripped, got %q", res.Stripped)
	}
	if !bytes.Contains(res.Stripped, []byte("cm")) {
		t.Fatalf("expected cm preserved, got %q", res.Stripped)
	}
}
