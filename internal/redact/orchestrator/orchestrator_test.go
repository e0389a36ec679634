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

package orchestrator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/pagetree"
)

func TestPageContentSingleStream(t *testing.T) {
	stm := &pdf.Stream{Dict: pdf.Dict{}, R: bytes.NewReader([]byte("BT ET"))}
	dict := pdf.Dict{"Contents": stm}

	got, err := pageContent(nil, dict)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "BT ET" {
		t.Errorf("pageContent = %q, want %q", got, "BT ET")
	}
}

func TestPageContentArrayOfStreams(t *testing.T) {
	a := &pdf.Stream{Dict: pdf.Dict{}, R: bytes.NewReader([]byte("BT"))}
	b := &pdf.Stream{Dict: pdf.Dict{}, R: bytes.NewReader([]byte("ET"))}
	dict := pdf.Dict{"Contents": pdf.Array{a, b}}

	got, err := pageContent(nil, dict)
	if err != nil {
		t.Fatal(err)
	}
	want := "BT\nET\n"
	if string(got) != want {
		t.Errorf("pageContent = %q, want %q", got, want)
	}
}

func TestPageContentMissing(t *testing.T) {
	dict := pdf.Dict{}
	got, err := pageContent(nil, dict)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("pageContent = %v, want nil", got)
	}
}

func TestMediaBoxOfFallsBackToA4(t *testing.T) {
	got := mediaBoxOf(pdf.Dict{})
	if len(got) != len(pagetree.A4) {
		t.Errorf("mediaBoxOf on an empty dict should fall back to pagetree.A4")
	}
}

func TestMediaBoxOfUsesPageValue(t *testing.T) {
	box := pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(400)}
	got := mediaBoxOf(pdf.Dict{"MediaBox": box})
	if len(got) != 4 || got[2] != pdf.Integer(200) {
		t.Errorf("mediaBoxOf = %v, want the page's own MediaBox", got)
	}
}

func TestKindFromNameRoundTrip(t *testing.T) {
	kinds := []model.PageOutputKind{
		model.OutputOutlines, model.OutputTextMasked,
		model.OutputMrc, model.OutputBWMask, model.OutputSkip,
	}
	for _, k := range kinds {
		got, ok := kindFromName(k.String())
		if !ok || got != k {
			t.Errorf("kindFromName(%q) = %v, %v; want %v, true", k.String(), got, ok, k)
		}
	}
}

func TestKindFromNameUnknown(t *testing.T) {
	if _, ok := kindFromName("NotAKind"); ok {
		t.Error("kindFromName should reject an unrecognized name")
	}
}

func TestAnnotateWrapsPlainError(t *testing.T) {
	err := annotate(bytesErr("boom"), 3)
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("annotate should preserve the underlying message, got %q", err.Error())
	}
}

func TestAnnotateNil(t *testing.T) {
	if annotate(nil, 0) != nil {
		t.Error("annotate(nil, ...) should return nil")
	}
}

type bytesErr string

func (e bytesErr) Error() string { return string(e) }
