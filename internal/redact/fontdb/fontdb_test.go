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

package fontdb

import "testing"

func TestNormalizeFamily(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Arial-BoldMT", "arialboldmt"},
		{"arial bold mt", "arialboldmt"},
		{"Times New Roman", "timesnewroman"},
		{"DejaVu_Sans", "dejavusans"},
	}
	for _, c := range cases {
		if got := normalizeFamily(c.in); got != c.want {
			t.Errorf("normalizeFamily(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecompose(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Arial-BoldMT", "Arial"},
		{"TimesNewRomanPSMT", "TimesNewRoman"},
		{"Helvetica-Oblique", "Helvetica"},
		{"Courier", "Courier"},
	}
	for _, c := range cases {
		if got := decompose(c.in); got != c.want {
			t.Errorf("decompose(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveSubstitutionFallback(t *testing.T) {
	db := New(t.TempDir())
	if _, err := db.Resolve("Helvetica"); err == nil {
		t.Fatal("expected an error when no system fonts are installed in the scanned directories")
	}
}

func TestResolveUnknownName(t *testing.T) {
	db := New(t.TempDir())
	if _, err := db.Resolve("NotARealFontName"); err == nil {
		t.Fatal("expected an error for a name with no substitution entry")
	}
}
