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

package linearize

import (
	"os/exec"
	"path/filepath"
	"testing"
)

func TestNewQPDFLinearizerDefaultsBinary(t *testing.T) {
	l := NewQPDFLinearizer("").(*qpdfLinearizer)
	if l.binary != "qpdf" {
		t.Errorf("binary = %q, want %q", l.binary, "qpdf")
	}
}

func TestNewQPDFLinearizerKeepsExplicitBinary(t *testing.T) {
	l := NewQPDFLinearizer("/opt/bin/qpdf").(*qpdfLinearizer)
	if l.binary != "/opt/bin/qpdf" {
		t.Errorf("binary = %q, want %q", l.binary, "/opt/bin/qpdf")
	}
}

func TestLinearizeMissingBinary(t *testing.T) {
	l := NewQPDFLinearizer("pdf-masking-nonexistent-binary")
	dir := t.TempDir()
	err := l.Linearize(filepath.Join(dir, "in.pdf"), filepath.Join(dir, "out.pdf"))
	if err == nil {
		t.Fatal("expected an error when the linearizer binary cannot be found")
	}
}

// TestLinearizeRealBinary exercises an actual qpdf invocation when one is
// installed in the test environment; it is skipped otherwise.
func TestLinearizeRealBinary(t *testing.T) {
	if _, err := exec.LookPath("qpdf"); err != nil {
		t.Skip("qpdf not installed")
	}
	l := NewQPDFLinearizer("")
	dir := t.TempDir()
	err := l.Linearize(filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.pdf"))
	if err == nil {
		t.Fatal("expected an error when the input file does not exist")
	}
}
