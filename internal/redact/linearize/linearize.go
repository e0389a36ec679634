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

// Package linearize wraps the external linearizer CLI named in §6:
// "linearize(in_pdf_path, out_pdf_path) -> Result", invoked once per
// job on the fully assembled output PDF when the job's linearize
// setting is true. Unlike the rasterizer, this repository carries no
// in-process linearization code to adapt, so the external-process
// shape is kept rather than worked around.
package linearize

import (
	"bytes"
	"os/exec"

	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// Linearizer rewrites the PDF at inPath into a web-optimized,
// linearized copy at outPath.
type Linearizer interface {
	Linearize(inPath, outPath string) error
}

// qpdfLinearizer shells out to the qpdf command-line tool's
// --linearize mode, the de facto standard external linearizer for
// PDF files.
type qpdfLinearizer struct {
	binary string
}

// NewQPDFLinearizer returns a Linearizer that invokes the named qpdf
// binary (commonly just "qpdf", resolved via PATH).
func NewQPDFLinearizer(binary string) Linearizer {
	if binary == "" {
		binary = "qpdf"
	}
	return &qpdfLinearizer{binary: binary}
}

func (l *qpdfLinearizer) Linearize(inPath, outPath string) error {
	cmd := exec.Command(l.binary, "--linearize", inPath, outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return rerr.New(rerr.Linearize, l.binary+": "+err.Error()+": "+stderr.String())
	}
	return nil
}
