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

// Package rerr collects the typed error taxonomy used across the
// redaction pipeline. Each variant carries a message and, where
// applicable, a page index, following the same typed-error-struct
// style as [pdf.MalformedFileError] rather than bare errors.New values.
package rerr

import "fmt"

// Kind identifies one taxonomy entry.
type Kind string

const (
	Config         Kind = "ConfigError"
	PdfRead        Kind = "PdfReadError"
	PdfWrite       Kind = "PdfWriteError"
	ContentStream  Kind = "ContentStreamError"
	OutlineConvert Kind = "OutlineConvertError"
	Render         Kind = "RenderError"
	Segmentation   Kind = "SegmentationError"
	Jbig2Encode    Kind = "Jbig2EncodeError"
	JpegEncode     Kind = "JpegEncodeError"
	ImageXObject   Kind = "ImageXObjectError"
	Cache          Kind = "CacheError"
	Linearize      Kind = "LinearizeError"
	IO             Kind = "IoError"
)

// Error is the common error type for every taxonomy entry. Page is -1
// when the error is not specific to a single page (e.g. ConfigError).
type Error struct {
	Kind    Kind
	Page    int
	Message string
	Err     error
}

// New creates a page-less error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Page: -1, Message: message}
}

// Wrap creates a page-less error of the given kind wrapping err.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Page: -1, Err: err}
}

// OnPage returns a copy of err annotated with a 0-based page index.
func (e *Error) OnPage(page int) *Error {
	cp := *e
	cp.Page = page
	return &cp
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Page >= 0 {
		return fmt.Sprintf("%s: page %d: %s", e.Kind, e.Page+1, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Recoverable reports whether the orchestrator should fall through to
// the next fallback instead of failing the whole page, per the
// propagation policy: OutlineConvertError and text-masked-segmentation
// failures recover into the next fallback; everything else is fatal
// to the page (and ImageXObjectError / Jbig2EncodeError raised from
// the optional image-redaction pass are logged and treated as a
// preserved-unmodified-image warning by the caller, not surfaced here).
func (e *Error) Recoverable() bool {
	return e.Kind == OutlineConvert || e.Kind == Segmentation
}
