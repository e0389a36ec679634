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
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"sort"
)

// WriterOptions controls how a PDF file is written.
type WriterOptions struct {
	// ID is the file identifier to use. If nil, a new random-looking
	// identifier is derived from the document contents.
	ID [][]byte

	// Options selects non-default output encodings, e.g. [OptTextStringUtf8].
	Options OutputOptions
}

// Writer writes a new PDF file.
type Writer struct {
	Version Version

	w          io.Writer
	meta       MetaInfo
	opt        OutputOptions
	objects    map[Reference]Object
	order      []Reference
	lastRef    uint32
	catalogRef Reference
	infoRef    Reference
	headerLen  int64
	closed     bool
	autoclose  []io.Closer
}

// NewWriter creates a new PDF file, writing to w.
func NewWriter(w io.Writer, v Version, opt *WriterOptions) (*Writer, error) {
	pdf := &Writer{
		Version: v,
		w:       w,
		meta: MetaInfo{
			Version: v,
			Catalog: &Catalog{},
		},
		objects: map[Reference]Object{},
	}
	if opt != nil {
		pdf.meta.ID = opt.ID
		pdf.opt = opt.Options
	}

	header := fmt.Sprintf("%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", v)
	if _, err := io.WriteString(w, header); err != nil {
		return nil, err
	}
	pdf.headerLen = int64(len(header))

	pdf.catalogRef = pdf.Alloc()
	pdf.infoRef = pdf.Alloc()

	return pdf, nil
}

// GetMeta implements the [Getter] interface.
func (pdf *Writer) GetMeta() *MetaInfo { return &pdf.meta }

// GetOptions returns the output options configured for this writer.
func (pdf *Writer) GetOptions() OutputOptions { return pdf.opt }

// Get implements the [Getter] interface, allowing a [Writer] to read back
// objects it has already written.
func (pdf *Writer) Get(ref Reference, _ bool) (Native, error) {
	obj, ok := pdf.objects[ref]
	if !ok {
		return nil, nil
	}
	native, _ := obj.(Native)
	return native, nil
}

// Alloc allocates a new, unused object number.
func (pdf *Writer) Alloc() Reference {
	for {
		pdf.lastRef++
		ref := NewReference(pdf.lastRef, 0)
		if _, used := pdf.objects[ref]; !used {
			return ref
		}
	}
}

// Put writes obj under ref. Passing obj == nil is a no-op placeholder (the
// reference is still reserved).
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.closed {
		return errors.New("Put called on a closed Writer")
	}
	if obj == nil {
		return nil
	}
	if _, exists := pdf.objects[ref]; !exists {
		pdf.order = append(pdf.order, ref)
	}
	pdf.objects[ref] = obj
	return nil
}

// OpenStream opens a new stream object for writing. Filters are applied
// outermost-first: the first filter in filters is the outermost (closest to
// the caller).
func (pdf *Writer) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	streamDict := Dict{}
	for k, v := range dict {
		streamDict[k] = v
	}

	s := &Stream{Dict: streamDict}
	if _, exists := pdf.objects[ref]; !exists {
		pdf.order = append(pdf.order, ref)
	}
	pdf.objects[ref] = s

	var w io.WriteCloser = &writerStreamCloser{s: s}
	for i := len(filters) - 1; i >= 0; i-- {
		filter := filters[i]
		var err error
		w, err = filter.Encode(pdf.Version, w)
		if err != nil {
			return nil, err
		}
		name, parms, err := filter.Info(pdf.Version)
		if err != nil {
			return nil, err
		}
		appendFilter(streamDict, name, parms)
	}
	return w, nil
}

type writerStreamCloser struct {
	bytes.Buffer
	s *Stream
}

func (w *writerStreamCloser) Close() error {
	w.s.R = bytes.NewReader(w.Bytes())
	w.s.Dict["Length"] = Integer(w.Len())
	return nil
}

// AutoClose registers obj to be closed when the writer is closed.
func (pdf *Writer) AutoClose(obj io.Closer) {
	pdf.autoclose = append(pdf.autoclose, obj)
}

// Close finishes writing the PDF file: the document catalog and (if set)
// the information dictionary, the bodies of all indirect objects, the
// cross-reference table, and the trailer.
func (pdf *Writer) Close() error {
	if pdf.closed {
		return errors.New("Writer already closed")
	}
	pdf.closed = true

	if err := pdf.Put(pdf.catalogRef, AsDict(pdf.meta.Catalog)); err != nil {
		return err
	}
	if pdf.meta.Info != nil {
		if err := pdf.Put(pdf.infoRef, AsDict(pdf.meta.Info)); err != nil {
			return err
		}
	}

	if len(pdf.meta.ID) == 0 {
		h := md5.New()
		fmt.Fprintf(h, "%d-%d", pdf.lastRef, len(pdf.objects))
		id := h.Sum(nil)
		pdf.meta.ID = [][]byte{id, id}
	}

	refs := make([]Reference, len(pdf.order))
	copy(refs, pdf.order)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Number() < refs[j].Number() })

	offsets := map[uint32]int64{}

	buf := &countingWriter{w: pdf.w, n: pdf.headerLen}
	for _, ref := range refs {
		offsets[ref.Number()] = buf.n
		if _, err := fmt.Fprintf(buf, "%d %d obj\n", ref.Number(), ref.Generation()); err != nil {
			return err
		}
		native := pdf.objects[ref].AsPDF(pdf.opt)
		if err := native.PDF(buf); err != nil {
			return err
		}
		if _, err := io.WriteString(buf, "\nendobj\n"); err != nil {
			return err
		}
	}

	xrefStart := buf.n
	maxNum := pdf.lastRef
	if _, err := fmt.Fprintf(buf, "xref\n0 %d\n", maxNum+1); err != nil {
		return err
	}
	if _, err := io.WriteString(buf, "0000000000 65535 f \n"); err != nil {
		return err
	}
	for num := uint32(1); num <= maxNum; num++ {
		if off, ok := offsets[num]; ok {
			if _, err := fmt.Fprintf(buf, "%010d %05d n \n", off, 0); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(buf, "0000000000 65535 f \n"); err != nil {
				return err
			}
		}
	}

	trailer := Dict{
		"Size": Integer(maxNum + 1),
		"Root": pdf.catalogRef,
	}
	if pdf.meta.Info != nil {
		trailer["Info"] = pdf.infoRef
	}
	if len(pdf.meta.ID) == 2 {
		trailer["ID"] = Array{String(pdf.meta.ID[0]), String(pdf.meta.ID[1])}
	}
	if _, err := io.WriteString(buf, "trailer\n"); err != nil {
		return err
	}
	if err := trailer.PDF(buf); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(buf, "\nstartxref\n%d\n%%%%EOF\n", xrefStart); err != nil {
		return err
	}

	for _, c := range pdf.autoclose {
		if err := c.Close(); err != nil {
			return err
		}
	}
	if closer, ok := pdf.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
