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

package writer

import (
	"fmt"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

func (d *Document) addSkip(p SourcePage) error {
	newRef, err := d.copier.CopyReference(p.Ref)
	if err != nil {
		return rerr.Wrap(rerr.PdfWrite, err)
	}
	d.tree.AppendPageRef(newRef)
	return nil
}

func (d *Document) addOutlines(p SourcePage) error {
	resources, err := d.copyResources(p.Dict)
	if err != nil {
		return err
	}
	if err := d.applyPatches(resources, p.Output.ImagePatches); err != nil {
		return err
	}

	contentRef, err := d.newContentStream(p.Output.Outlines.Content)
	if err != nil {
		return err
	}
	dict := pdf.Dict{
		"MediaBox":  p.MediaBox,
		"Contents":  contentRef,
		"Resources": resources,
	}
	_, err = d.tree.AppendPage(dict, 0)
	return err
}

func (d *Document) addTextMasked(p SourcePage) error {
	resources, err := d.copyResources(p.Dict)
	if err != nil {
		return err
	}
	if err := d.applyPatches(resources, p.Output.ImagePatches); err != nil {
		return err
	}
	xobjDict, _ := resources["XObject"].(pdf.Dict)
	if xobjDict == nil {
		xobjDict = pdf.Dict{}
	}

	content := append([]byte(nil), p.Output.TextMasked.Content...)
	for i, region := range p.Output.TextMasked.Regions {
		name := pdf.Name(fmt.Sprintf("Mask%d", i))
		ref, err := d.newRawStream(region.JBIG2, pdf.Dict{
			"Type":             pdf.Name("XObject"),
			"Subtype":          pdf.Name("Image"),
			"Width":            pdf.Integer(region.Width),
			"Height":           pdf.Integer(region.Height),
			"ColorSpace":       pdf.Name("DeviceGray"),
			"BitsPerComponent": pdf.Integer(1),
			"Filter":           pdf.Name("JBIG2Decode"),
			"Decode":           pdf.Array{pdf.Integer(1), pdf.Integer(0)},
		})
		if err != nil {
			return err
		}
		xobjDict[name] = ref

		w := region.BBox.X1 - region.BBox.X0
		h := region.BBox.Y1 - region.BBox.Y0
		content = append(content, []byte(fmt.Sprintf(
			"q %g 0 0 %g %g %g cm /%s Do Q\n", w, h, region.BBox.X0, region.BBox.Y0, name,
		))...)
	}
	resources["XObject"] = xobjDict

	contentRef, err := d.newContentStream(content)
	if err != nil {
		return err
	}
	dict := pdf.Dict{
		"MediaBox":  p.MediaBox,
		"Contents":  contentRef,
		"Resources": resources,
	}
	_, err = d.tree.AppendPage(dict, 0)
	return err
}

func (d *Document) addMrc(p SourcePage) error {
	mrc := p.Output.Mrc
	maskRef, err := d.newRawStream(mrc.Mask, pdf.Dict{
		"Type": pdf.Name("XObject"), "Subtype": pdf.Name("Image"),
		"Width": pdf.Integer(mrc.Width), "Height": pdf.Integer(mrc.Height),
		"ColorSpace": pdf.Name("DeviceGray"), "BitsPerComponent": pdf.Integer(1),
		"Filter": pdf.Name("JBIG2Decode"), "Decode": pdf.Array{pdf.Integer(1), pdf.Integer(0)},
	})
	if err != nil {
		return err
	}
	bgRef, err := d.newRawStream(mrc.Background, pdf.Dict{
		"Type": pdf.Name("XObject"), "Subtype": pdf.Name("Image"),
		"Width": pdf.Integer(mrc.Width), "Height": pdf.Integer(mrc.Height),
		"ColorSpace": pdf.Name("DeviceRGB"), "BitsPerComponent": pdf.Integer(8),
		"Filter": pdf.Name("DCTDecode"),
	})
	if err != nil {
		return err
	}
	fgRef, err := d.newRawStream(mrc.Foreground, pdf.Dict{
		"Type": pdf.Name("XObject"), "Subtype": pdf.Name("Image"),
		"Width": pdf.Integer(mrc.Width), "Height": pdf.Integer(mrc.Height),
		"ColorSpace": pdf.Name("DeviceRGB"), "BitsPerComponent": pdf.Integer(8),
		"Filter": pdf.Name("DCTDecode"), "SMask": maskRef,
	})
	if err != nil {
		return err
	}

	resources := pdf.Dict{"XObject": pdf.Dict{"Bg": bgRef, "Fg": fgRef}}
	w, h := mediaBoxSize(p.MediaBox)
	content := []byte(fmt.Sprintf(
		"q %g 0 0 %g 0 0 cm /Bg Do Q\nq %g 0 0 %g 0 0 cm /Fg Do Q\n", w, h, w, h,
	))
	contentRef, err := d.newContentStream(content)
	if err != nil {
		return err
	}
	dict := pdf.Dict{
		"MediaBox":  p.MediaBox,
		"Contents":  contentRef,
		"Resources": resources,
	}
	_, err = d.tree.AppendPage(dict, 0)
	return err
}

func (d *Document) addBWMask(p SourcePage) error {
	mask := p.Output.BWMask
	maskRef, err := d.newRawStream(mask.Mask, pdf.Dict{
		"Type": pdf.Name("XObject"), "Subtype": pdf.Name("Image"),
		"Width": pdf.Integer(mask.Width), "Height": pdf.Integer(mask.Height),
		"ColorSpace": pdf.Name("DeviceGray"), "BitsPerComponent": pdf.Integer(1),
		"Filter": pdf.Name("JBIG2Decode"), "Decode": pdf.Array{pdf.Integer(1), pdf.Integer(0)},
	})
	if err != nil {
		return err
	}
	resources := pdf.Dict{"XObject": pdf.Dict{"Im": maskRef}}
	w, h := mediaBoxSize(p.MediaBox)
	content := []byte(fmt.Sprintf("q %g 0 0 %g 0 0 cm /Im Do Q\n", w, h))
	contentRef, err := d.newContentStream(content)
	if err != nil {
		return err
	}
	dict := pdf.Dict{
		"MediaBox":  p.MediaBox,
		"Contents":  contentRef,
		"Resources": resources,
	}
	_, err = d.tree.AppendPage(dict, 0)
	return err
}

func mediaBoxSize(box pdf.Array) (w, h float64) {
	if len(box) < 4 {
		return 595.28, 841.89 // A4 fallback
	}
	num := func(o pdf.Object) float64 {
		switch v := o.(type) {
		case pdf.Integer:
			return float64(v)
		case pdf.Real:
			return float64(v)
		}
		return 0
	}
	return num(box[2]) - num(box[0]), num(box[3]) - num(box[1])
}

func resourcesOf(page pdf.Dict) pdf.Dict {
	res, _ := page["Resources"].(pdf.Dict)
	if res == nil {
		return pdf.Dict{}
	}
	out := pdf.Dict{}
	for k, v := range res {
		out[k] = v
	}
	return out
}
