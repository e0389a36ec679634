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

// Package orchestrator implements the per-page decision sequence of
// §4.7 (content analysis, outline-transform attempt, rasterizing
// fallback, BW/text-masked/MRC composition) and dispatches pages
// across a worker pool per §5, reassembling results in input-page
// order before handing them to the writer.
package orchestrator

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/matrix"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/cache"
	"github.com/tagawa0525/pdf-masking/internal/redact/config"
	"github.com/tagawa0525/pdf-masking/internal/redact/content"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/outline"
	"github.com/tagawa0525/pdf-masking/internal/redact/raster"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
	"github.com/tagawa0525/pdf-masking/internal/redact/writer"
	"github.com/tagawa0525/pdf-masking/pagetree"
)

// Dependencies bundles the shared, process-wide collaborators of §5:
// the rasterizer singleton, the read-only system-font database, the
// cache store, and the diagnostic logger. Any field may be nil; a nil
// Cache simply disables caching, a nil Logger silences warnings.
type Dependencies struct {
	Rasterizer raster.Rasterizer
	FontDB     outline.SystemFontDB
	Cache      *cache.Store
	Logger     *zap.Logger
}

// Process runs every page of r's document through the §4.7 decision
// sequence, dispatching across workers page-processing goroutines (0
// meaning one per hardware thread), and adds the results to doc in
// input-page order. A single page failure aborts the whole job with no
// partial output, per §7's propagation policy.
func Process(r pdf.Getter, doc *writer.Document, job *config.ResolvedJob, deps Dependencies, workers int) error {
	if meta := r.GetMeta(); meta != nil && meta.Trailer["Encrypt"] != nil {
		return rerr.New(rerr.PdfRead, "encrypted PDFs are not supported")
	}

	count, err := pagetree.CountPages(r)
	if err != nil {
		return rerr.Wrap(rerr.PdfRead, err)
	}

	n := workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > count {
		n = count
	}
	if n < 1 {
		n = 1
	}

	pages := make([]writer.SourcePage, count)
	errs := make([]error, count)

	indices := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageIndex := range indices {
				sp, err := processPage(r, pageIndex, job, deps)
				pages[pageIndex] = sp
				errs[pageIndex] = err
			}
		}()
	}
	for i := 0; i < count; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for i := range pages {
		if err := doc.AddPage(pages[i]); err != nil {
			return err
		}
	}
	return nil
}

// processPage runs steps 1-6 of §4.7 for one 0-based page index.
func processPage(r pdf.Getter, pageIndex int, job *config.ResolvedJob, deps Dependencies) (writer.SourcePage, error) {
	mode := job.ColorModeFor(pageIndex + 1)

	ref, dict, err := pagetree.GetPage(r, pageIndex)
	if err != nil {
		return writer.SourcePage{}, annotate(err, pageIndex)
	}
	mediaBox := mediaBoxOf(dict)

	// Step 1: Skip short-circuits before any content is read.
	if mode == model.ColorSkip {
		return writer.SourcePage{
			Ref: ref, Dict: dict, MediaBox: mediaBox,
			Output: model.PageOutput{Kind: model.OutputSkip, Skip: &model.SkipOutput{}},
		}, nil
	}

	resources, err := pdf.GetDict(r, dict["Resources"])
	if err != nil {
		return writer.SourcePage{}, annotate(err, pageIndex)
	}
	contentBytes, err := pageContent(r, dict)
	if err != nil {
		return writer.SourcePage{}, annotate(err, pageIndex)
	}

	key, _ := cache.Key(cacheKeySettings(job, mode), contentBytes)
	if deps.Cache != nil {
		if cached, ok := loadCachedOutput(deps.Cache, key); ok {
			return writer.SourcePage{Ref: ref, Dict: dict, MediaBox: mediaBox, Output: cached}, nil
		}
	}

	// Step 2: content analysis is fatal on failure, no fallback recovers it.
	result, err := content.Analyze(contentBytes)
	if err != nil {
		return writer.SourcePage{}, annotate(err, pageIndex)
	}
	if err := content.ReclassifyForms(result, r, resources); err != nil {
		return writer.SourcePage{}, annotate(err, pageIndex)
	}

	q := raster.Quality{DPI: job.DPI, FgDPI: job.FgDPI, BgQuality: job.BgQuality, FgQuality: job.FgQuality, ColorMode: mode}
	params := raster.DefaultTextMaskedParams(job.DPI)

	output, err := buildOutput(r, mode, pageIndex, result, resources, deps, q, params)
	if err != nil {
		return writer.SourcePage{}, err
	}

	if deps.Cache != nil {
		saveCachedOutput(deps.Cache, key, output)
	}

	return writer.SourcePage{Ref: ref, Dict: dict, MediaBox: mediaBox, Output: output}, nil
}

// buildOutput implements steps 3-6: the outline-transform attempt
// (gated on at least one resolved font, per §4.2's "absence is not
// fatal... but any later attempt to render a glyph from it fails the
// outline phase"), the rasterizing fallback, and the BW/text-masked/
// MRC composition. A page that draws a Form XObject skips both the
// outline transform and the text-masked composition and goes straight
// to the BW or full MRC output.
func buildOutput(
	r pdf.Getter, mode model.ColorMode, pageIndex int,
	result *content.Result, resources pdf.Dict,
	deps Dependencies, q raster.Quality, params raster.TextMaskedParams,
) (model.PageOutput, error) {
	fonts := parseFonts(r, resources, deps.FontDB)
	if len(fonts) > 0 && !result.HasFormXObject {
		transformed, err := outline.Transform(result.Stripped, matrix.Identity, fontLookup(fonts))
		if err == nil {
			patches := imagePatches(r, resources, result, deps.Logger, pageIndex)
			return model.PageOutput{
				Kind:         model.OutputOutlines,
				Outlines:     &model.OutlinesOutput{Content: transformed},
				ImagePatches: patches,
			}, nil
		}
		if deps.Logger != nil {
			deps.Logger.Warn("outline transform failed, falling back to rasterization",
				zap.Int("page", pageIndex+1), zap.Error(err))
		}
	}

	img, err := deps.Rasterizer.Render(r, pageIndex, q.DPI)
	if err != nil {
		return model.PageOutput{}, rerr.Wrap(rerr.Render, err).OnPage(pageIndex)
	}

	if mode == model.ColorBW {
		bw, err := raster.ComposeBW(img)
		if err != nil {
			return model.PageOutput{}, annotate(err, pageIndex)
		}
		return model.PageOutput{Kind: model.OutputBWMask, BWMask: bw}, nil
	}

	var regions []model.TextRegion
	if !result.HasFormXObject {
		regions, err = raster.ComposeTextMasked(img, params)
	}
	if err == nil && len(regions) > 0 {
		patches := imagePatches(r, resources, result, deps.Logger, pageIndex)
		return model.PageOutput{
			Kind:         model.OutputTextMasked,
			TextMasked:   &model.TextMaskedOutput{Content: result.Stripped, Regions: regions},
			ImagePatches: patches,
		}, nil
	}
	if err != nil && deps.Logger != nil {
		deps.Logger.Warn("text-masked segmentation failed, falling back to full MRC",
			zap.Int("page", pageIndex+1), zap.Error(err))
	}

	mrc, err := raster.Compose(img, q)
	if err != nil {
		return model.PageOutput{}, annotate(err, pageIndex)
	}
	return model.PageOutput{Kind: model.OutputMrc, Mrc: mrc}, nil
}

// pageContent reads and concatenates a page's /Contents, which may be
// a single stream or an array of streams (PDF 32000-1:2008 §7.8.2
// requires callers to treat the latter as if it were a single stream,
// token boundaries included).
func pageContent(r pdf.Getter, dict pdf.Dict) ([]byte, error) {
	obj, err := pdf.Resolve(r, dict["Contents"])
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case *pdf.Stream:
		return pdf.ReadAll(r, v)
	case pdf.Array:
		var buf []byte
		for _, item := range v {
			stm, err := pdf.GetStream(r, item)
			if err != nil {
				return nil, err
			}
			if stm == nil {
				continue
			}
			data, err := pdf.ReadAll(r, stm)
			if err != nil {
				return nil, err
			}
			buf = append(buf, data...)
			buf = append(buf, '\n')
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("orchestrator: unexpected /Contents type %T", obj)
	}
}

func mediaBoxOf(dict pdf.Dict) pdf.Array {
	if arr, ok := dict["MediaBox"].(pdf.Array); ok {
		return arr
	}
	return pagetree.A4
}

// parseFonts attempts to resolve every entry of resources' /Font
// dictionary (§4.2); unresolved fonts are silently omitted, not fatal,
// matching parse_page_fonts's contract.
func parseFonts(r pdf.Getter, resources pdf.Dict, fontDB outline.SystemFontDB) map[pdf.Name]*outline.ResolvedFont {
	fontDict, _ := pdf.GetDict(r, resources["Font"])
	if fontDict == nil {
		return nil
	}
	fonts := make(map[pdf.Name]*outline.ResolvedFont, len(fontDict))
	for name, ref := range fontDict {
		rf, err := outline.Resolve(r, ref, fontDB)
		if err != nil {
			continue
		}
		fonts[name] = rf
	}
	return fonts
}

func fontLookup(fonts map[pdf.Name]*outline.ResolvedFont) outline.FontLookup {
	return func(name pdf.Name) (*outline.ResolvedFont, error) {
		rf, ok := fonts[name]
		if !ok {
			return nil, rerr.New(rerr.OutlineConvert, fmt.Sprintf("font resource %q not resolved", name))
		}
		return rf, nil
	}
}

// imagePatches runs the §4.5 image-XObject redactor over every image
// placement the content analyzer recorded, against the page's
// white-fill rectangles. Decode/encode failures are logged and the
// image is left untouched, per §4.5's best-effort failure mode.
func imagePatches(r pdf.Getter, resources pdf.Dict, result *content.Result, logger *zap.Logger, pageIndex int) []model.ImagePatch {
	xobjDict, _ := pdf.GetDict(r, resources["XObject"])
	if xobjDict == nil {
		return nil
	}

	var patches []model.ImagePatch
	for _, placement := range result.Images {
		ref, ok := xobjDict[pdf.Name(placement.XObjectName)]
		if !ok {
			continue
		}
		stm, err := pdf.GetStream(r, ref)
		if err != nil || stm == nil {
			continue
		}

		redacted, err := raster.RedactImageXObject(r, stm, placement.BBox, result.WhiteFillRects)
		if err != nil {
			if logger != nil {
				logger.Warn("image redaction failed, leaving image unmodified",
					zap.Int("page", pageIndex+1), zap.String("xobject", placement.XObjectName), zap.Error(err))
			}
			continue
		}
		if redacted == nil || !redacted.Changed {
			continue
		}

		width, _ := pdf.GetInteger(r, stm.Dict["Width"])
		height, _ := pdf.GetInteger(r, stm.Dict["Height"])
		patches = append(patches, model.ImagePatch{
			XObjectName:      placement.XObjectName,
			Data:             redacted.Data,
			Filter:           string(redacted.Filter),
			ColorSpace:       string(redacted.ColorSpace),
			BitsPerComponent: redacted.BitsPerComponent,
			Width:            int(width),
			Height:           int(height),
		})
	}
	return patches
}

// annotate attaches a 0-based page index to err, preserving its
// [rerr.Error] kind where one is already present.
func annotate(err error, pageIndex int) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*rerr.Error); ok {
		return re.OnPage(pageIndex)
	}
	return rerr.Wrap(rerr.PdfRead, err).OnPage(pageIndex)
}
