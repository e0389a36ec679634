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
	"fmt"

	"github.com/tagawa0525/pdf-masking/internal/redact/cache"
	"github.com/tagawa0525/pdf-masking/internal/redact/config"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
)

// kindFromName parses the "kind" field of a cache entry's metadata.json,
// the inverse of [model.PageOutputKind.String].
func kindFromName(name string) (model.PageOutputKind, bool) {
	switch name {
	case "Outlines":
		return model.OutputOutlines, true
	case "TextMasked":
		return model.OutputTextMasked, true
	case "Mrc":
		return model.OutputMrc, true
	case "BwMask":
		return model.OutputBWMask, true
	case "Skip":
		return model.OutputSkip, true
	default:
		return 0, false
	}
}

func cacheKeySettings(job *config.ResolvedJob, mode model.ColorMode) cache.KeySettings {
	return cache.KeySettings{
		BgQuality: uint8(job.BgQuality),
		ColorMode: mode,
		DPI:       uint32(job.DPI),
		FgDPI:     uint32(job.FgDPI),
		FgQuality: uint8(job.FgQuality),
	}
}

// loadCachedOutput reconstructs a model.PageOutput from a cache entry,
// per the variant file-naming convention of §6. A missing or corrupt
// entry is treated as a cache miss, never an error: the page is simply
// reprocessed.
func loadCachedOutput(store *cache.Store, key string) (model.PageOutput, bool) {
	if !store.Has(key) {
		return model.PageOutput{}, false
	}
	meta, err := store.GetMetadata(key)
	if err != nil {
		return model.PageOutput{}, false
	}

	kind, ok := kindFromName(meta.KindName)
	if !ok {
		return model.PageOutput{}, false
	}
	out := model.PageOutput{Kind: kind}
	var loadErr error
	get := func(name string) []byte {
		data, err := store.GetFile(key, name)
		if err != nil {
			loadErr = err
		}
		return data
	}

	switch kind {
	case model.OutputSkip:
		out.Skip = &model.SkipOutput{}
	case model.OutputOutlines:
		out.Outlines = &model.OutlinesOutput{Content: get("stripped_content.bin")}
	case model.OutputTextMasked:
		content := get("stripped_content.bin")
		regions := make([]model.TextRegion, len(meta.BBoxes))
		for i, box := range meta.BBoxes {
			regions[i] = model.TextRegion{
				JBIG2: get(fmt.Sprintf("region_%d.jbig2", i)),
				BBox:  box,
			}
			if i < len(meta.RegionDims) {
				regions[i].Width = meta.RegionDims[i][0]
				regions[i].Height = meta.RegionDims[i][1]
			}
		}
		out.TextMasked = &model.TextMaskedOutput{Content: content, Regions: regions}
	case model.OutputMrc:
		out.Mrc = &model.MrcOutput{
			Mask:       get("mask.jbig2"),
			Background: get("background.jpg"),
			Foreground: get("foreground.jpg"),
			Width:      meta.Width,
			Height:     meta.Height,
		}
	case model.OutputBWMask:
		out.BWMask = &model.BWMaskOutput{
			Mask:   get("mask.jbig2"),
			Width:  meta.Width,
			Height: meta.Height,
		}
	default:
		return model.PageOutput{}, false
	}

	if loadErr != nil {
		return model.PageOutput{}, false
	}

	for _, p := range meta.Patches {
		out.ImagePatches = append(out.ImagePatches, model.ImagePatch{
			XObjectName:      p.Name,
			Data:             get(fmt.Sprintf("image_%s.bin", p.Name)),
			Filter:           p.Filter,
			ColorSpace:       p.ColorSpace,
			BitsPerComponent: p.BitsPerComponent,
			Width:            p.Width,
			Height:           p.Height,
		})
	}
	if loadErr != nil {
		return model.PageOutput{}, false
	}

	return out, true
}

// saveCachedOutput writes a page's output to store under key. Failures
// are non-fatal (§6 describes the cache as a pure accelerator): the
// already-produced output is still returned to the caller even if it
// could not be persisted.
func saveCachedOutput(store *cache.Store, key string, out model.PageOutput) {
	meta := &cache.Metadata{Kind: out.Kind, KindName: out.Kind.String()}
	files := map[string][]byte{}

	switch out.Kind {
	case model.OutputOutlines:
		files["stripped_content.bin"] = out.Outlines.Content
	case model.OutputTextMasked:
		files["stripped_content.bin"] = out.TextMasked.Content
		for i, region := range out.TextMasked.Regions {
			files[fmt.Sprintf("region_%d.jbig2", i)] = region.JBIG2
			meta.BBoxes = append(meta.BBoxes, region.BBox)
			meta.RegionDims = append(meta.RegionDims, [2]int{region.Width, region.Height})
		}
	case model.OutputMrc:
		files["mask.jbig2"] = out.Mrc.Mask
		files["background.jpg"] = out.Mrc.Background
		files["foreground.jpg"] = out.Mrc.Foreground
		meta.Width, meta.Height = out.Mrc.Width, out.Mrc.Height
	case model.OutputBWMask:
		files["mask.jbig2"] = out.BWMask.Mask
		meta.Width, meta.Height = out.BWMask.Width, out.BWMask.Height
	case model.OutputSkip:
		// no variant files
	}

	for _, p := range out.ImagePatches {
		files[fmt.Sprintf("image_%s.bin", p.XObjectName)] = p.Data
		meta.Patches = append(meta.Patches, cache.PatchMeta{
			Name:             p.XObjectName,
			Filter:           p.Filter,
			ColorSpace:       p.ColorSpace,
			BitsPerComponent: p.BitsPerComponent,
			Width:            p.Width,
			Height:           p.Height,
		})
	}

	_ = store.Put(key, meta, files)
}
