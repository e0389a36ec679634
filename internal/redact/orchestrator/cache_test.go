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
	"testing"

	"github.com/tagawa0525/pdf-masking/internal/redact/cache"
	"github.com/tagawa0525/pdf-masking/internal/redact/config"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
)

func resolvedJob(t *testing.T) *config.ResolvedJob {
	t.Helper()
	settings := config.DefaultSettings()
	rj, err := config.Resolve(config.Job{Input: "in.pdf", Output: "out.pdf"}, settings)
	if err != nil {
		t.Fatal(err)
	}
	return rj
}

func TestCacheKeySettingsCarriesJobValues(t *testing.T) {
	rj := resolvedJob(t)
	got := cacheKeySettings(rj, model.ColorGrayscale)

	want := cache.KeySettings{
		BgQuality: rj.BgQuality,
		ColorMode: model.ColorGrayscale,
		DPI:       rj.DPI,
		FgDPI:     rj.FgDPI,
		FgQuality: rj.FgQuality,
	}
	if got != want {
		t.Errorf("cacheKeySettings = %+v, want %+v", got, want)
	}
}

func TestSaveThenLoadCachedOutputOutlines(t *testing.T) {
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	out := model.PageOutput{
		Kind:     model.OutputOutlines,
		Outlines: &model.OutlinesOutput{Content: []byte("q 1 0 0 1 0 0 cm Q")},
	}
	saveCachedOutput(store, "somekey", out)

	got, ok := loadCachedOutput(store, "somekey")
	if !ok {
		t.Fatal("expected a cache hit after saveCachedOutput")
	}
	if got.Kind != model.OutputOutlines {
		t.Errorf("Kind = %v, want OutputOutlines", got.Kind)
	}
	if string(got.Outlines.Content) != "q 1 0 0 1 0 0 cm Q" {
		t.Errorf("Outlines.Content = %q", got.Outlines.Content)
	}
}

func TestSaveThenLoadCachedOutputTextMasked(t *testing.T) {
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	out := model.PageOutput{
		Kind: model.OutputTextMasked,
		TextMasked: &model.TextMaskedOutput{
			Content: []byte("BT ET"),
			Regions: []model.TextRegion{
				{JBIG2: []byte{1, 2, 3}, BBox: model.BBox{X0: 1, Y0: 2, X1: 3, Y1: 4}, Width: 10, Height: 20},
			},
		},
	}
	saveCachedOutput(store, "textkey", out)

	got, ok := loadCachedOutput(store, "textkey")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got.TextMasked.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(got.TextMasked.Regions))
	}
	r := got.TextMasked.Regions[0]
	if r.Width != 10 || r.Height != 20 || r.BBox.X1 != 3 {
		t.Errorf("region = %+v, did not round-trip", r)
	}
}

func TestLoadCachedOutputMiss(t *testing.T) {
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loadCachedOutput(store, "nonexistent"); ok {
		t.Error("expected a cache miss for a key that was never saved")
	}
}
