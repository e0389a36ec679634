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

// Package cache implements the on-disk, content-addressed cache
// described in §3/§6: entries are keyed by the SHA-256 of the page's
// content bytes concatenated with the canonical settings JSON, so
// that an unchanged input processed with unchanged settings is always
// a cache hit (§8, universal invariant 3 and 5).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// KeySettings is the canonical, sorted-key, space-free JSON object
// used as part of the cache key, exactly as specified in §6:
// {"bg_quality":u8,"color_mode":"rgb|grayscale|bw","dpi":u32,"fg_dpi":u32,"fg_quality":u8}.
type KeySettings struct {
	BgQuality uint8           `json:"bg_quality"`
	ColorMode model.ColorMode `json:"color_mode"`
	DPI       uint32          `json:"dpi"`
	FgDPI     uint32          `json:"fg_dpi"`
	FgQuality uint8           `json:"fg_quality"`
}

// MarshalJSON renders ColorMode as its wire string so the struct
// satisfies the canonical schema verbatim (Go's encoding/json already
// sorts struct-tag field order by declaration, which here matches the
// alphabetical key order the schema requires).
func (s KeySettings) MarshalJSON() ([]byte, error) {
	type wire struct {
		BgQuality uint8  `json:"bg_quality"`
		ColorMode string `json:"color_mode"`
		DPI       uint32 `json:"dpi"`
		FgDPI     uint32 `json:"fg_dpi"`
		FgQuality uint8  `json:"fg_quality"`
	}
	return json.Marshal(wire{
		BgQuality: s.BgQuality,
		ColorMode: s.ColorMode.String(),
		DPI:       s.DPI,
		FgDPI:     s.FgDPI,
		FgQuality: s.FgQuality,
	})
}

// Key computes the cache key for a page's content bytes under the
// given settings: hex(sha256(content || canonicalJSON(settings))).
func Key(settings KeySettings, content []byte) (string, error) {
	js, err := json.Marshal(settings)
	if err != nil {
		return "", rerr.Wrap(rerr.Cache, err)
	}
	h := sha256.New()
	h.Write(content)
	h.Write(js)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PatchMeta records one cached image-XObject replacement (§4.5),
// stored alongside its raw bytes at "image_<name>.bin".
type PatchMeta struct {
	Name             string `json:"name"`
	Filter           string `json:"filter"`
	ColorSpace       string `json:"color_space"`
	BitsPerComponent int    `json:"bits_per_component"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
}

// Metadata is the JSON document stored at <cache_dir>/<key>/metadata.json.
type Metadata struct {
	Kind      model.PageOutputKind `json:"-"`
	KindName  string               `json:"kind"`
	Width     int                  `json:"width,omitempty"`
	Height    int                  `json:"height,omitempty"`
	ColorMode model.ColorMode      `json:"-"`
	BBoxes    []model.BBox         `json:"bboxes,omitempty"`

	// RegionDims holds the pixel [width, height] of each entry in
	// BBoxes, for the TextMasked variant's per-region JBIG2 submasks.
	RegionDims [][2]int    `json:"region_dims,omitempty"`
	Patches    []PatchMeta `json:"patches,omitempty"`
}

// Store is a directory-backed cache store. Get/Put are safe for
// concurrent use by multiple workers without external locking: each
// entry lives under its own key-named subdirectory, and entries are
// written via a temp-file-then-rename pattern so a reader never
// observes a partially-written entry.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, rerr.Wrap(rerr.Cache, err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) entryDir(key string) string {
	return filepath.Join(s.Dir, key)
}

// Has reports whether a complete entry exists for key.
func (s *Store) Has(key string) bool {
	_, err := os.Stat(filepath.Join(s.entryDir(key), "metadata.json"))
	return err == nil
}

// GetMetadata loads the metadata document for key.
func (s *Store) GetMetadata(key string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.entryDir(key), "metadata.json"))
	if err != nil {
		return nil, rerr.Wrap(rerr.Cache, err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, rerr.Wrap(rerr.Cache, err)
	}
	return &m, nil
}

// GetFile reads one named variant file (e.g. "mask.jbig2",
// "foreground.jpg") from the entry for key.
func (s *Store) GetFile(key, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.entryDir(key), name))
	if err != nil {
		return nil, rerr.Wrap(rerr.Cache, err)
	}
	return data, nil
}

// Put writes metadata and an arbitrary set of named variant files
// atomically: all files land in a temporary sibling directory which is
// then renamed into place, so a concurrent Get never observes a
// half-written entry.
func (s *Store) Put(key string, meta *Metadata, files map[string][]byte) error {
	tmp := s.entryDir(key) + fmt.Sprintf(".tmp-%d", os.Getpid())
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return rerr.Wrap(rerr.Cache, err)
	}
	defer os.RemoveAll(tmp)

	js, err := json.Marshal(meta)
	if err != nil {
		return rerr.Wrap(rerr.Cache, err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "metadata.json"), js, 0o644); err != nil {
		return rerr.Wrap(rerr.Cache, err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), data, 0o644); err != nil {
			return rerr.Wrap(rerr.Cache, err)
		}
	}

	dst := s.entryDir(key)
	_ = os.RemoveAll(dst)
	if err := os.Rename(tmp, dst); err != nil {
		return rerr.Wrap(rerr.Cache, err)
	}
	return nil
}
