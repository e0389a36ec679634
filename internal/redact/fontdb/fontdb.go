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

// Package fontdb implements the concrete [outline.SystemFontDB] of
// §4.2 steps 2-4: an exact PostScript-name match against the system's
// installed font files, a decomposed-name heuristic for names like
// "Arial-BoldMT" when no exact match exists, and a fixed substitution
// table for the PDF standard 14 names as a last resort.
package fontdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"

	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// searchDirs lists the conventional system font directories across
// the platforms this tool is built for; missing directories are
// skipped silently.
var searchDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

// substitutes is the fixed substitution table of §4.2 step 4: a
// standard-14 PostScript name maps to a short list of acceptable
// replacement family names to try, in order, when no exact or
// decomposed match is installed.
var substitutes = map[string][]string{
	"Helvetica":             {"Arial", "Liberation Sans", "DejaVu Sans", "Nimbus Sans"},
	"Helvetica-Bold":        {"Arial Bold", "Liberation Sans Bold", "DejaVu Sans Bold"},
	"Helvetica-Oblique":     {"Arial Italic", "Liberation Sans Italic", "DejaVu Sans Oblique"},
	"Helvetica-BoldOblique": {"Arial Bold Italic", "Liberation Sans Bold Italic"},
	"Times-Roman":           {"Times New Roman", "Liberation Serif", "DejaVu Serif", "Nimbus Roman"},
	"Times-Bold":            {"Times New Roman Bold", "Liberation Serif Bold"},
	"Times-Italic":          {"Times New Roman Italic", "Liberation Serif Italic"},
	"Times-BoldItalic":      {"Times New Roman Bold Italic", "Liberation Serif Bold Italic"},
	"Courier":               {"Courier New", "Liberation Mono", "DejaVu Sans Mono", "Nimbus Mono"},
	"Courier-Bold":          {"Courier New Bold", "Liberation Mono Bold"},
	"Courier-Oblique":       {"Courier New Italic", "Liberation Mono Italic"},
	"Courier-BoldOblique":   {"Courier New Bold Italic", "Liberation Mono Bold Italic"},
	"Symbol":                {"Symbol"},
	"ZapfDingbats":          {"Dingbats", "Wingdings"},
}

// DB is a lazily-populated, read-only-after-load index of the
// system's installed font files by PostScript name and by a
// lower-cased, whitespace/hyphen-stripped family name, per §5's
// "process-wide, lazily initialized, and read-only after load".
type DB struct {
	once      sync.Once
	extraDirs []string

	byPostScriptName map[string]string // PostScript name -> file path
	byFamilyKey      map[string]string // normalized family name -> file path
}

// New returns a DB that scans searchDirs (plus any directories named
// in extraDirs) on first use.
func New(extraDirs ...string) *DB {
	return &DB{extraDirs: extraDirs}
}

func (db *DB) load(extraDirs []string) {
	db.byPostScriptName = map[string]string{}
	db.byFamilyKey = map[string]string{}

	dirs := append(append([]string{}, searchDirs...), extraDirs...)
	for _, dir := range dirs {
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" && ext != ".ttc" {
				return nil
			}
			db.index(path)
			return nil
		})
	}
}

func (db *DB) index(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return
	}
	var buf sfnt.Buffer
	psName, err := font.Name(&buf, sfnt.NameIDPostScript)
	if err != nil || psName == "" {
		return
	}
	db.byPostScriptName[psName] = path
	db.byFamilyKey[normalizeFamily(psName)] = path
}

// normalizeFamily lower-cases name and strips whitespace and hyphens,
// so "Arial-BoldMT" and "arial bold mt" index the same.
func normalizeFamily(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Resolve implements [outline.SystemFontDB]. It tries, in order: an
// exact PostScript-name match, a decomposed-name heuristic match
// (stripping common style suffixes), and the fixed substitution
// table.
func (db *DB) Resolve(postScriptName string) ([]byte, error) {
	db.once.Do(func() { db.load(db.extraDirs) })

	if path, ok := db.byPostScriptName[postScriptName]; ok {
		return os.ReadFile(path)
	}
	if path, ok := db.byFamilyKey[normalizeFamily(postScriptName)]; ok {
		return os.ReadFile(path)
	}
	if path, ok := db.byFamilyKey[normalizeFamily(decompose(postScriptName))]; ok {
		return os.ReadFile(path)
	}

	for _, candidate := range substitutes[postScriptName] {
		if path, ok := db.byFamilyKey[normalizeFamily(candidate)]; ok {
			return os.ReadFile(path)
		}
	}

	return nil, rerr.New(rerr.OutlineConvert, fmt.Sprintf("no system font found for %q", postScriptName))
}

// decompose strips the common style suffixes a subsetted PDF
// PostScript name carries (e.g. "Arial-BoldMT" -> "Arial",
// "TimesNewRomanPSMT" -> "TimesNewRoman"), per §4.2 step 3.
func decompose(name string) string {
	name = strings.TrimSuffix(name, "MT")
	name = strings.TrimSuffix(name, "PS")
	if i := strings.IndexByte(name, '-'); i >= 0 {
		name = name[:i]
	}
	for _, suffix := range []string{"Bold", "Italic", "Oblique", "Regular"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
