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

// Package config decodes job files and the optional settings file
// (§6 of the design document) and resolves the effective per-page
// ColorMode for a job.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tagawa0525/pdf-masking/internal/pagerange"
	"github.com/tagawa0525/pdf-masking/internal/redact/model"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
)

// PageList is a YAML sequence of page numbers and inclusive ranges
// (5, "3-7"), 1-based.
type PageList []int

// UnmarshalYAML accepts a sequence mixing bare integers and "N-M"
// range strings.
func (pl *PageList) UnmarshalYAML(node *yaml.Node) error {
	var raw []yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}
	seen := map[int]bool{}
	var out []int
	for _, n := range raw {
		var pr pagerange.PageRange
		switch n.Tag {
		case "!!int":
			var v int
			if err := n.Decode(&v); err != nil {
				return err
			}
			if err := pr.Set(fmt.Sprintf("%d", v)); err != nil {
				return err
			}
		default:
			var s string
			if err := n.Decode(&s); err != nil {
				return err
			}
			if err := pr.Set(s); err != nil {
				return err
			}
		}
		for _, p := range pr.Expand() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	*pl = out
	return nil
}

// Job describes one input/output PDF processing request.
type Job struct {
	Input          string           `yaml:"input"`
	Output         string           `yaml:"output"`
	ColorMode      *model.ColorMode `yaml:"color_mode,omitempty"`
	BwPages        PageList         `yaml:"bw_pages,omitempty"`
	GrayscalePages PageList         `yaml:"grayscale_pages,omitempty"`
	RgbPages       PageList         `yaml:"rgb_pages,omitempty"`
	SkipPages      PageList         `yaml:"skip_pages,omitempty"`
	DPI            *uint32          `yaml:"dpi,omitempty"`
	BgQuality      *uint8           `yaml:"bg_quality,omitempty"`
	FgQuality      *uint8           `yaml:"fg_quality,omitempty"`
	Linearize      *bool            `yaml:"linearize,omitempty"`
}

// JobFile is the root document of a job file: `jobs: [Job]`.
type JobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// Settings is the optional settings file sibling to a job file.
type Settings struct {
	ColorMode       model.ColorMode `yaml:"color_mode"`
	DPI             uint32          `yaml:"dpi"`
	FgDPI           uint32          `yaml:"fg_dpi"`
	BgQuality       uint8           `yaml:"bg_quality"`
	FgQuality       uint8           `yaml:"fg_quality"`
	ParallelWorkers int             `yaml:"parallel_workers"`
	CacheDir        string          `yaml:"cache_dir"`
	Linearize       bool            `yaml:"linearize"`
}

// DefaultSettings returns the built-in defaults named in §6.
func DefaultSettings() Settings {
	return Settings{
		ColorMode:       model.ColorRGB,
		DPI:             300,
		FgDPI:           100,
		BgQuality:       50,
		FgQuality:       30,
		ParallelWorkers: 0,
		CacheDir:        ".cache",
		Linearize:       true,
	}
}

// LoadJobFile parses a job file from path.
func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerr.Wrap(rerr.Config, err)
	}
	var jf JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, rerr.Wrap(rerr.Config, err)
	}
	return &jf, nil
}

// LoadSettings loads the settings file sibling to jobFilePath, if one
// exists ("settings.yaml" in the same directory). A missing settings
// file is not an error: built-in defaults are returned.
func LoadSettings(jobFilePath string) (Settings, error) {
	settings := DefaultSettings()
	path := filepath.Join(filepath.Dir(jobFilePath), "settings.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, rerr.Wrap(rerr.Config, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, rerr.Wrap(rerr.Config, err)
	}
	return settings, nil
}

// ResolvedJob is a Job with every optional field resolved against
// Settings defaults, and the per-page ColorMode lookup table built
// from the four page lists.
type ResolvedJob struct {
	Input     string
	Output    string
	DPI       uint32
	FgDPI     uint32
	BgQuality uint8
	FgQuality uint8
	Linearize bool

	defaultMode model.ColorMode
	perPage     map[int]model.ColorMode
}

// Resolve merges job with settings and validates that no page appears
// in more than one of the job's page lists.
func Resolve(job Job, settings Settings) (*ResolvedJob, error) {
	rj := &ResolvedJob{
		Input:     job.Input,
		Output:    job.Output,
		DPI:       settings.DPI,
		FgDPI:     settings.FgDPI,
		BgQuality: settings.BgQuality,
		FgQuality: settings.FgQuality,
		Linearize: settings.Linearize,
		perPage:   map[int]model.ColorMode{},
	}
	if job.DPI != nil {
		rj.DPI = *job.DPI
	}
	if job.BgQuality != nil {
		rj.BgQuality = *job.BgQuality
	}
	if job.FgQuality != nil {
		rj.FgQuality = *job.FgQuality
	}
	if job.Linearize != nil {
		rj.Linearize = *job.Linearize
	}

	rj.defaultMode = settings.ColorMode
	if job.ColorMode != nil {
		rj.defaultMode = *job.ColorMode
	}

	lists := []struct {
		pages PageList
		mode  model.ColorMode
	}{
		{job.BwPages, model.ColorBW},
		{job.GrayscalePages, model.ColorGrayscale},
		{job.RgbPages, model.ColorRGB},
		{job.SkipPages, model.ColorSkip},
	}
	for _, l := range lists {
		for _, page := range l.pages {
			if _, dup := rj.perPage[page]; dup {
				return nil, rerr.New(rerr.Config,
					fmt.Sprintf("page %d is listed in more than one color-mode page list", page))
			}
			rj.perPage[page] = l.mode
		}
	}
	return rj, nil
}

// ColorModeFor returns the effective ColorMode for a 1-based page
// number: an explicit per-page list entry if present, otherwise the
// job/settings default.
func (rj *ResolvedJob) ColorModeFor(page int) model.ColorMode {
	if mode, ok := rj.perPage[page]; ok {
		return mode
	}
	return rj.defaultMode
}
