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

// Command pdf-masking runs the text-redaction pipeline over one or
// more job files, per §6: `pdf-masking <jobs.yaml> [<jobs.yaml>...]`.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tagawa0525/pdf-masking"
	"github.com/tagawa0525/pdf-masking/internal/redact/cache"
	"github.com/tagawa0525/pdf-masking/internal/redact/config"
	"github.com/tagawa0525/pdf-masking/internal/redact/fontdb"
	"github.com/tagawa0525/pdf-masking/internal/redact/linearize"
	"github.com/tagawa0525/pdf-masking/internal/redact/orchestrator"
	"github.com/tagawa0525/pdf-masking/internal/redact/raster"
	"github.com/tagawa0525/pdf-masking/internal/redact/rerr"
	"github.com/tagawa0525/pdf-masking/internal/redact/writer"
)

// version is the CLI's reported --version string.
var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := newLogger()
	defer logger.Sync()

	cmd := &cobra.Command{
		Use:           "pdf-masking <jobs.yaml> [<jobs.yaml>...]",
		Short:         "Redact readable text from PDF files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
	}

	failed := false
	cmd.RunE = func(_ *cobra.Command, jobFiles []string) error {
		for _, path := range jobFiles {
			if err := runJobFile(path, logger); err != nil {
				failed = true
			}
		}
		return nil
	}
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

// runJobFile loads one job file and its sibling settings file, then
// runs every job in it, printing one "OK <output>" or
// "ERROR <input>: <message>" line per job per §6's user-visible
// behavior. Returns a non-nil error if any job in the file failed.
func runJobFile(path string, logger *zap.Logger) error {
	jobFile, err := config.LoadJobFile(path)
	if err != nil {
		fmt.Printf("ERROR %s: %s\n", path, err)
		return err
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		fmt.Printf("ERROR %s: %s\n", path, err)
		return err
	}

	cacheStore, err := cache.New(settings.CacheDir)
	if err != nil {
		fmt.Printf("ERROR %s: %s\n", path, err)
		return err
	}

	deps := orchestrator.Dependencies{
		Rasterizer: raster.NewNativeRasterizer(),
		FontDB:     fontdb.New(),
		Cache:      cacheStore,
		Logger:     logger,
	}
	linearizer := linearize.NewQPDFLinearizer("")

	var failed bool
	for _, job := range jobFile.Jobs {
		resolved, err := config.Resolve(job, settings)
		if err != nil {
			fmt.Printf("ERROR %s: %s\n", job.Input, err)
			failed = true
			continue
		}
		if err := runJob(resolved, settings, deps, linearizer); err != nil {
			fmt.Printf("ERROR %s: %s\n", job.Input, err)
			failed = true
			continue
		}
		fmt.Printf("OK %s\n", resolved.Output)
	}

	if failed {
		return fmt.Errorf("one or more jobs in %s failed", path)
	}
	return nil
}

func runJob(job *config.ResolvedJob, settings config.Settings, deps orchestrator.Dependencies, linearizer linearize.Linearizer) error {
	in, err := os.Open(job.Input)
	if err != nil {
		return rerr.Wrap(rerr.PdfRead, err)
	}
	defer in.Close()

	r, err := pdf.NewReader(in, nil)
	if err != nil {
		return rerr.Wrap(rerr.PdfRead, err)
	}

	outPath := job.Output
	if job.Linearize {
		// write to a temp file first; the linearizer reads this back
		// and produces the final output.
		outPath += ".tmp"
	}

	f, err := os.Create(outPath)
	if err != nil {
		return rerr.Wrap(rerr.PdfWrite, err)
	}

	out, err := pdf.NewWriter(f, pdf.V1_7, nil)
	if err != nil {
		f.Close()
		return rerr.Wrap(rerr.PdfWrite, err)
	}

	doc := writer.NewDocument(out, r)
	if err := orchestrator.Process(r, doc, job, deps, settings.ParallelWorkers); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := doc.Close(); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := f.Close(); err != nil {
		return rerr.Wrap(rerr.PdfWrite, err)
	}

	if job.Linearize {
		defer os.Remove(outPath)
		if err := linearizer.Linearize(outPath, job.Output); err != nil {
			return err
		}
	}
	return nil
}

// newLogger builds a zap.Logger whose level is controlled by the
// RUST_LOG environment variable (off|error|warn|info|debug), kept
// under that name for compatibility with the tools this pipeline is
// commonly deployed alongside.
func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	enabled := true
	switch os.Getenv("RUST_LOG") {
	case "off":
		enabled = false
	case "error":
		level = zapcore.ErrorLevel
	case "warn":
		level = zapcore.WarnLevel
	case "info":
		level = zapcore.InfoLevel
	case "debug":
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !enabled {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.FatalLevel + 1)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
