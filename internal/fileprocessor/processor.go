// Package fileprocessor handles file selection and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/pipeline"
)

// ProcessFile dumps the input file of the options.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, outOpts options.Output) error {
	outOpts.Source = opts.Input
	outOpts.Output = opts.Output

	result, err := pipeline.New(logger).Execute(ctx, opts, outOpts)
	if err != nil {
		return fmt.Errorf("dumping %s: %w", opts.Input, err)
	}

	logger.Debug("Processed file",
		log.String("file", opts.Input),
		log.Int("frames", result.Displayed))
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("siddump", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
