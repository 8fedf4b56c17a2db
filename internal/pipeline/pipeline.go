// Package pipeline orchestrates the dumping workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/siddump/internal/config"
	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/dump/factory"
	"github.com/retroenv/siddump/internal/loader"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/player"
	"github.com/retroenv/siddump/internal/sid"
)

// Result summarizes a finished run.
type Result struct {
	Frames    int    // frames played
	Displayed int    // frames passed to the formatter
	MaxCycles uint64 // highest CPU cycle count of a play routine call
}

// Pipeline orchestrates the complete dumping workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
	stdout io.Writer
}

// New creates a new dumping pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
		stdout: os.Stdout,
	}
}

// Execute runs the complete dumping pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, outOpts options.Output) (Result, error) {
	formatter, err := p.createFormatter(opts, &outOpts)
	if err != nil {
		return Result{}, err
	}

	tune, err := p.loader.Load(opts)
	if err != nil {
		return Result{}, fmt.Errorf("loading tune: %w", err)
	}

	return p.ExecuteWithTune(ctx, tune, formatter, opts, outOpts)
}

// ExecuteWithTune runs the dumping pipeline with a pre-loaded tune and a configured formatter.
// This is useful for testing and programmatic usage where the tune is already in memory.
func (p *Pipeline) ExecuteWithTune(ctx context.Context, tune *loader.Tune, formatter dump.Formatter,
	opts options.Program, outOpts options.Output) (Result, error) {

	p.printInfo(opts, tune)

	mem := tune.Memory()
	play, err := player.New(p.logger, mem)
	if err != nil {
		return Result{}, fmt.Errorf("creating player: %w", err)
	}

	p.logger.Info("Calling init routine", log.Int("subtune", opts.Subtune))
	if err := play.Init(tune.InitAddress, opts.Subtune, tune.PlayAddress); err != nil {
		return Result{}, fmt.Errorf("initializing tune: %w", err)
	}

	p.logger.Info("Calling play routine",
		log.Int("seconds", outOpts.Seconds),
		log.Int("firstFrame", outOpts.FirstFrame))

	p.checkTerminal(formatter, outOpts)

	if err := formatter.Before(); err != nil {
		return Result{}, fmt.Errorf("preparing output: %w", err)
	}

	result, runErr := p.run(ctx, play, formatter, outOpts)
	if err := formatter.After(); err != nil && runErr == nil {
		runErr = fmt.Errorf("finishing output: %w", err)
	}
	if runErr != nil {
		return result, runErr
	}

	p.logger.Debug("Dump finished",
		log.Int("frames", result.Frames),
		log.Int("displayed", result.Displayed),
		log.String("maxCycles", fmt.Sprintf("%d", result.MaxCycles)))
	return result, nil
}

// createFormatter creates the formatter of the selected mode and configures it. Without a
// writer constructor in the options, outputs are created as files or written to the console.
func (p *Pipeline) createFormatter(opts options.Program, outOpts *options.Output) (dump.Formatter, error) {
	formatter, err := factory.New(p.logger, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("creating formatter: %w", err)
	}

	if outOpts.Create == nil {
		outOpts.Create = p.newWriter
	}
	if err := formatter.Configure(*outOpts); err != nil {
		return nil, fmt.Errorf("configuring formatter: %w", err)
	}
	return formatter, nil
}

// run calls the play routine once per frame and passes the displayable frames to the formatter.
func (p *Pipeline) run(ctx context.Context, play *player.Player, formatter dump.Formatter,
	outOpts options.Output) (Result, error) {

	var result Result
	mem := play.Memory()
	state := sid.New(outOpts.Duration(), outOpts.FirstFrame)

	for state.Playing() {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("dumping frame %d: %w", state.Frame, err)
		}

		cycles, err := play.PlayFrame()
		if err != nil {
			return result, fmt.Errorf("playing frame %d: %w", state.Frame, err)
		}

		state.Update(mem)
		state.Cycles = cycles
		result.MaxCycles = max(result.MaxCycles, cycles)

		if state.Displayable() {
			if err := formatter.PerFrame(state); err != nil {
				return result, fmt.Errorf("processing frame %d: %w", state.Frame, err)
			}
			result.Displayed++
		}

		state.Tick()
		result.Frames++
	}

	return result, nil
}

// printInfo prints information about the tune being processed.
func (p *Pipeline) printInfo(opts options.Program, tune *loader.Tune) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing SID file",
		log.String("file", opts.Input),
		log.String("format", tune.Magic),
		log.String("name", tune.Name),
		log.String("author", tune.Author),
		log.String("released", tune.Released),
	)
	p.logger.Info("Tune addresses",
		log.String("load", fmt.Sprintf("$%04X", tune.LoadAddress)),
		log.String("init", fmt.Sprintf("$%04X", tune.InitAddress)),
		log.String("play", fmt.Sprintf("$%04X", tune.PlayAddress)),
	)
}

// checkTerminal warns if a screen table written to the console is wider than the terminal.
func (p *Pipeline) checkTerminal(formatter dump.Formatter, outOpts options.Output) {
	screen, ok := formatter.(dump.Screen)
	if !ok || outOpts.Output != "" || p.stdout != os.Stdout {
		return
	}

	width, ok := config.TerminalWidth()
	if ok && width < screen.Width() {
		p.logger.Warn("Terminal is narrower than the table, rows will wrap",
			log.Int("terminal", width),
			log.Int("table", screen.Width()))
	}
}

// newWriter creates the named output file, an empty name selects the console.
func (p *Pipeline) newWriter(name string) (io.WriteCloser, error) {
	if name == "" {
		return &nopCloser{p.stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return f, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method.
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
