package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"stackvis/internal/config"
	"stackvis/pkg/asm"
	"stackvis/pkg/color"
	"stackvis/pkg/driver"
	"stackvis/pkg/trace"
	"stackvis/pkg/view"
	"stackvis/pkg/vm"
)

type Runner struct {
	Help       bool          // Show help message
	Verbose    bool          // Enable verbose output
	NoColor    bool          // Disable colored output
	Step       bool          // Step manually instead of on a timer
	Quiet      bool          // Print console output only, no panels, no delay
	Interval   time.Duration // Timer cadence, overrides the config file when set
	MaxSteps   int           // Step limit, overrides the config file when set
	ConfigFile string        // Path to a stackvis.toml, searched for when empty
	TraceFile  string        // Where to save the CBOR trace of the run
	SourceFile string        // Path to the program listing

	In  io.Reader // step commands, defaults to stdin
	Out io.Writer // panels and console output, defaults to stdout
}

// Execute loads the listing and drives the machine until it stops
func (opts *Runner) Execute(ctx context.Context) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log.Debug("Configuration", "file", cfg.Path, "interval", cfg.Run.Interval, "max_steps", cfg.Run.MaxSteps)

	if opts.NoColor || !cfg.Display.Color {
		color.EnableColor(false)
	}

	listing, err := opts.loadListing()
	if err != nil {
		return err
	}

	for _, line := range listing.Unknown() {
		log.Debug("Unknown instruction", "line", line.Number, "mnemonic", line.Mnemonic)
		fmt.Fprintln(opts.Out, color.Warning(fmt.Sprintf("line %d: unknown instruction %s is skipped", line.Number, line.Mnemonic)))
	}

	if opts.Verbose {
		fmt.Fprintln(opts.Out, color.GreenText("=== Listing ==="))
		if len(listing.Lines) == 0 {
			fmt.Fprintln(opts.Out, color.GrayText("No instructions."))
		}
		for i, line := range listing.Lines {
			fmt.Fprintf(opts.Out, "%s: %s %s\n",
				color.CyanText(fmt.Sprintf("%d", i)),
				color.YellowText(line.Mnemonic),
				color.BlueText(fmt.Sprintf("%d", line.Instr.Operand)))
		}
	}

	panels := cfg.Display.Panels && !opts.Quiet

	machineOpts := []vm.Option{
		vm.WithMaxSteps(cfg.Run.MaxSteps),
		vm.WithMaxCallDepth(cfg.Run.MaxCallDepth),
		vm.WithLogger(log.Default()),
	}
	if !panels {
		machineOpts = append(machineOpts, vm.WithWriter(opts.Out))
	}

	m := vm.New(listing.Program(), machineOpts...)
	rec := trace.NewRecorder(m)
	v := view.New(listing, view.WithWindow(cfg.Display.Window))

	screen := termenv.NewOutput(opts.Out)
	draw := func() {
		if color.IsColorEnabled() {
			screen.ClearScreen()
		}
		fmt.Fprintln(opts.Out, v.Render(m))
	}

	observe := func(res vm.StepResult, err error) {
		v.Observe(res, err)
		if panels {
			draw()
		}
	}

	if panels {
		draw()
	}

	runErr := opts.drive(ctx, rec, cfg, observe)

	if opts.TraceFile != "" {
		if err := trace.Save(opts.TraceFile, rec.Trace()); err != nil {
			return err
		}
		log.Info("Trace saved", "file", opts.TraceFile, "steps", len(rec.Trace().Entries))
	}

	switch {
	case runErr == nil, errors.Is(runErr, driver.ErrQuit):
		return nil
	case vm.IsFault(runErr):
		if !panels {
			fmt.Fprintln(opts.Out, color.ErrorAt(m.IP(), runErr.Error()))
		}
		return fmt.Errorf("execution failed: %w", runErr)
	default:
		return runErr
	}
}

// drive picks the scheduling policy
func (opts *Runner) drive(ctx context.Context, s driver.Stepper, cfg *config.Config, observe driver.Observer) error {
	if opts.Step {
		return driver.Manual(ctx, s, opts.In, opts.Out, observe)
	}

	if opts.Quiet {
		return driver.Run(ctx, s, observe)
	}

	interval, err := cfg.IntervalDuration()
	if err != nil {
		return err
	}
	return driver.Ticker(ctx, s, interval, observe)
}

// loadConfig reads the configuration and applies command line overrides
func (opts *Runner) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.FindAndLoad(filepath.Dir(opts.SourceFile))
	}
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	if opts.Interval > 0 {
		cfg.Run.Interval = opts.Interval.String()
	}
	if opts.MaxSteps > 0 {
		cfg.Run.MaxSteps = opts.MaxSteps
	}

	return cfg, nil
}

// loadListing reads and decodes the source file
func (opts *Runner) loadListing() (*asm.Listing, error) {
	log.Info("Loading program", "file", opts.SourceFile)

	f, err := os.Open(opts.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", opts.SourceFile, err)
	}
	defer f.Close()

	listing, err := asm.Load(f)
	if err != nil {
		fmt.Fprintln(opts.Out, color.BrightRedText("=== Load Errors ==="))
		errs := []error{err}
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			errs = joined.Unwrap()
		}
		for _, e := range errs {
			fmt.Fprintln(opts.Out, color.Error(e.Error()))
		}
		return nil, fmt.Errorf("loading %s failed: %w", opts.SourceFile, err)
	}

	return listing, nil
}
