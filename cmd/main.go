package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"stackvis/internal/logger"
	"stackvis/internal/runner"
	"stackvis/pkg/color"
)

// Main entry point for the stackvis visualizer.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Step, "s", false, "Step manually (enter steps, r runs, q quits)")
	flag.BoolVar(&options.Quiet, "q", false, "Print console output only, without panels or delay")
	flag.DurationVar(&options.Interval, "i", 0, "Step interval when running on a timer (e.g., 100ms)")
	flag.IntVar(&options.MaxSteps, "m", 0, "Maximum number of steps (0 = unlimited)")
	flag.StringVar(&options.ConfigFile, "c", "", "Configuration file (default: nearest stackvis.toml)")
	flag.StringVar(&options.TraceFile, "t", "", "Save a CBOR trace of the run to this file")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := options.Execute(ctx); err != nil {
		stop()
		log.Fatal("Run failed", "error", err)
	}
}
