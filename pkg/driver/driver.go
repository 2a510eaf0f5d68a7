// Package driver decides when a machine steps. The machine only knows how
// to execute one instruction; the drivers here supply the cadence.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"stackvis/pkg/vm"
)

// Stepper is anything that executes one instruction per call.
type Stepper interface {
	Step() (vm.StepResult, error)
}

// Observer is called after every step, including the one that stops the machine.
type Observer func(vm.StepResult, error)

// ErrQuit is returned by Manual when the user quits before the machine stops.
var ErrQuit = errors.New("stepping aborted")

// step performs one step and reports whether driving should stop
func step(s Stepper, observe Observer) (bool, error) {
	res, err := s.Step()
	if observe != nil {
		observe(res, err)
	}

	if err != nil {
		if errors.Is(err, vm.ErrHalted) {
			return true, nil
		}
		return true, err
	}

	return !res.Running, nil
}

// Ticker steps s once per interval until it stops, ctx is cancelled or a
// fault occurs. A non-positive interval steps back to back.
func Ticker(ctx context.Context, s Stepper, interval time.Duration, observe Observer) error {
	if interval <= 0 {
		return Run(ctx, s, observe)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if done, err := step(s, observe); done {
			return err
		}
	}
}

// Run steps s without delay until it stops or ctx is cancelled
func Run(ctx context.Context, s Stepper, observe Observer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if done, err := step(s, observe); done {
			return err
		}
	}
}

// Manual steps s once for every command read from in:
//
//	empty line or "s"  step once
//	"r"                run to the end without delay
//	"q"                stop (returns ErrQuit)
//
// Unrecognized commands are reported on prompt and ignored. Reaching the end
// of in stops stepping and returns ErrQuit.
func Manual(ctx context.Context, s Stepper, in io.Reader, prompt io.Writer, observe Observer) error {
	if prompt == nil {
		prompt = io.Discard
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(prompt, "[enter] step  [r] run  [q] quit > ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
			return ErrQuit
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		switch cmd := strings.TrimSpace(scanner.Text()); cmd {
		case "", "s":
			if done, err := step(s, observe); done {
				return err
			}
		case "r":
			return Run(ctx, s, observe)
		case "q":
			return ErrQuit
		default:
			fmt.Fprintf(prompt, "unknown command %q\n", cmd)
		}
	}
}

// Locked serializes calls to Step so a timer and a manual trigger can share
// one machine.
func Locked(s Stepper) Stepper {
	return &locked{s: s}
}

type locked struct {
	mu sync.Mutex
	s  Stepper
}

func (l *locked) Step() (vm.StepResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Step()
}
