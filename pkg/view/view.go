// Package view renders machine state as terminal panels: the listing with
// the current instruction highlighted, the operand stack, the call stack and
// the console.
package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stackvis/pkg/asm"
	"stackvis/pkg/color"
	"stackvis/pkg/vm"
)

// DefaultWindow is the number of listing lines shown around the current instruction.
const DefaultWindow = 12

// Machine is the read-only surface of vm.Machine the view needs.
type Machine interface {
	IP() int
	Running() bool
	Err() error
	Steps() int
	Stack() []int32
	Frames() []vm.Frame
}

// View accumulates console output and renders machine snapshots.
type View struct {
	listing *asm.Listing
	console []string
	window  int
	r       *lipgloss.Renderer
}

type Option func(*View)

// WithWindow sets how many listing lines are shown
func WithWindow(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.window = n
		}
	}
}

// WithRenderer sets the lipgloss renderer, mostly so tests can force plain output
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(v *View) { v.r = r }
}

// New creates a view over listing
func New(listing *asm.Listing, opts ...Option) *View {
	v := &View{
		listing: listing,
		window:  DefaultWindow,
		r:       color.Renderer(),
	}

	for _, o := range opts {
		o(v)
	}

	return v
}

// Observe records the console side effects of a step. A fault adds a
// diagnostic line.
func (v *View) Observe(res vm.StepResult, err error) {
	if res.Output != nil {
		v.console = append(v.console, res.Output.Text)
	}

	if err != nil && !errors.Is(err, vm.ErrHalted) {
		v.console = append(v.console, "fault: "+err.Error())
	}
}

// Console returns the console lines seen so far
func (v *View) Console() []string {
	return v.console
}

// Reset clears the console
func (v *View) Reset() {
	v.console = nil
}

// Render draws all panels for the current state of m
func (v *View) Render(m Machine) string {
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		v.codePanel(m),
		v.stackPanel(m),
		v.callStackPanel(m),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		v.consolePanel(),
		v.status(m),
	)
}

func (v *View) panel(title, body string) string {
	box := v.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	heading := v.r.NewStyle().Bold(true).Render(title)

	return box.Render(heading + "\n" + body)
}

// codePanel shows a window of the listing around ip
func (v *View) codePanel(m Machine) string {
	lines := v.listing.Lines
	ip := m.IP()

	if len(lines) == 0 {
		return v.panel("Code", "(empty)")
	}

	start := max(0, ip-v.window/2)
	end := min(len(lines), start+v.window)
	start = max(0, end-v.window)

	current := v.r.NewStyle().Foreground(color.White).Background(color.Red)
	if m.Err() != nil {
		current = current.Background(color.Magenta)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		text := lines[i].String()
		if i == ip {
			b.WriteString("> " + current.Render(text))
		} else {
			b.WriteString("  " + text)
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	if ip < 0 || ip >= len(lines) {
		b.WriteString("\n" + color.RedText(fmt.Sprintf("ip %d outside program", ip)))
	}

	return v.panel("Code", b.String())
}

// stackPanel lists operand stack values bottom first
func (v *View) stackPanel(m Machine) string {
	stack := m.Stack()
	if len(stack) == 0 {
		return v.panel("Stack", "")
	}

	values := make([]string, len(stack))
	for i, n := range stack {
		values[i] = strconv.FormatInt(int64(n), 10)
	}

	return v.panel("Stack", strings.Join(values, "\n"))
}

// callStackPanel lists the return ip of each frame, bottom first
func (v *View) callStackPanel(m Machine) string {
	frames := m.Frames()
	if len(frames) == 0 {
		return v.panel("Calls", "")
	}

	ips := make([]string, len(frames))
	for i, f := range frames {
		ips[i] = strconv.Itoa(f.ReturnIP)
	}

	return v.panel("Calls", strings.Join(ips, "\n"))
}

func (v *View) consolePanel() string {
	lines := v.console
	if len(lines) > v.window {
		lines = lines[len(lines)-v.window:]
	}
	return v.panel("Console", strings.Join(lines, "\n"))
}

// status summarizes whether the machine is running, halted or faulted
func (v *View) status(m Machine) string {
	switch {
	case m.Err() != nil:
		return color.ErrorAt(m.IP(), m.Err().Error())
	case m.Running():
		return color.GreenText(fmt.Sprintf("running  step %d  ip %d", m.Steps(), m.IP()))
	default:
		return color.GrayText(fmt.Sprintf("halted  step %d  ip %d", m.Steps(), m.IP()))
	}
}
