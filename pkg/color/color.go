package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI palette indices
const (
	Red     = lipgloss.Color("1")
	Green   = lipgloss.Color("2")
	Yellow  = lipgloss.Color("3")
	Blue    = lipgloss.Color("4")
	Magenta = lipgloss.Color("5")
	Cyan    = lipgloss.Color("6")
	White   = lipgloss.Color("7")
	Gray    = lipgloss.Color("8")

	BrightRed = lipgloss.Color("9")
)

var renderer = lipgloss.NewRenderer(os.Stdout)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		EnableColor(false)
	}
}

func isTerminal() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// EnableColor switches every style produced by this package between ANSI and plain text
func EnableColor(enable bool) {
	colorEnabled = enable
	if enable {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

func IsColorEnabled() bool {
	return colorEnabled
}

// Renderer returns the shared renderer so callers can build their own styles
func Renderer() *lipgloss.Renderer {
	return renderer
}

// Style returns a new style bound to the shared renderer
func Style() lipgloss.Style {
	return renderer.NewStyle()
}

func Colorize(color lipgloss.Color, text string) string {
	if !colorEnabled {
		return text
	}
	return Style().Foreground(color).Render(text)
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return Style().Bold(true).Render(text)
}

func Error(message string) string {
	if !colorEnabled {
		return message
	}
	return BrightRedText("Error: ") + message
}

func Warning(message string) string {
	if !colorEnabled {
		return message
	}
	return YellowText("Warning: ") + message
}

func Highlight(text, highlight string) string {
	if !colorEnabled {
		return text
	}
	return strings.ReplaceAll(text, highlight, YellowText(highlight))
}

// ErrorAt formats a message tied to an instruction index
func ErrorAt(ip int, message string) string {
	if !colorEnabled {
		return fmt.Sprintf("Error at %d: %s", ip, message)
	}

	return fmt.Sprintf("%s at %s: %s",
		BrightRedText(BoldText("Error")),
		CyanText(fmt.Sprintf("%d", ip)),
		message)
}
