// Package ui renders labsite in the terminal: the interactive browse view,
// the publications-per-year chart and the index status panel.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/digital-finance/labsite/internal/theme"
)

// Config configures rendering.
type Config struct {
	Output  io.Writer
	NoColor bool
	Theme   theme.Theme
}

// NewConfig returns a Config for output. Color is disabled when output is
// not a terminal or NO_COLOR is set.
func NewConfig(output io.Writer, t theme.Theme) Config {
	return Config{
		Output:  output,
		NoColor: !IsTTY(output) || DetectNoColor(),
		Theme:   t,
	}
}

// Styles returns the styles for the configured theme.
func (c Config) Styles() Styles {
	return NewStyles(c.Theme, c.NoColor)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Interactive reports whether an interactive view can run on output.
func Interactive(output io.Writer) bool {
	return IsTTY(output) && !DetectCI()
}
