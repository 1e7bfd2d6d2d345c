// Package output builds termenv outputs that agree on when to emit color.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the profile used for terminal output.
// NO_COLOR forces Ascii; otherwise the profile advertised by the environment is used.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates an output for w, or stderr when w is nil.
// Color is emitted when w is a terminal or CLICOLOR_FORCE is set, and never under NO_COLOR.
func New(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	profile := termenv.Ascii
	if isTerminal(w) || os.Getenv("CLICOLOR_FORCE") != "" {
		profile = ColorProfile()
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
