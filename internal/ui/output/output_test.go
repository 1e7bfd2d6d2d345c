package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/chip/internal/ui/output"
)

func red(out *termenv.Output) string {
	return out.String("plain").Foreground(termenv.RGBColor("#FF0000")).String()
}

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew_BufferIsPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")

	var buf bytes.Buffer
	out := output.New(&buf)
	_, _ = out.WriteString(red(out))

	assert.Equal(t, "plain", buf.String())
}

func TestNew_NoColorWinsOverForce(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")

	var buf bytes.Buffer
	out := output.New(&buf)
	_, _ = out.WriteString(red(out))

	assert.Equal(t, "plain", buf.String())
}

func TestNew_ForceColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	t.Setenv("COLORTERM", "truecolor")

	var buf bytes.Buffer
	out := output.New(&buf)
	_, _ = out.WriteString(red(out))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "plain")
}

func TestNew_Nil(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
