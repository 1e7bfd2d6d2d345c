// Package shell runs the external transform command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Transformer)(nil)

// FilePlaceholder is replaced by the absolute source path in command arguments.
const FilePlaceholder = "{file}"

// FileEnvVar carries the absolute source path into the command's environment.
const FileEnvVar = "CHIP_SOURCE_FILE"

// Transformer implements ports.Transformer by piping the source text through a command.
// The source is written to stdin and the artifact is read from stdout. Without a
// configured command the source is returned unchanged.
type Transformer struct {
	logger  ports.Logger
	command []string
	dir     string
}

// NewTransformer creates a Transformer that copies sources until configured.
func NewTransformer(logger ports.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Configure sets the command and the directory it runs in.
func (t *Transformer) Configure(command []string, dir string) {
	t.command = command
	t.dir = dir
}

// Transform returns the artifact text for source.
func (t *Transformer) Transform(ctx context.Context, filename, source string) (string, error) {
	if len(t.command) == 0 {
		return source, nil
	}

	name := t.command[0]
	args := make([]string, len(t.command)-1)
	for i, arg := range t.command[1:] {
		args[i] = strings.ReplaceAll(arg, FilePlaceholder, filename)
	}

	cmdEnv := resolveEnvironment(os.Environ(), map[string]string{FileEnvVar: filename})

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = t.dir
	cmd.Env = cmdEnv
	cmd.Stdin = strings.NewReader(source)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrLog := &logWriter{logger: t.logger, prefix: filename + ": "}
	stderr := io.Writer(stderrLog)
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		stderr = io.MultiWriter(stderrLog, vertex.Stderr())
	}
	cmd.Stderr = stderr

	err := cmd.Run()
	_ = stderrLog.Close()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "exit_code", exitCode)
		return "", zerr.With(err, "path", filename)
	}

	return stdout.String(), nil
}

// logWriter forwards complete lines to the logger as warnings.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Warn(w.prefix + msg)
}

// allowListedEnvVars are the system environment variables inherited by the transform.
var allowListedEnvVars = map[string]struct{}{
	"HOME":      {},
	"TERM":      {},
	"USER":      {},
	"PATH":      {},
	"NODE_PATH": {},
	"TMPDIR":    {},
}

// resolveEnvironment keeps the allow-listed system variables and applies the overrides.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
