package domain

// Outcome is the result of handling one source path.
type Outcome uint8

const (
	// OutcomeSkipped indicates the path is not eligible for transpilation.
	OutcomeSkipped Outcome = iota
	// OutcomeFresh indicates the cached artifact was still valid.
	OutcomeFresh
	// OutcomeTranspiled indicates a new artifact was written.
	OutcomeTranspiled
	// OutcomeDeleted indicates the artifact and cache record of a removed source were dropped.
	OutcomeDeleted
	// OutcomeFailed indicates the file could not be transpiled; its cache record was left untouched.
	OutcomeFailed
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeTranspiled:
		return "transpiled"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Summary counts outcomes over a batch of files.
type Summary struct {
	Transpiled int
	Fresh      int
	Deleted    int
	Failed     int
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	switch o {
	case OutcomeTranspiled:
		s.Transpiled++
	case OutcomeFresh:
		s.Fresh++
	case OutcomeDeleted:
		s.Deleted++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
	}
}

// Merge adds the counts of other.
func (s *Summary) Merge(other Summary) {
	s.Transpiled += other.Transpiled
	s.Fresh += other.Fresh
	s.Deleted += other.Deleted
	s.Failed += other.Failed
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
