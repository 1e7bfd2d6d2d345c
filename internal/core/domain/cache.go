// Package domain contains the core types of the incremental transpile cache.
package domain

// CacheRecord is the last known state of one transpiled source file.
type CacheRecord struct {
	// SourceFingerprint is the content digest of the source text that was transpiled.
	SourceFingerprint string `json:"source_fingerprint"`
	// OutputTimestamp is the artifact's modification time in Unix nanoseconds right after it was written.
	OutputTimestamp int64 `json:"output_timestamp"`
}

// StaleReason explains why a source file needs to be transpiled again.
type StaleReason string

const (
	// StaleNone indicates the cached artifact is still valid.
	StaleNone StaleReason = ""
	// StaleNotCached indicates there is no record for the file.
	StaleNotCached StaleReason = "not cached"
	// StaleChanged indicates the source text no longer matches the recorded fingerprint.
	StaleChanged StaleReason = "changed"
	// StaleNoTarget indicates the artifact is missing.
	StaleNoTarget StaleReason = "no target"
	// StaleTargetModified indicates the artifact was touched outside this tool.
	StaleTargetModified StaleReason = "target modified"
)

// Staleness checks a cache record against the current source fingerprint and artifact state.
// The source side and the artifact side are independent sources of truth: an artifact deleted or
// rewritten by hand is stale even when the source is untouched.
func Staleness(record *CacheRecord, fingerprint string, outputExists bool, outputMtime int64) StaleReason {
	switch {
	case record == nil:
		return StaleNotCached
	case record.SourceFingerprint != fingerprint:
		return StaleChanged
	case !outputExists:
		return StaleNoTarget
	case record.OutputTimestamp != outputMtime:
		return StaleTargetModified
	default:
		return StaleNone
	}
}

// NeedsTranspile reports whether the file described by the arguments must be transpiled.
func NeedsTranspile(record *CacheRecord, fingerprint string, outputExists bool, outputMtime int64) bool {
	return Staleness(record, fingerprint, outputExists, outputMtime) != StaleNone
}
