package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies a protocol step recorded in the progress log.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageTrapdoor  Stage = "trapdoor"
	StageNormalize Stage = "normalize"
	StageDigest    Stage = "digest"
	StageSign      Stage = "sign"
	StageSubmit    Stage = "submit"
	StageResult    Stage = "result"
	StageError     Stage = "error"
)

// ProgressEntry is one human-readable stage marker.
type ProgressEntry struct {
	Stage    Stage
	Message  string
	At       time.Time
	Terminal bool
}

// ProgressLog is the append-only log of one search invocation.
type ProgressLog struct {
	InvocationID uuid.UUID
	entries      []ProgressEntry
}

// NewProgressLog starts an empty log for a fresh invocation.
func NewProgressLog() *ProgressLog {
	return &ProgressLog{InvocationID: uuid.New()}
}

func (l *ProgressLog) append(stage Stage, msg string, terminal bool) ProgressEntry {
	e := ProgressEntry{Stage: stage, Message: msg, At: time.Now(), Terminal: terminal}
	l.entries = append(l.entries, e)
	return e
}

// Append adds a non-terminal entry.
func (l *ProgressLog) Append(stage Stage, msg string) ProgressEntry {
	return l.append(stage, msg, false)
}

// Finish adds the terminal entry of the invocation.
func (l *ProgressLog) Finish(stage Stage, msg string) ProgressEntry {
	return l.append(stage, msg, true)
}

// Entries returns a copy of the entries in order.
func (l *ProgressLog) Entries() []ProgressEntry {
	if l == nil {
		return nil
	}
	out := make([]ProgressEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
