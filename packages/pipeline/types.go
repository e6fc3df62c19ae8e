package pipeline

import (
	"fixflow-agent/packages/locate"
	"fixflow-agent/packages/publish"
	"fixflow-agent/packages/signals"
	"fixflow-agent/packages/source"
)

// Issue is the immutable input to one pipeline run.
type Issue struct {
	Number int
	Title  string
	Body   string
}

// Stage names the pipeline stages, in execution order.
type Stage string

const (
	StageSignals Stage = "signals"
	StageLocate  Stage = "locate"
	StageLoad    Stage = "load"
	StagePropose Stage = "propose"
	StagePublish Stage = "publish"
)

// Log is an explicit append-only sequence of human-readable entries.
// Stages never share a mutable log; the orchestrator appends a new value
// after each stage completes.
type Log []string

// Append returns a new Log with the lines added; the receiver is left
// untouched.
func (l Log) Append(lines ...string) Log {
	out := make(Log, 0, len(l)+len(lines))
	out = append(out, l...)
	return append(out, lines...)
}

// Result is the accumulated, per-stage output of one run. LastStage is
// always the last stage that fully completed, so a failure report can
// name where the pipeline stopped.
type Result struct {
	Issue     Issue
	LastStage Stage
	Signals   signals.Signals
	Ranked    []locate.ScoredFile
	Sources   []source.File
	Patch     string

	// NoPatch marks the distinct "nothing to apply" terminal condition,
	// as opposed to a publish failure.
	NoPatch bool

	Branch *publish.State
	PRURL  string
	Logs   Log
}
