// Package pipeline sequences the strictly forward stages that turn an
// issue into a reviewable pull request: signal extraction, file location,
// source loading, patch proposal, and the publish transaction.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"fixflow-agent/packages/ai"
	"fixflow-agent/packages/config"
	"fixflow-agent/packages/diff"
	"fixflow-agent/packages/locate"
	"fixflow-agent/packages/propose"
	"fixflow-agent/packages/publish"
	"fixflow-agent/packages/signals"
	"fixflow-agent/packages/source"
)

// Deps carries the collaborators of one pipeline instance, injected
// explicitly. Search may be nil to disable the lexical strategy.
type Deps struct {
	Cfg       *config.Config
	Gen       ai.TextGenerator
	Search    locate.Searcher
	Publisher *publish.Publisher
}

// Run processes one issue to completion. No stage begins before the
// prior stage's full output is available, and no stage re-invokes an
// earlier one. The returned Result is populated as far as the run got;
// a non-nil error names the stage that halted it.
func Run(ctx context.Context, deps Deps, issue Issue) (*Result, error) {
	res := &Result{Issue: issue}

	sig, err := signals.Extract(ctx, deps.Gen, issue.Title, issue.Body)
	if err != nil {
		res.Logs = res.Logs.Append("signal extraction failed: " + err.Error())
		return res, fmt.Errorf("extract signals: %w", err)
	}
	res.Signals = sig
	res.LastStage = StageSignals
	res.Logs = res.Logs.Append(fmt.Sprintf("signals: %d keywords, %d symbols, %d path hints",
		len(sig.Keywords), len(sig.Symbols), len(sig.PathHints)))

	locator := locate.New(deps.Cfg.Locator, deps.Search)
	res.Ranked = locator.Locate(ctx, locate.Query{
		Keywords:  sig.Keywords,
		Symbols:   sig.Symbols,
		PathHints: sig.PathHints,
	})
	res.LastStage = StageLocate
	res.Logs = res.Logs.Append(fmt.Sprintf("located %d file(s)", len(res.Ranked)))

	paths := make([]string, 0, len(res.Ranked))
	for _, sf := range res.Ranked {
		paths = append(paths, sf.Path)
	}
	res.Sources = source.Load(paths, deps.Cfg.Source.MaxFileBytes)
	res.LastStage = StageLoad
	res.Logs = res.Logs.Append(fmt.Sprintf("loaded %d file(s)", len(res.Sources)))

	patch, err := propose.Patch(ctx, deps.Gen, issue.Title, issue.Body, res.Sources)
	if err != nil {
		res.Logs = res.Logs.Append("patch proposal failed: " + err.Error())
		return res, fmt.Errorf("propose patch: %w", err)
	}
	res.Patch = patch
	res.LastStage = StagePropose

	if patch == "" || !diff.HasHunks(patch) {
		res.NoPatch = true
		res.Logs = res.Logs.Append("no patch produced")
		slog.Info("Pipeline finished without a patch", "issue", issue.Number)
		return res, nil
	}
	res.Logs = res.Logs.Append(fmt.Sprintf("patch proposed (%d chars)", len(patch)))

	st, url, err := deps.Publisher.Publish(ctx, issue.Number, issue.Title, patch)
	res.Branch = st
	if err != nil {
		if st != nil {
			res.Logs = res.Logs.Append(fmt.Sprintf(
				"publish failed on branch %s after %d committed file(s): %v",
				st.Branch, len(st.Committed), err))
		} else {
			res.Logs = res.Logs.Append("publish failed: " + err.Error())
		}
		return res, fmt.Errorf("publish: %w", err)
	}
	res.PRURL = url
	res.LastStage = StagePublish
	res.Logs = res.Logs.Append("PR created: " + url)

	slog.Info("Pipeline completed", "issue", issue.Number, "pr", url)
	return res, nil
}
