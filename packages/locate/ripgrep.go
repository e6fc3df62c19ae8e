package locate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"

	"fixflow-agent/packages/config"
)

// Searcher runs a line-oriented text search for a single term and returns
// per-file match-line counts. Implementations must be safe to call once
// per search term.
type Searcher interface {
	Search(ctx context.Context, term string) (map[string]int, error)
}

// RipgrepSearcher shells out to rg with JSON output. A missing binary or
// a per-call timeout surfaces as an error the locator degrades on; it is
// never fatal to the pipeline.
type RipgrepSearcher struct {
	cfg config.LocatorConfig
}

func NewRipgrepSearcher(cfg config.LocatorConfig) *RipgrepSearcher {
	return &RipgrepSearcher{cfg: cfg}
}

type rgEvent struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
	} `json:"data"`
}

func (r *RipgrepSearcher) Search(ctx context.Context, term string) (map[string]int, error) {
	if info, err := os.Stat(r.cfg.ProjectPath); err != nil || !info.IsDir() {
		return map[string]int{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.SearchTimeout())
	defer cancel()

	args := []string{"--json", "--glob", "*" + r.cfg.FileExtension}
	for _, d := range r.cfg.SkipDirs {
		args = append(args, "--glob", "!"+d)
	}
	args = append(args, term, r.cfg.ProjectPath)

	out, err := exec.CommandContext(ctx, "rg", args...).Output()
	if err != nil {
		// Exit code 1 just means no matches.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && ctx.Err() == nil {
			return map[string]int{}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	hits := map[string]int{}
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		var ev rgEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		if ev.Type == "match" {
			hits[ev.Data.Path.Text]++
		}
	}
	return hits, nil
}
