// Package locate implements the deterministic file locator: a lexical
// search strategy and a symbol-index strategy whose scores are summed,
// plus a path-hint bonus, truncated to a configured cap.
package locate

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"fixflow-agent/packages/config"
)

// Query carries the search signals extracted from an issue.
type Query struct {
	Keywords  []string
	Symbols   []string
	PathHints []string
}

// ScoredFile is a located file and its strategy-weighted total score.
type ScoredFile struct {
	Path  string
	Score int
}

// Locator ranks project files against a Query. A nil Searcher disables
// the lexical strategy entirely.
type Locator struct {
	cfg    config.LocatorConfig
	search Searcher
}

func New(cfg config.LocatorConfig, search Searcher) *Locator {
	return &Locator{cfg: cfg, search: search}
}

// Locate runs both strategies and returns the top files by descending
// total score, ties broken by discovery order. Given an unchanged tree
// and index, two runs produce identical ordering.
func (l *Locator) Locate(ctx context.Context, q Query) []ScoredFile {
	board := newScoreboard()

	// Strategy 1: lexical search over symbols first, then keywords.
	if l.search != nil {
		for _, term := range dedupe(q.Symbols, q.Keywords) {
			hits, err := l.search.Search(ctx, term)
			if err != nil {
				if errors.Is(err, exec.ErrNotFound) {
					slog.Warn("Search tool not found, lexical strategy disabled for this run")
					break
				}
				slog.Warn("Lexical search degraded", "term", term, "error", err)
				continue
			}
			// Per-term hit maps are iterated in sorted path order so
			// discovery order is stable across runs.
			for _, path := range sortedKeys(hits) {
				board.add(path, hits[path])
			}
		}
	}

	// Strategy 2: symbol index. Definition matches weigh twice as much
	// as textual hits.
	if len(q.Symbols) > 0 {
		index, err := LoadOrBuildIndex(l.cfg)
		if err != nil {
			slog.Warn("Symbol index unavailable", "error", err)
		} else {
			for _, sym := range q.Symbols {
				for _, path := range index[sym] {
					board.add(path, 2)
				}
			}
		}
	}

	// Bonus: path hints boost already-scored files only.
	for _, hint := range q.PathHints {
		norm := strings.ReplaceAll(hint, "\\", "/")
		for _, path := range board.order {
			if strings.Contains(strings.ReplaceAll(path, "\\", "/"), norm) {
				board.scores[path]++
			}
		}
	}

	ranked := board.ranked()
	if len(ranked) > l.cfg.MaxFiles {
		ranked = ranked[:l.cfg.MaxFiles]
	}
	slog.Info("Files located", "count", len(ranked))
	return ranked
}

// scoreboard accumulates scores while remembering first-touch order so
// ties sort by discovery, not lexically.
type scoreboard struct {
	scores map[string]int
	order  []string
}

func newScoreboard() *scoreboard {
	return &scoreboard{scores: map[string]int{}}
}

func (s *scoreboard) add(path string, n int) {
	if _, ok := s.scores[path]; !ok {
		s.order = append(s.order, path)
	}
	s.scores[path] += n
}

func (s *scoreboard) ranked() []ScoredFile {
	out := make([]ScoredFile, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, ScoredFile{Path: p, Score: s.scores[p]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// dedupe concatenates the given lists preserving first occurrence.
func dedupe(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
