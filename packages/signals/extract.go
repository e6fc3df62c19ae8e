// Package signals turns raw issue text into search signals for the file
// locator: keywords, symbol names, and path hints.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"fixflow-agent/packages/ai"
)

// Signals is produced once per issue and never mutated downstream.
type Signals struct {
	Keywords  []string `json:"keywords"`
	Symbols   []string `json:"symbols"`
	PathHints []string `json:"path_hints"`
}

const promptTemplate = `You are a code navigation assistant.
Given the issue below, extract structured information that will be used
to locate relevant source files in a TypeScript codebase.

Return ONLY a JSON object with these exact keys (no markdown fences, no prose):
{
  "keywords": ["<broad search term>", ...],
  "symbols": ["<FunctionName>", "<ClassName>", "<interfaceName>", ...],
  "path_hints": ["<partial/path/or/filename>", ...]
}

Rules:
- keywords: 3-8 lowercase words or short phrases useful for text search
- symbols: PascalCase or camelCase identifiers explicitly named in the issue
- path_hints: partial file paths or directory names mentioned in the issue
  (e.g. "auth/login.ts", "UserService", "prisma/schema.prisma")
- If a category has nothing, return an empty list []

Issue Title: %s
Issue Body:
%s
`

var (
	fenceOpenRE  = regexp.MustCompile("^```[a-z]*\n?")
	fenceCloseRE = regexp.MustCompile("\n?```$")
	wordRE       = regexp.MustCompile(`[a-zA-Z]{3,}`)
)

// Extract asks the generator for strict JSON and parses it defensively.
// A generator failure or malformed output degrades to naive tokenization
// of the issue text; only an issue that yields no tokens at all is an
// error.
func Extract(ctx context.Context, gen ai.TextGenerator, title, body string) (Signals, error) {
	raw, err := gen.Generate(ctx, fmt.Sprintf(promptTemplate, title, body))
	if err != nil {
		slog.Warn("Signal extraction call failed, falling back to tokenization", "error", err)
		return fallback(title, body)
	}

	raw = strings.TrimSpace(raw)
	raw = fenceOpenRE.ReplaceAllString(raw, "")
	raw = fenceCloseRE.ReplaceAllString(raw, "")

	var s Signals
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		slog.Warn("Could not parse signal JSON, falling back to tokenization", "raw", truncate(raw, 200))
		return fallback(title, body)
	}

	slog.Info("Issue analyzed",
		"keywords", len(s.Keywords),
		"symbols", len(s.Symbols),
		"pathHints", len(s.PathHints))
	return s, nil
}

// fallback tokenizes the issue text: the first eight alphabetic words of
// length three or more, lowercased and deduplicated.
func fallback(title, body string) (Signals, error) {
	words := wordRE.FindAllString(title+" "+body, -1)
	if len(words) > 8 {
		words = words[:8]
	}

	seen := map[string]bool{}
	var keywords []string
	for _, w := range words {
		w = strings.ToLower(w)
		if seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}

	if len(keywords) == 0 {
		return Signals{}, fmt.Errorf("no signals extractable from issue text")
	}
	return Signals{Keywords: keywords}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
