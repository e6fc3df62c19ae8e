// Package propose asks the text-generation collaborator for a unified
// diff and extracts the diff block from its possibly noisy output.
package propose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fixflow-agent/packages/ai"
	"fixflow-agent/packages/diff"
	"fixflow-agent/packages/source"
)

const promptTemplate = `You are an expert TypeScript backend engineer.
Your task is to produce a minimal, correct unified diff that resolves the
issue described below.

Rules:
- Output ONLY a unified diff (--- / +++ / @@ lines). No explanations.
- Use paths relative to the project root (e.g. src/user/user.service.ts).
- Make the smallest change that fixes the issue; do not refactor unrelated code.
- If multiple files need to change, include all of them in the same diff.
- Follow the existing code style (spacing, naming, import order) exactly.

Issue:
Title: %s
Body:
%s

Relevant source files:
%s

Unified diff:
`

// Patch asks the generator for a diff given the issue and loaded sources.
// An empty file set short-circuits to an empty patch. When the response
// contains no recognizable diff block the raw text is passed through so
// the caller can report "no patch produced".
func Patch(ctx context.Context, gen ai.TextGenerator, title, body string, files []source.File) (string, error) {
	if len(files) == 0 {
		slog.Warn("No file contents available, skipping patch generation")
		return "", nil
	}

	prompt := fmt.Sprintf(promptTemplate, title, body, formatFilesBlock(files))
	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("patch generation: %w", err)
	}

	patch := diff.ExtractBlock(raw)
	slog.Info("Patch generated", "chars", len(patch))
	return patch, nil
}

func formatFilesBlock(files []source.File) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("### File: %s\n```\n%s\n```", f.Path, f.Content))
	}
	return strings.Join(parts, "\n\n")
}
