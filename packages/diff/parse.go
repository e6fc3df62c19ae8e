package diff

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind classifies a hunk body line.
type LineKind int

const (
	Context LineKind = iota
	Add
	Remove
)

// Line is a single hunk body line with its marker stripped.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk describes one contiguous change at a declared line range.
type Hunk struct {
	OrigStart int
	OrigCount int
	NewStart  int
	NewCount  int
	Lines     []Line
}

// FileDiff holds all hunks for one file, in diff order.
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// FileSection is the raw diff text for a single file. IsNew marks sections
// whose old-file path is /dev/null.
type FileSection struct {
	Path  string
	IsNew bool
	Body  string
}

var (
	// blockRE matches a contiguous ---/+++/@@ diff block inside a larger
	// text blob. The hunk-body character class also swallows subsequent
	// file headers, so a multi-file diff is captured as one match.
	blockRE      = regexp.MustCompile(`(?m)---\s.+\n\+\+\+\s.+\n(?:@@.+@@.*\n(?:[+\- @\\].*\n?)*)+`)
	oldHeaderRE  = regexp.MustCompile(`(?m)^---\s+(?:a/)?(.+)$`)
	newHeaderRE  = regexp.MustCompile(`(?m)^\+\+\+\s+(?:b/)?(.+)$`)
	hunkHeaderRE = regexp.MustCompile(`^@@\s+-(\d+)(?:,(\d+))?\s+\+(\d+)(?:,(\d+))?\s+@@`)
)

// ExtractBlock pulls the first unified-diff block out of possibly noisy
// text (prose, code fences). When no block is found the raw text is
// returned unchanged so the caller can decide whether anything is
// applicable.
func ExtractBlock(raw string) string {
	if m := blockRE.FindString(raw); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(raw)
}

// SplitByFile splits a multi-file unified diff into ordered per-file
// sections. The old-file path names the section unless it is /dev/null,
// in which case the paired new-file path is the write target and the
// section is flagged as a file creation.
func SplitByFile(patch string) []FileSection {
	starts := oldHeaderRE.FindAllStringIndex(patch, -1)
	var sections []FileSection
	seen := map[string]int{}

	for i, loc := range starts {
		end := len(patch)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		body := patch[loc[0]:end]

		m := oldHeaderRE.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		oldPath := strings.TrimSpace(m[1])

		sec := FileSection{Path: oldPath, Body: body}
		if oldPath == "/dev/null" {
			nm := newHeaderRE.FindStringSubmatch(body)
			if nm == nil {
				continue
			}
			newPath := strings.TrimSpace(nm[1])
			if newPath == "" || newPath == "/dev/null" {
				continue
			}
			sec.Path = newPath
			sec.IsNew = true
		}

		if idx, ok := seen[sec.Path]; ok {
			sections[idx] = sec
			continue
		}
		seen[sec.Path] = len(sections)
		sections = append(sections, sec)
	}
	return sections
}

// ParseFileDiff parses one file section into its hunk sequence. Lines
// before the first hunk header (the ---/+++ headers, index lines) are
// ignored; a body line is an addition when it starts with '+', a removal
// when it starts with '-', and context otherwise, with exactly one
// leading marker character stripped.
func ParseFileDiff(sec FileSection) FileDiff {
	fd := FileDiff{Path: sec.Path}
	var cur *Hunk

	for _, line := range splitKeepEnds(sec.Body) {
		if m := hunkHeaderRE.FindStringSubmatch(line); m != nil {
			fd.Hunks = append(fd.Hunks, Hunk{
				OrigStart: atoiDefault(m[1], 1),
				OrigCount: atoiDefault(m[2], 1),
				NewStart:  atoiDefault(m[3], 1),
				NewCount:  atoiDefault(m[4], 1),
			})
			cur = &fd.Hunks[len(fd.Hunks)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			cur.Lines = append(cur.Lines, Line{Kind: Add, Text: line[1:]})
		case strings.HasPrefix(line, "-"):
			cur.Lines = append(cur.Lines, Line{Kind: Remove, Text: line[1:]})
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" marker, not content.
		default:
			text := line
			if len(text) > 0 && text[0] != '\n' {
				text = text[1:]
			}
			cur.Lines = append(cur.Lines, Line{Kind: Context, Text: text})
		}
	}
	return fd
}

// Parse extracts every FileDiff from a multi-file unified diff.
func Parse(patch string) []FileDiff {
	var out []FileDiff
	for _, sec := range SplitByFile(patch) {
		out = append(out, ParseFileDiff(sec))
	}
	return out
}

// HasHunks reports whether the text contains at least one parseable hunk.
// The caller treats a hunkless result as "no patch produced".
func HasHunks(patch string) bool {
	for _, fd := range Parse(patch) {
		if len(fd.Hunks) > 0 {
			return true
		}
	}
	return false
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// splitKeepEnds splits text into lines that retain their trailing newline,
// so rejoining with no separator reproduces the input byte for byte.
func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
