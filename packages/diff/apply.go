package diff

import "strings"

// Apply patches original text with the hunks of fd and returns the result.
//
// Each hunk's anchor is its declared original start line adjusted only by
// the net line delta of the hunks already applied, so consecutive hunks
// whose headers refer to original-file coordinates land correctly. The
// replacement is purely positional: no context matching is attempted, and
// if the original content has drifted from what the diff assumes the
// output is deterministic but not guaranteed correct.
func Apply(original string, fd FileDiff) string {
	out := splitKeepEnds(original)
	offset := 0

	for _, h := range fd.Hunks {
		var repl []string
		for _, ln := range h.Lines {
			if ln.Kind == Remove {
				continue
			}
			repl = append(repl, ln.Text)
		}

		at := h.OrigStart - 1 + offset
		if at < 0 {
			at = 0
		}
		if at > len(out) {
			at = len(out)
		}
		end := at + h.OrigCount
		if end > len(out) {
			end = len(out)
		}

		patched := make([]string, 0, len(out)-(end-at)+len(repl))
		patched = append(patched, out[:at]...)
		patched = append(patched, repl...)
		patched = append(patched, out[end:]...)
		out = patched

		offset += len(repl) - h.OrigCount
	}

	return strings.Join(out, "")
}
