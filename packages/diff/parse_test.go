package diff

import (
	"strings"
	"testing"
)

const twoFileDiff = `--- a/src/user/user.service.ts
+++ b/src/user/user.service.ts
@@ -10,2 +10,3 @@
 context line
-old line
+new line
+added line
--- a/src/auth/login.ts
+++ b/src/auth/login.ts
@@ -1 +1 @@
-foo
+bar
`

func TestExtractBlock_WrappedInProse(t *testing.T) {
	raw := "Sure! Here is the fix you asked for:\n\n```diff\n" + twoFileDiff + "```\n\nLet me know if you need anything else."

	got := ExtractBlock(raw)

	if !strings.HasPrefix(got, "--- a/src/user/user.service.ts") {
		t.Fatalf("block does not start at the old-file marker:\n%s", got)
	}
	if strings.Contains(got, "Sure!") || strings.Contains(got, "Let me know") {
		t.Errorf("prose leaked into extracted block:\n%s", got)
	}
	if !strings.Contains(got, "--- a/src/auth/login.ts") {
		t.Errorf("second file section missing from extracted block:\n%s", got)
	}
}

func TestExtractBlock_NoDiffPassesThrough(t *testing.T) {
	raw := "I could not produce a patch for this issue."
	if got := ExtractBlock(raw); got != raw {
		t.Errorf("expected raw text passthrough, got %q", got)
	}
}

func TestSplitByFile_Order(t *testing.T) {
	sections := SplitByFile(twoFileDiff)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Path != "src/user/user.service.ts" {
		t.Errorf("first section path = %q", sections[0].Path)
	}
	if sections[1].Path != "src/auth/login.ts" {
		t.Errorf("second section path = %q", sections[1].Path)
	}
	if sections[0].IsNew || sections[1].IsNew {
		t.Error("existing-file sections flagged as new")
	}
}

func TestSplitByFile_DevNullMeansCreate(t *testing.T) {
	patch := "--- /dev/null\n+++ b/src/new/widget.ts\n@@ -0,0 +1,2 @@\n+line one\n+line two\n"

	sections := SplitByFile(patch)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Path != "src/new/widget.ts" {
		t.Errorf("target path = %q, want the paired new-file path", sections[0].Path)
	}
	if !sections[0].IsNew {
		t.Error("expected IsNew for a /dev/null old path")
	}
}

func TestParseFileDiff_HeaderDefaults(t *testing.T) {
	sec := FileSection{Path: "a.ts", Body: "--- a/a.ts\n+++ b/a.ts\n@@ -5 +7 @@\n-x\n+y\n"}

	fd := ParseFileDiff(sec)
	if len(fd.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(fd.Hunks))
	}
	h := fd.Hunks[0]
	if h.OrigStart != 5 || h.OrigCount != 1 || h.NewStart != 7 || h.NewCount != 1 {
		t.Errorf("omitted counts should default to 1, got %+v", h)
	}
}

func TestParseFileDiff_LineClassification(t *testing.T) {
	sec := FileSection{Path: "a.ts", Body: "--- a/a.ts\n+++ b/a.ts\n@@ -1,3 +1,3 @@\n context\n-removed\n+added\n"}

	fd := ParseFileDiff(sec)
	lines := fd.Hunks[0].Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 body lines, got %d", len(lines))
	}
	want := []struct {
		kind LineKind
		text string
	}{
		{Context, "context\n"},
		{Remove, "removed\n"},
		{Add, "added\n"},
	}
	for i, w := range want {
		if lines[i].Kind != w.kind || lines[i].Text != w.text {
			t.Errorf("line %d = {%d %q}, want {%d %q}", i, lines[i].Kind, lines[i].Text, w.kind, w.text)
		}
	}
}

func TestParseFileDiff_StopsAtNextHunkHeader(t *testing.T) {
	sec := FileSection{Path: "a.ts", Body: "--- a/a.ts\n+++ b/a.ts\n@@ -1,1 +1,1 @@\n-x\n+y\n@@ -9,1 +9,1 @@\n-p\n+q\n"}

	fd := ParseFileDiff(sec)
	if len(fd.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(fd.Hunks))
	}
	if len(fd.Hunks[0].Lines) != 2 || len(fd.Hunks[1].Lines) != 2 {
		t.Errorf("hunk bodies not split at the second header: %d, %d",
			len(fd.Hunks[0].Lines), len(fd.Hunks[1].Lines))
	}
	if fd.Hunks[1].OrigStart != 9 {
		t.Errorf("second hunk start = %d, want 9", fd.Hunks[1].OrigStart)
	}
}

func TestHasHunks(t *testing.T) {
	if HasHunks("just some prose, nothing to apply") {
		t.Error("prose should have no hunks")
	}
	if !HasHunks(twoFileDiff) {
		t.Error("a real diff should have hunks")
	}
}
