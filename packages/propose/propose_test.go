package propose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fixflow-agent/packages/source"
)

type fakeGen struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.response, f.err
}

func TestPatch_NoFilesSkipsGeneration(t *testing.T) {
	gen := &fakeGen{}
	patch, err := Patch(context.Background(), gen, "t", "b", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch != "" {
		t.Errorf("expected empty patch, got %q", patch)
	}
	if gen.calls != 0 {
		t.Error("generator called despite empty file set")
	}
}

func TestPatch_ExtractsDiffFromNoisyOutput(t *testing.T) {
	gen := &fakeGen{response: "Here you go:\n\n--- a/svc.ts\n+++ b/svc.ts\n@@ -1,1 +1,1 @@\n-a\n+b\nHope that helps!"}
	files := []source.File{{Path: "svc.ts", Content: "a\n"}}

	patch, err := Patch(context.Background(), gen, "title", "body", files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(patch, "--- a/svc.ts") {
		t.Errorf("patch = %q", patch)
	}
	if strings.Contains(patch, "Here you go") {
		t.Error("prose leaked into patch")
	}
	if !strings.Contains(gen.prompt, "### File: svc.ts") {
		t.Error("prompt missing source file block")
	}
}

func TestPatch_GeneratorErrorPropagates(t *testing.T) {
	gen := &fakeGen{err: errors.New("quota exhausted")}
	files := []source.File{{Path: "svc.ts", Content: "a\n"}}

	if _, err := Patch(context.Background(), gen, "t", "b", files); err == nil {
		t.Fatal("expected error")
	}
}
