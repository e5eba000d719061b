package emitter

import (
	"os"
	"strings"
	"testing"
)

func TestFileEmitterWritesScaffold(t *testing.T) {
	dir := t.TempDir()
	e := NewFile(dir)

	if err := e.Init("check out as guest"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := e.AppendCode("await page.getByTestId('checkout').click();", "start checkout"); err != nil {
		t.Fatalf("AppendCode: %v", err)
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	path := e.GetOutput()
	if path == "" {
		t.Fatal("expected non-empty output path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "test('check out as guest'") {
		t.Errorf("missing test title: %q", content)
	}
	if !strings.Contains(content, "// start checkout") {
		t.Errorf("missing thought comment: %q", content)
	}
	if !strings.HasSuffix(content, "});\n") {
		t.Errorf("expected scaffold to close with }); got %q", content)
	}
}

func TestFileEmitterAppendBeforeInitErrors(t *testing.T) {
	e := NewFile(t.TempDir())
	if err := e.AppendCode("x", ""); err == nil {
		t.Error("expected error when AppendCode called before Init")
	}
}

func TestSlugifyTruncatesAndSanitizes(t *testing.T) {
	got := slugify(`Fill "email" field & submit!!`)
	if strings.ContainsAny(got, `"&!`) {
		t.Errorf("slug contains unsafe characters: %q", got)
	}
	if len(got) > 40 {
		t.Errorf("slug exceeds 40 chars: %q", got)
	}
}

func TestSlugifyEmptyGoalFallsBackToRun(t *testing.T) {
	if got := slugify("   "); got != "run" {
		t.Errorf("got %q, want %q", got, "run")
	}
}
