package emitter

import (
	"strings"
	"testing"
)

func TestMemoryEmitterAccumulates(t *testing.T) {
	var e Emitter = NewMemory()

	if err := e.Init("log in as admin"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := e.AppendCode("await page.getByTestId('user').fill('admin');", "fill username"); err != nil {
		t.Fatalf("AppendCode: %v", err)
	}
	if err := e.AppendCode("await page.getByTestId('submit').click();", ""); err != nil {
		t.Fatalf("AppendCode: %v", err)
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	out := e.GetOutput()
	if !strings.Contains(out, "test('log in as admin'") {
		t.Errorf("missing test title: %q", out)
	}
	if !strings.Contains(out, "// fill username") {
		t.Errorf("missing thought comment: %q", out)
	}
	if !strings.Contains(out, "getByTestId('submit').click()") {
		t.Errorf("missing second statement: %q", out)
	}
	if !strings.HasSuffix(out, "});\n") {
		t.Errorf("expected output to close with }); got %q", out)
	}
}

func TestMemoryEmitterEscapesGoalQuotes(t *testing.T) {
	e := NewMemory()
	_ = e.Init("click the \"submit\" button, don't stop")
	out := e.GetOutput()
	if !strings.Contains(out, `don\'t stop`) {
		t.Errorf("expected escaped quote in goal title: %q", out)
	}
}
