package history

import "testing"

func TestLogBoundedFIFO(t *testing.T) {
	l := New(3)
	l.Add("a")
	l.Add("b")
	l.Add("c")
	l.Add("d")

	got := l.GetHistory()
	want := []string{"b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLogGetHistoryReturnsCopy(t *testing.T) {
	l := New(5)
	l.Add("a")
	got := l.GetHistory()
	got[0] = "mutated"

	if l.GetHistory()[0] != "a" {
		t.Errorf("GetHistory leaked internal slice to caller mutation")
	}
}

func TestLogLast(t *testing.T) {
	l := New(10)
	for _, e := range []string{"1", "2", "3", "4", "5"} {
		l.Add(e)
	}

	got := l.Last(2)
	if len(got) != 2 || got[0] != "4" || got[1] != "5" {
		t.Errorf("Last(2): got %v", got)
	}

	all := l.Last(0)
	if len(all) != 5 {
		t.Errorf("Last(0): got %d entries, want 5", len(all))
	}
}

func TestLogClear(t *testing.T) {
	l := New(5)
	l.Add("a")
	l.Clear()
	if len(l.GetHistory()) != 0 {
		t.Errorf("Clear did not empty the log")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := Success("click btn-1"); got != "SUCCESS: click btn-1" {
		t.Errorf("Success: got %q", got)
	}
	if got := Failure("click btn-1", "element detached"); got != "ERROR: click btn-1 failed. element detached" {
		t.Errorf("Failure: got %q", got)
	}
}
