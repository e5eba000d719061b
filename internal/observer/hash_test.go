package observer

import "testing"

func TestSemanticHashDeterministic(t *testing.T) {
	a := semanticHash("button", "submit-btn", "button", "", "", "", "Submit")
	b := semanticHash("button", "submit-btn", "button", "", "", "", "Submit")
	if a != b {
		t.Fatalf("same inputs produced different hashes: %q vs %q", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("expected 8 hex chars, got %d (%q)", len(a), a)
	}
}

func TestSemanticHashFieldBoundariesDontCollide(t *testing.T) {
	a := semanticHash("ab", "c", "", "", "", "", "")
	b := semanticHash("a", "bc", "", "", "", "", "")
	if a == b {
		t.Fatalf("field concatenation ambiguity produced identical hashes: %q", a)
	}
}

func TestSemanticHashDistinctForDistinctElements(t *testing.T) {
	a := semanticHash("button", "btn-1", "button", "", "", "", "Save")
	b := semanticHash("button", "btn-2", "button", "", "", "", "Cancel")
	if a == b {
		t.Fatalf("distinct elements hashed identically: %q", a)
	}
}

func TestFirstNonDigitRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"Item #42 in cart", 8, "Item # i"},
		{"12345", 5, ""},
		{"Price: $9.99", 20, "Price: $."},
	}
	for _, c := range cases {
		if got := firstNonDigitRunes(c.in, c.n); got != c.want {
			t.Errorf("firstNonDigitRunes(%q, %d): got %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestSemanticIDFormat(t *testing.T) {
	id := semanticID("button", "deadbeef", 2)
	if want := "button-deadbeef-2"; id != want {
		t.Errorf("semanticID: got %q, want %q", id, want)
	}
}
