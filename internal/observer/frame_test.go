package observer

import "testing"

func TestFrameSelectorPrecedence(t *testing.T) {
	cases := []struct {
		name string
		a    frameAttrs
		want string
	}{
		{"name wins", frameAttrs{Name: "checkout", ID: "ignored", Src: "ignored"}, `iframe[name="checkout"]`},
		{"id when no name", frameAttrs{ID: "payment-frame", Src: "ignored"}, `iframe[id="payment-frame"]`},
		{"src when no name or id", frameAttrs{Src: "/widgets/chat.html?session=1"}, `iframe[src*="/widgets/chat.html"]`},
		{"positional fallback", frameAttrs{Ordinal: 3}, "iframe:nth-of-type(3)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := frameSelector(c.a); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestBuildFrameSelectorChain(t *testing.T) {
	chain := []frameAttrs{
		{Name: "outer"},
		{ID: "inner"},
	}
	got := buildFrameSelectorChain(chain)
	want := []string{`iframe[name="outer"]`, `iframe[id="inner"]`}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chain[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
