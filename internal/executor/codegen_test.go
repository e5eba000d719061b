package executor

import (
	"testing"

	"github.com/hazyhaar/flashloop/internal/planner"
	"github.com/hazyhaar/flashloop/internal/synth"
)

func TestPrimitiveCodeFragmentClick(t *testing.T) {
	cand := &synth.Candidate{CodeFragment: "page.getByTestId('submit')"}
	plan := &planner.ActionPlan{ActionType: planner.ActionClick}
	got := primitiveCodeFragment(plan, cand, nil)
	want := "await page.getByTestId('submit').click();"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrimitiveCodeFragmentFillEscapesValue(t *testing.T) {
	cand := &synth.Candidate{CodeFragment: "page.getByPlaceholder('Name')"}
	plan := &planner.ActionPlan{ActionType: planner.ActionFill, Value: "O'Brien"}
	got := primitiveCodeFragment(plan, cand, nil)
	want := "await page.getByPlaceholder('Name').fill('O\\'Brien');"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrimitiveCodeFragmentDragAndDropUsesBothLocators(t *testing.T) {
	cand := &synth.Candidate{CodeFragment: "page.getByTestId('card')"}
	aux := &synth.Candidate{CodeFragment: "page.getByTestId('bin')"}
	plan := &planner.ActionPlan{ActionType: planner.ActionDragAndDrop}
	got := primitiveCodeFragment(plan, cand, aux)
	want := "await page.getByTestId('card').dragTo(page.getByTestId('bin'));"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuoteCSVListTrimsAndQuotes(t *testing.T) {
	got := quoteCSVList("a.png, b.png ,c.png")
	want := "'a.png', 'b.png', 'c.png'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuoteCSVListSingleFile(t *testing.T) {
	got := quoteCSVList("report.pdf")
	if got != "'report.pdf'" {
		t.Errorf("got %q", got)
	}
}
