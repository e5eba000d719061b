package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/flashloop/internal/history"
)

// maxHistoryEntries bounds how much history context reaches the LLM per
// call (spec §4.7: "last ≤5 history entries").
const maxHistoryEntries = 5

// Planner composes the Loop-facing request (goal, symbolic state, pending
// dialog, bounded history, last error) into a Client.Plan call. The
// Client itself only knows how to talk to the chat-completions endpoint;
// Planner owns the policy of what context it's shown, matching the split
// between transport and request-shaping in the Anthropic adapter's
// Client.Complete / prepareRequest (goadesign-goa-ai/features/model/anthropic/client.go).
type Planner struct {
	client *Client
	goal   string
}

// New builds a Planner bound to a fixed goal for the lifetime of a Loop
// run; the client itself is stateless between calls (spec §4.7).
func New(client *Client, goal string) *Planner {
	return &Planner{client: client, goal: goal}
}

// Plan assembles one planning request and returns the next ActionPlan.
// dialogBanner, if non-empty, is prefixed to stateText so the planner
// sees a pending dialog before any element in the state (spec §5: dialog
// handling precedes element interaction within a step). lastError is the
// already-translated message from the previous Execute call, or empty.
func (p *Planner) Plan(ctx context.Context, stateText, dialogBanner string, hist *history.Log, lastError string, openTabTitles []string, step int) (*ActionPlan, error) {
	full := stateText
	if dialogBanner != "" {
		full = dialogBanner + "\n" + stateText
	}

	var historyBlock string
	if hist != nil {
		recent := hist.Last(maxHistoryEntries)
		if len(recent) > 0 {
			historyBlock = "\nRecent history:\n" + strings.Join(recent, "\n") + "\n"
		}
	}

	in := Input{
		Goal:          p.goal,
		StateText:     full + historyBlock,
		LastError:     lastError,
		OpenTabTitles: openTabTitles,
		StepNumber:    step,
	}

	plan, err := p.client.Plan(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("planner: plan step %d: %w", step, err)
	}
	return plan, nil
}
