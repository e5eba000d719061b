package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/flashloop/internal/history"
)

func TestPlannerPrependsDialogBannerAndHistory(t *testing.T) {
	fake := &fakeCompletionsClient{content: `{"thought":"x","actionType":"finish","isFinished":true}`}
	client, err := New(fake, Options{Model: "m"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := New(client, "log in as admin")

	hist := history.New(10)
	hist.Add(history.Success("click login-button"))

	_, err = p.Plan(context.Background(), "URL: https://x\n", "[Dialog pending: alert \"bye\" — respond with handle_dialog]", hist, "", nil, 1)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	sentUser := fake.lastReq.Messages[1].OfUser.Content.OfString.Value
	if !strings.Contains(sentUser, "Dialog pending") {
		t.Errorf("expected dialog banner in prompt, got %q", sentUser)
	}
	if !strings.Contains(sentUser, "SUCCESS: click login-button") {
		t.Errorf("expected history entry in prompt, got %q", sentUser)
	}
	if !strings.Contains(sentUser, "log in as admin") {
		t.Errorf("expected goal in prompt, got %q", sentUser)
	}
}

func TestPlannerOmitsHistoryBlockWhenEmpty(t *testing.T) {
	fake := &fakeCompletionsClient{content: `{"thought":"x","actionType":"finish","isFinished":true}`}
	client, _ := New(fake, Options{Model: "m"})
	p := New(client, "goal")

	_, err := p.Plan(context.Background(), "URL: x\n", "", history.New(5), "", nil, 0)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	sentUser := fake.lastReq.Messages[1].OfUser.Content.OfString.Value
	if strings.Contains(sentUser, "Recent history") {
		t.Errorf("did not expect history block, got %q", sentUser)
	}
}
