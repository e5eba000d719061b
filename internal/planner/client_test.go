package planner

import (
	"context"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type fakeCompletionsClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionNewParams
}

func (f *fakeCompletionsClient) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastReq = body
	if f.err != nil {
		return nil, f.err
	}
	resp := &openai.ChatCompletion{}
	resp.Choices = []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: f.content}},
	}
	return resp, nil
}

func TestNewRejectsNilClient(t *testing.T) {
	if _, err := New(nil, Options{Model: "m"}); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestNewRejectsEmptyModel(t *testing.T) {
	if _, err := New(&fakeCompletionsClient{}, Options{}); err == nil {
		t.Error("expected error for empty model")
	}
}

func TestPlanDecodesAndValidates(t *testing.T) {
	fake := &fakeCompletionsClient{content: `{"thought":"click submit","actionType":"click","targetId":"button-aaaaaaaa-0","isFinished":false}`}
	c, err := New(fake, Options{Model: "llama3.1-70b"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plan, err := c.Plan(context.Background(), Input{Goal: "submit the form", StateText: "URL: x\n"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.ActionType != ActionClick {
		t.Errorf("got actionType %q, want click", plan.ActionType)
	}
	if plan.TargetID != "button-aaaaaaaa-0" {
		t.Errorf("got targetId %q", plan.TargetID)
	}
	if fake.lastReq.Temperature.Value != 0 {
		t.Errorf("expected temperature 0, got %v", fake.lastReq.Temperature.Value)
	}
}

func TestPlanRejectsInvalidActionType(t *testing.T) {
	fake := &fakeCompletionsClient{content: `{"thought":"x","actionType":"teleport","isFinished":false}`}
	c, _ := New(fake, Options{Model: "m"})

	if _, err := c.Plan(context.Background(), Input{Goal: "g", StateText: "s"}); err == nil {
		t.Error("expected validation error for unknown actionType")
	}
}

func TestPlanRejectsDragAndDropWithoutTargetID2(t *testing.T) {
	fake := &fakeCompletionsClient{content: `{"thought":"x","actionType":"drag_and_drop","targetId":"a","isFinished":false}`}
	c, _ := New(fake, Options{Model: "m"})

	if _, err := c.Plan(context.Background(), Input{Goal: "g", StateText: "s"}); err == nil {
		t.Error("expected validation error for drag_and_drop missing targetId2")
	}
}

func TestPlanPropagatesTransportError(t *testing.T) {
	fake := &fakeCompletionsClient{err: context.DeadlineExceeded}
	c, _ := New(fake, Options{Model: "m"})

	if _, err := c.Plan(context.Background(), Input{Goal: "g", StateText: "s"}); err == nil {
		t.Error("expected transport error to propagate")
	}
}
