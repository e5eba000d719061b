package planner

import "testing"

func TestValidateRejectsUnknownActionType(t *testing.T) {
	p := ActionPlan{Thought: "x", ActionType: "teleport"}
	if err := p.Validate(); err == nil {
		t.Error("expected error for unknown actionType")
	}
}

func TestValidateAcceptsKnownActionType(t *testing.T) {
	p := ActionPlan{Thought: "x", ActionType: ActionFinish, IsFinished: true}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsTooManyRemainingSteps(t *testing.T) {
	p := ActionPlan{
		Thought:    "x",
		ActionType: ActionClick,
		TargetID:   "button-aaaaaaaa-0",
		Plan:       &PlanStep{RemainingSteps: []string{"a", "b", "c", "d"}},
	}
	if err := p.Validate(); err == nil {
		t.Error("expected error for remainingSteps > 3")
	}
}

func TestValidateRejectsDragAndDropWithoutSecondTarget(t *testing.T) {
	p := ActionPlan{Thought: "x", ActionType: ActionDragAndDrop, TargetID: "a"}
	if err := p.Validate(); err == nil {
		t.Error("expected error for missing targetId2")
	}
}

func TestValidateRejectsNavigateWithoutValue(t *testing.T) {
	p := ActionPlan{Thought: "x", ActionType: ActionNavigate}
	if err := p.Validate(); err == nil {
		t.Error("expected error for navigate without value")
	}
}

func TestActionPlanJSONSchemaBuildsOnce(t *testing.T) {
	s1, err := actionPlanJSONSchema()
	if err != nil {
		t.Fatalf("actionPlanJSONSchema: %v", err)
	}
	s2, err := actionPlanJSONSchema()
	if err != nil {
		t.Fatalf("actionPlanJSONSchema (second call): %v", err)
	}
	if s1 != s2 {
		t.Error("expected cached schema pointer to be reused across calls")
	}
}
