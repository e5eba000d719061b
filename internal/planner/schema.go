// Package planner calls an external LLM via a structured-output interface
// to produce the next Action Plan. The client wiring mirrors the
// teacher-adjacent Anthropic adapter in the pack
// (goadesign-goa-ai/features/model/anthropic/client.go): a narrow
// interface over the SDK's completions call so tests can substitute a
// fake, a small Options struct for model/endpoint/temperature settings, and
// a translate step from the raw SDK response into the planner's own
// types.
package planner

import (
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// ActionType is the closed set of actions the Executor knows how to
// dispatch (spec §6).
type ActionType string

const (
	ActionClick          ActionType = "click"
	ActionDblClick       ActionType = "dblclick"
	ActionRightClick     ActionType = "right_click"
	ActionHover          ActionType = "hover"
	ActionFocus          ActionType = "focus"
	ActionFill           ActionType = "fill"
	ActionType_          ActionType = "type"
	ActionClear          ActionType = "clear"
	ActionCheck          ActionType = "check"
	ActionUncheck        ActionType = "uncheck"
	ActionSelectOption   ActionType = "select_option"
	ActionUpload         ActionType = "upload"
	ActionDragAndDrop    ActionType = "drag_and_drop"
	ActionKeypress       ActionType = "keypress"
	ActionNavigate       ActionType = "navigate"
	ActionReload         ActionType = "reload"
	ActionGoBack         ActionType = "go_back"
	ActionScroll         ActionType = "scroll"
	ActionSwitchTab      ActionType = "switch_tab"
	ActionCloseTab       ActionType = "close_tab"
	ActionWaitForElement ActionType = "wait_for_element"
	ActionHandleDialog   ActionType = "handle_dialog"
	ActionAssertVisible  ActionType = "assert_visible"
	ActionAssertText     ActionType = "assert_text"
	ActionAssertValue    ActionType = "assert_value"
	ActionAssertURL      ActionType = "assert_url"
	ActionFinish         ActionType = "finish"
)

// validActionTypes backs Validate; declared once rather than recomputed
// per call.
var validActionTypes = map[ActionType]bool{
	ActionClick: true, ActionDblClick: true, ActionRightClick: true, ActionHover: true,
	ActionFocus: true, ActionFill: true, ActionType_: true, ActionClear: true,
	ActionCheck: true, ActionUncheck: true, ActionSelectOption: true, ActionUpload: true,
	ActionDragAndDrop: true, ActionKeypress: true, ActionNavigate: true, ActionReload: true,
	ActionGoBack: true, ActionScroll: true, ActionSwitchTab: true, ActionCloseTab: true,
	ActionWaitForElement: true, ActionHandleDialog: true, ActionAssertVisible: true,
	ActionAssertText: true, ActionAssertValue: true, ActionAssertURL: true, ActionFinish: true,
}

// PlanStep is the optional adaptive-planning block (spec §3).
type PlanStep struct {
	CurrentStatus  string   `json:"currentStatus" jsonschema:"description=One-line summary of progress toward the goal so far."`
	RemainingSteps []string `json:"remainingSteps" jsonschema:"description=At most 3 upcoming steps, nearest first."`
	IsPlanChanged  bool     `json:"isPlanChanged" jsonschema:"description=True if remainingSteps differs from the previous turn's plan."`
}

// ActionPlan is the Planner's output (spec §3).
type ActionPlan struct {
	Thought    string     `json:"thought" jsonschema:"required,description=Brief reasoning for the chosen action."`
	Plan       *PlanStep  `json:"plan,omitempty" jsonschema:"description=Adaptive short-horizon plan."`
	ActionType ActionType `json:"actionType" jsonschema:"required,enum=click,enum=dblclick,enum=right_click,enum=hover,enum=focus,enum=fill,enum=type,enum=clear,enum=check,enum=uncheck,enum=select_option,enum=upload,enum=drag_and_drop,enum=keypress,enum=navigate,enum=reload,enum=go_back,enum=scroll,enum=switch_tab,enum=close_tab,enum=wait_for_element,enum=handle_dialog,enum=assert_visible,enum=assert_text,enum=assert_value,enum=assert_url,enum=finish"`
	TargetID   string     `json:"targetId,omitempty" jsonschema:"description=The semantic ID (from the ID: field in the state text) of the element to act on."`
	TargetID2  string     `json:"targetId2,omitempty" jsonschema:"description=Second semantic ID, required for drag_and_drop (the drop target)."`
	Value      string     `json:"value,omitempty" jsonschema:"description=Text, URL, option value, key name, or scroll direction the action needs, depending on actionType."`
	IsFinished bool       `json:"isFinished" jsonschema:"required,description=True once the goal is fully satisfied; actionType must be finish."`
}

// Validate checks the closed-set and the field-presence invariants a
// schema alone can't express (spec §9: "validate before dispatch").
func (p ActionPlan) Validate() error {
	if !validActionTypes[p.ActionType] {
		return fmt.Errorf("planner: unknown actionType %q", p.ActionType)
	}
	if p.Plan != nil && len(p.Plan.RemainingSteps) > 3 {
		return fmt.Errorf("planner: plan.remainingSteps has %d entries, max 3", len(p.Plan.RemainingSteps))
	}
	if p.ActionType == ActionDragAndDrop && p.TargetID2 == "" {
		return fmt.Errorf("planner: drag_and_drop requires targetId2")
	}
	if p.ActionType == ActionNavigate && p.Value == "" {
		return fmt.Errorf("planner: navigate requires a value")
	}
	return nil
}

var (
	actionPlanSchemaOnce sync.Once
	actionPlanSchema     *jsonschema.Schema
	actionPlanSchemaErr  error
)

// actionPlanJSONSchema reflects ActionPlan into a JSON Schema document via
// google/jsonschema-go (promoted from the teacher's indirect require to a
// direct one here), using the jsonschema struct tags declared above for
// descriptions and the actionType enum. Computed once and cached since the
// schema is static for the process lifetime.
func actionPlanJSONSchema() (*jsonschema.Schema, error) {
	actionPlanSchemaOnce.Do(func() {
		actionPlanSchema, actionPlanSchemaErr = jsonschema.For[ActionPlan](nil)
		if actionPlanSchemaErr == nil {
			actionPlanSchema.AdditionalProperties = jsonschema.FalseSchema()
		}
	})
	return actionPlanSchema, actionPlanSchemaErr
}
