package executor

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/flashloop/internal/planner"
	"github.com/hazyhaar/flashloop/internal/synth"
)

// locatorExpr returns the script-level locator expression for a resolved
// candidate (synth.Synthesize already composes the full getByX/locator
// expression, including any frame-locator chaining).
func locatorExpr(cand *synth.Candidate) string {
	return cand.CodeFragment
}

// primitiveCodeFragment renders the script-form line for a successfully
// executed Element-band action (spec §4.8's actionType/primitive/script
// table).
func primitiveCodeFragment(plan *planner.ActionPlan, cand, aux *synth.Candidate) string {
	loc := locatorExpr(cand)

	switch plan.ActionType {
	case planner.ActionClick:
		return fmt.Sprintf("await %s.click();", loc)
	case planner.ActionDblClick:
		return fmt.Sprintf("await %s.dblclick();", loc)
	case planner.ActionRightClick:
		return fmt.Sprintf("await %s.click({ button: 'right' });", loc)
	case planner.ActionHover:
		return fmt.Sprintf("await %s.hover();", loc)
	case planner.ActionFocus:
		return fmt.Sprintf("await %s.focus();", loc)
	case planner.ActionClear:
		return fmt.Sprintf("await %s.clear();", loc)
	case planner.ActionCheck:
		return fmt.Sprintf("await %s.check();", loc)
	case planner.ActionUncheck:
		return fmt.Sprintf("await %s.uncheck();", loc)
	case planner.ActionFill:
		return fmt.Sprintf("await %s.fill('%s');", loc, escapeSingleQuotes(plan.Value))
	case planner.ActionType_:
		return fmt.Sprintf("await %s.pressSequentially('%s');", loc, escapeSingleQuotes(plan.Value))
	case planner.ActionKeypress:
		return fmt.Sprintf("await %s.press('%s');", loc, escapeSingleQuotes(plan.Value))
	case planner.ActionSelectOption:
		return fmt.Sprintf("await %s.selectOption('%s');", loc, escapeSingleQuotes(plan.Value))
	case planner.ActionUpload:
		return fmt.Sprintf("await %s.setInputFiles([%s]);", loc, quoteCSVList(plan.Value))
	case planner.ActionScroll:
		return fmt.Sprintf("await %s.scrollIntoViewIfNeeded();", loc)
	case planner.ActionDragAndDrop:
		return fmt.Sprintf("await %s.dragTo(%s);", loc, locatorExpr(aux))
	default:
		return fmt.Sprintf("await %s /* %s */;", loc, plan.ActionType)
	}
}

func quoteCSVList(csv string) string {
	parts := strings.Split(csv, ",")
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		quoted = append(quoted, "'"+escapeSingleQuotes(p)+"'")
	}
	return strings.Join(quoted, ", ")
}
