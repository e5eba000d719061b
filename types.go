package flashloop

import (
	"github.com/hazyhaar/flashloop/internal/executor"
	"github.com/hazyhaar/flashloop/internal/observer"
	"github.com/hazyhaar/flashloop/internal/planner"
)

// Re-exported so callers can reference the agent's core types through the
// root package without reaching into internal/, while the canonical
// definitions stay where the package that owns their semantics defines
// them — internal/planner owns ActionPlan's schema, internal/observer
// owns ElementDescriptor's walk output, internal/executor owns the
// execution Result. This mirrors the teacher's own re-export of internal
// config/sink types from its root package.
type (
	ActionPlan       = planner.ActionPlan
	ActionType       = planner.ActionType
	PlanStep         = planner.PlanStep
	ElementDescriptor = observer.ElementDescriptor
	ExecutionResult  = executor.Result
)
