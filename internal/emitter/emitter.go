// Package emitter implements the Script Emitter (spec §4.9): it
// accumulates the code fragments the Executor produces into a reusable
// Playwright test, either as a file on disk or as an in-memory string,
// behind one shared Emitter contract.
package emitter

// Emitter accumulates validated code fragments into an output artifact.
// File and Memory variants both satisfy it so the Loop never needs to
// know which mode it's driving.
type Emitter interface {
	// Init opens the artifact for a run pursuing goal.
	Init(goal string) error

	// AppendCode records one executed action's code fragment, with an
	// optional thought comment preceding it.
	AppendCode(code, thought string) error

	// Finish closes the artifact. Safe to call once after the run ends.
	Finish() error

	// GetOutput returns the finished artifact: a file path for File mode,
	// the accumulated script text for Memory mode.
	GetOutput() string
}
