// Package flashloop drives a browser through an Observe-Think-Act loop:
// an LLM planner picks one action at a time against a symbolic
// description of the current page, a deterministic selector synthesizer
// re-resolves the planner's semantic-ID references against the live DOM,
// and the Executor runs the action and records a reusable Playwright
// script of everything that worked.
//
// Loop is the entry point. It can either launch and own its own browser
// (owned mode) or drive a page the caller already has open (hosted
// mode); see LoopConfig and Run.
package flashloop
