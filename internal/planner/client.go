package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// CompletionsClient captures the subset of the OpenAI-compatible SDK client
// used by the adapter, mirroring the narrow MessagesClient interface the
// Anthropic adapter (goadesign-goa-ai/features/model/anthropic/client.go)
// defines over *sdk.MessageService: it is satisfied by the real
// *openai.Client.Chat.Completions service, and by a fake in tests.
type CompletionsClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Options configures the planner's LLM client. Cerebras and other
// OpenAI-compatible providers are reached by pointing BaseURL at their
// endpoint; the wire protocol is otherwise identical.
type Options struct {
	// Model is the chat completion model identifier, e.g. "llama3.1-70b".
	Model string

	// BaseURL overrides the OpenAI default endpoint, e.g.
	// "https://api.cerebras.ai/v1".
	BaseURL string

	// Temperature is always forced to 0 by Plan regardless of this value
	// (spec §4.7: deterministic planning); kept here only so Options stays
	// symmetrical with other client configs in the codebase.
	Temperature float64
}

// Client wraps an OpenAI-compatible chat completions endpoint and produces
// validated ActionPlans.
type Client struct {
	chat  CompletionsClient
	model string
}

// New builds a Client from an explicit CompletionsClient, for tests and for
// callers wiring their own option.RequestOption chain.
func New(chat CompletionsClient, opts Options) (*Client, error) {
	if chat == nil {
		return nil, errors.New("planner: completions client is required")
	}
	if opts.Model == "" {
		return nil, errors.New("planner: model identifier is required")
	}
	return &Client{chat: chat, model: opts.Model}, nil
}

// NewFromAPIKey builds a Client against an OpenAI-compatible endpoint using
// an API key, mirroring the Anthropic adapter's NewFromAPIKey constructor.
func NewFromAPIKey(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("planner: api key is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	sdkClient := openai.NewClient(reqOpts...)
	return New(&sdkClient.Chat.Completions, opts)
}

// Input is everything the Planner needs to produce the next ActionPlan.
type Input struct {
	Goal          string
	StateText     string
	LastError     string
	OpenTabTitles []string
	StepNumber    int
}

const systemPrompt = `You drive a web browser to accomplish a user's goal, one action at a time.

Rules:
- Always reference elements by their semantic ID exactly as given (e.g. "ID: button-1a2b3c4d-0"), never by a guessed CSS selector or position.
- Before interacting with an element that is not currently visible, issue a scroll action to bring it into view.
- If the previous action's result reports an error, do not repeat the same action verbatim — change strategy (different target, different action type, or scroll first).
- If a new tab or popup appears that is unrelated to the goal (ads, trackers, unrelated promotions), close it with close_tab before continuing.
- Maintain a short adaptive plan (plan.currentStatus, plan.remainingSteps, at most 3 steps ahead) and set plan.isPlanChanged to true whenever the remaining steps change from what you previously stated.
- Set isFinished to true and actionType to "finish" only once the goal is fully satisfied.
- Respond with exactly one action per turn.`

// Plan calls the chat completion endpoint with temperature 0 and no
// retained state (every call is self-contained: the full page state and
// prior error, if any, are passed in Input) and returns a validated
// ActionPlan.
func (c *Client) Plan(ctx context.Context, in Input) (*ActionPlan, error) {
	user := renderUserPrompt(in)

	schema, err := actionPlanJSONSchema()
	if err != nil {
		return nil, fmt.Errorf("planner: build action plan schema: %w", err)
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("planner: marshal action plan schema: %w", err)
	}

	schemaParam := shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "action_plan",
		Schema: json.RawMessage(schemaJSON),
		Strict: openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("planner: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("planner: empty completion response")
	}

	var plan ActionPlan
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("planner: decode action plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("planner: invalid action plan: %w", err)
	}
	return &plan, nil
}

func renderUserPrompt(in Input) string {
	b := fmt.Sprintf("Goal: %s\nStep: %d\n\nCurrent page state:\n%s\n", in.Goal, in.StepNumber, in.StateText)
	if in.LastError != "" {
		b += fmt.Sprintf("\nPrevious action failed: %s\n", in.LastError)
	}
	if len(in.OpenTabTitles) > 0 {
		b += "\nOpen tabs:\n"
		for i, title := range in.OpenTabTitles {
			b += fmt.Sprintf("  %d: %s\n", i, title)
		}
	}
	return b
}
