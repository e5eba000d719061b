package flashloop

import (
	"log/slog"
	"os"

	"github.com/hazyhaar/flashloop/internal/browser"
)

// DefaultMaxSteps bounds the main loop when LoopConfig.MaxSteps is unset
// (spec §4.10).
const DefaultMaxSteps = 20

// DefaultModel is used when LLM_MODEL_NAME is unset.
const DefaultModel = "llama3.1-70b"

// DefaultCerebrasBaseURL is the OpenAI-compatible endpoint Options.BaseURL
// points at when CEREBRAS_BASE_URL is unset.
const DefaultCerebrasBaseURL = "https://api.cerebras.ai/v1"

// LoopConfig configures one Loop run.
type LoopConfig struct {
	// Goal is the natural-language task the agent pursues.
	Goal string

	// StartURL is navigated to on launch in owned mode. Ignored in hosted
	// mode, where the caller's page already has a URL.
	StartURL string

	// MaxSteps bounds the main loop. <=0 uses DefaultMaxSteps.
	MaxSteps int

	// Interactive enables the execute|override|skip|quit prompt before
	// each action (spec §4.10 step 6).
	Interactive bool

	// Headless selects ModeHeadless vs ModeHeadful on the owned browser.
	Headless bool

	// BlockResources opts into image/font/media blocking for owned-mode
	// browsers (supplemented feature, off by default).
	BlockResources bool

	// OutDir is where the owned-mode File emitter writes the generated
	// Playwright script. Empty uses the current directory.
	OutDir string

	// APIKey and Model configure the Planner's LLM client.
	APIKey  string
	Model   string
	BaseURL string

	Logger *slog.Logger
}

func (c *LoopConfig) defaults() {
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultCerebrasBaseURL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// LoadLoopConfigFromEnv fills the LLM client fields of cfg from the
// process environment, the same env-with-default convention the
// teacher's CLI entrypoint uses (cmd/chrc/main.go's env helper).
func LoadLoopConfigFromEnv(cfg *LoopConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("CEREBRAS_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = env("LLM_MODEL_NAME", DefaultModel)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = env("CEREBRAS_BASE_URL", DefaultCerebrasBaseURL)
	}
}

// InCI reports whether the process is running under CI and has not been
// explicitly allowed to call out to an LLM there (spec §4.10: CI
// short-circuit).
func InCI() bool {
	return os.Getenv("CI") != "" && os.Getenv("ALLOW_AI_IN_CI") == ""
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// BrowserConfigFromLoop derives an owned-mode browser.Config from a
// LoopConfig.
func BrowserConfigFromLoop(cfg LoopConfig) browser.Config {
	mode := browser.ModeHeadless
	if !cfg.Headless {
		mode = browser.ModeHeadful
	}
	var blocking []string
	if cfg.BlockResources {
		blocking = []string{browser.ResourceImage, browser.ResourceFont, browser.ResourceMedia}
	}
	return browser.Config{
		Mode:             mode,
		ResourceBlocking: blocking,
		Logger:           cfg.Logger,
	}
}
