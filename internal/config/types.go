package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
	ProviderMiniMax   ProviderType = "minimax"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Config is the top-level docwright configuration, corresponding to .docwright.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	Quality           QualityTier  `yaml:"quality" koanf:"quality"`
	OutputDir         string       `yaml:"output_dir" koanf:"output_dir"`
	Logo              string       `yaml:"logo" koanf:"logo"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	ContextFile       string       `yaml:"context_file" koanf:"context_file"`
	CI                CIConfig     `yaml:"ci" koanf:"ci"`
	MaxConcurrency    int          `yaml:"max_concurrency" koanf:"max_concurrency"`
	MaxCostUSD        float64      `yaml:"max_cost_usd" koanf:"max_cost_usd"`

	// FlowControl governs the Orchestrator's per-component retry and
	// revision limits.
	FlowControl FlowControlConfig `yaml:"flow_control" koanf:"flow_control"`
	// AgentLLMs maps a lowercased agent role name (reader, searcher,
	// writer, verifier) to a model override for that agent only; a role
	// absent from this map uses Provider/Model.
	AgentLLMs map[string]string `yaml:"agent_llms" koanf:"agent_llms"`
	// RateLimits maps a lowercased agent role name to its own rate-limit
	// settings; a role absent from this map is not rate-limited.
	RateLimits map[string]RateLimitConfig `yaml:"rate_limits" koanf:"rate_limits"`
	// DocstringOptions controls the Writer agent's output contract.
	DocstringOptions DocstringOptions `yaml:"docstring_options" koanf:"docstring_options"`
	// MaxInputTokens bounds how much context is assembled for a single
	// agent call before agentcontext truncates it.
	MaxInputTokens int `yaml:"max_input_tokens" koanf:"max_input_tokens"`
}

// CIConfig holds CI-specific settings.
type CIConfig struct {
	AutoCommit  bool `yaml:"auto_commit" koanf:"auto_commit"`
	FailOnError bool `yaml:"fail_on_error" koanf:"fail_on_error"`
}

// FlowControlConfig bounds how many times the Orchestrator will revisit a
// component before giving up on it.
type FlowControlConfig struct {
	MaxSearchRounds   int `yaml:"max_reader_search_attempts" koanf:"max_reader_search_attempts"`
	MaxVerifyRounds   int `yaml:"max_verifier_rejections" koanf:"max_verifier_rejections"`
	MaxRevisionRounds int `yaml:"max_revision_rounds" koanf:"max_revision_rounds"`
}

// RateLimitConfig sets the rate limit for one agent role's provider. Only
// RequestsPerMinute is enforced; TokensPerMinute is not read.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	TokensPerMinute   int `yaml:"tokens_per_minute" koanf:"tokens_per_minute"`
}

// DocstringOptions controls the shape of the docstrings the Writer agent
// produces.
type DocstringOptions struct {
	Style              string `yaml:"style" koanf:"style"` // "google", "numpy", "sphinx"
	IncludeTypeHints    bool   `yaml:"include_type_hints" koanf:"include_type_hints"`
	OverwriteExisting   bool   `yaml:"overwrite_docstrings" koanf:"overwrite_docstrings"`
	MaxLineLength       int    `yaml:"max_line_length" koanf:"max_line_length"`
}
