package config

import (
	"fmt"
	"time"
)

// ============================================================================
// ORCHESTRATOR
// ============================================================================

// OrchestratorConfig is the top-level configuration document: metadata
// plus one section per collaborating component.
type OrchestratorConfig struct {
	Version     string `yaml:"version,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// UseLLMFallback toggles the advisory model fallback in tool
	// selection. Defaults to true when unset, so it is a pointer —
	// a plain bool could not distinguish "false" from "absent".
	UseLLMFallback *bool `yaml:"use_llm_fallback,omitempty"`

	Engine   EngineConfig   `yaml:"engine,omitempty"`
	Analyzer AnalyzerConfig `yaml:"analyzer,omitempty"`
	Citation CitationConfig `yaml:"citation,omitempty"`
	Tools    ToolConfigs    `yaml:"tools,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// Validate implements ConfigInterface for OrchestratorConfig.
func (c *OrchestratorConfig) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if err := c.Analyzer.Validate(); err != nil {
		return fmt.Errorf("analyzer config: %w", err)
	}
	if err := c.Citation.Validate(); err != nil {
		return fmt.Errorf("citation config: %w", err)
	}
	if err := c.Tools.Validate(); err != nil {
		return fmt.Errorf("tools config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// SetDefaults implements ConfigInterface for OrchestratorConfig.
func (c *OrchestratorConfig) SetDefaults() {
	if c.Version == "" {
		c.Version = "v1"
	}
	if c.Name == "" {
		c.Name = "cortex"
	}
	if c.UseLLMFallback == nil {
		enabled := true
		c.UseLLMFallback = &enabled
	}
	c.Engine.SetDefaults()
	c.Analyzer.SetDefaults()
	c.Citation.SetDefaults()
	c.Tools.SetDefaults()
	c.Logging.SetDefaults()
}

// LLMFallbackEnabled reports whether the advisory model fallback is on,
// defaulting to true when the field was never set.
func (c *OrchestratorConfig) LLMFallbackEnabled() bool {
	return c.UseLLMFallback == nil || *c.UseLLMFallback
}

// ============================================================================
// ENGINE
// ============================================================================

// EngineConfig mirrors engine.Config in YAML-serializable form.
type EngineConfig struct {
	MaxParallelWorkers int                      `yaml:"max_parallel_workers,omitempty"`
	DefaultToolTimeout time.Duration            `yaml:"default_tool_timeout,omitempty"`
	ToolTimeouts       map[string]time.Duration `yaml:"tool_timeouts,omitempty"`
}

// Validate implements ConfigInterface for EngineConfig.
func (c *EngineConfig) Validate() error {
	if c.MaxParallelWorkers < 1 {
		return fmt.Errorf("max_parallel_workers must be >= 1, got %d", c.MaxParallelWorkers)
	}
	if c.DefaultToolTimeout <= 0 {
		return fmt.Errorf("default_tool_timeout must be positive, got %s", c.DefaultToolTimeout)
	}
	for tool, d := range c.ToolTimeouts {
		if d <= 0 {
			return fmt.Errorf("tool_timeouts[%s] must be positive, got %s", tool, d)
		}
	}
	return nil
}

// SetDefaults implements ConfigInterface for EngineConfig, matching
// engine.DefaultConfig (3 workers, 15s default, 30s web_search, 60s
// url_ingestion).
func (c *EngineConfig) SetDefaults() {
	if c.MaxParallelWorkers == 0 {
		c.MaxParallelWorkers = 3
	}
	if c.DefaultToolTimeout == 0 {
		c.DefaultToolTimeout = 15 * time.Second
	}
	if c.ToolTimeouts == nil {
		c.ToolTimeouts = map[string]time.Duration{
			"web_search":    30 * time.Second,
			"url_ingestion": 60 * time.Second,
		}
		return
	}
	if _, ok := c.ToolTimeouts["web_search"]; !ok {
		c.ToolTimeouts["web_search"] = 30 * time.Second
	}
	if _, ok := c.ToolTimeouts["url_ingestion"]; !ok {
		c.ToolTimeouts["url_ingestion"] = 60 * time.Second
	}
}

// ============================================================================
// ANALYZER
// ============================================================================

// AnalyzerConfig tunes query analysis.
type AnalyzerConfig struct {
	// UseLLMIntent is loaded and validated but read by no other
	// component: the analyzer uses the model classifier whenever an
	// LLMHandler is wired and its deterministic rule set otherwise,
	// whatever this field says.
	UseLLMIntent bool `yaml:"use_llm_intent"`
}

// Validate implements ConfigInterface for AnalyzerConfig.
func (c *AnalyzerConfig) Validate() error { return nil }

// SetDefaults implements ConfigInterface for AnalyzerConfig.
func (c *AnalyzerConfig) SetDefaults() {}

// ============================================================================
// CITATION
// ============================================================================

// CitationConfig tunes the citation enhancer.
type CitationConfig struct {
	MinConfidence  float64 `yaml:"min_confidence,omitempty"`
	DedupThreshold float64 `yaml:"dedup_threshold,omitempty"`
}

// Validate implements ConfigInterface for CitationConfig.
func (c *CitationConfig) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1], got %f", c.MinConfidence)
	}
	if c.DedupThreshold < 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in [0,1], got %f", c.DedupThreshold)
	}
	return nil
}

// SetDefaults implements ConfigInterface for CitationConfig.
func (c *CitationConfig) SetDefaults() {
	if c.MinConfidence == 0 {
		c.MinConfidence = 0.3
	}
	if c.DedupThreshold == 0 {
		c.DedupThreshold = 0.9
	}
}

// ============================================================================
// TOOLS
// ============================================================================

// ToolConfigs holds per-tool construction settings.
type ToolConfigs struct {
	SemanticSearch SemanticSearchConfig `yaml:"semantic_search,omitempty"`
	KeywordSearch  KeywordSearchConfig  `yaml:"keyword_search,omitempty"`
	Comparison     ComparisonConfig     `yaml:"comparison,omitempty"`
	WebSearch      WebSearchConfig      `yaml:"web_search,omitempty"`
	URLIngestion   URLIngestionConfig   `yaml:"url_ingestion,omitempty"`
}

// Validate implements ConfigInterface for ToolConfigs.
func (c *ToolConfigs) Validate() error {
	if err := c.SemanticSearch.Validate(); err != nil {
		return fmt.Errorf("semantic_search: %w", err)
	}
	if err := c.KeywordSearch.Validate(); err != nil {
		return fmt.Errorf("keyword_search: %w", err)
	}
	if err := c.Comparison.Validate(); err != nil {
		return fmt.Errorf("comparison: %w", err)
	}
	if err := c.WebSearch.Validate(); err != nil {
		return fmt.Errorf("web_search: %w", err)
	}
	if err := c.URLIngestion.Validate(); err != nil {
		return fmt.Errorf("url_ingestion: %w", err)
	}
	return nil
}

// SetDefaults implements ConfigInterface for ToolConfigs.
func (c *ToolConfigs) SetDefaults() {
	c.SemanticSearch.SetDefaults()
	c.KeywordSearch.SetDefaults()
	c.Comparison.SetDefaults()
	c.WebSearch.SetDefaults()
	c.URLIngestion.SetDefaults()
}

// SemanticSearchConfig configures tools.NewSemanticSearchTool.
type SemanticSearchConfig struct {
	DefaultTopK int `yaml:"default_top_k,omitempty"`
}

func (c *SemanticSearchConfig) Validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be >= 1, got %d", c.DefaultTopK)
	}
	return nil
}

func (c *SemanticSearchConfig) SetDefaults() {
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 5
	}
}

// KeywordSearchConfig configures tools.NewKeywordSearchTool.
type KeywordSearchConfig struct {
	DefaultTopK int `yaml:"default_top_k,omitempty"`
}

func (c *KeywordSearchConfig) Validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be >= 1, got %d", c.DefaultTopK)
	}
	return nil
}

func (c *KeywordSearchConfig) SetDefaults() {
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 5
	}
}

// ComparisonConfig configures tools.NewComparisonTool.
type ComparisonConfig struct {
	TopKPerEntity int `yaml:"top_k_per_entity,omitempty"`
}

func (c *ComparisonConfig) Validate() error {
	if c.TopKPerEntity < 1 {
		return fmt.Errorf("top_k_per_entity must be >= 1, got %d", c.TopKPerEntity)
	}
	return nil
}

func (c *ComparisonConfig) SetDefaults() {
	if c.TopKPerEntity == 0 {
		c.TopKPerEntity = 3
	}
}

// WebSearchConfig configures tools.NewWebSearchTool.
type WebSearchConfig struct {
	BaseURL    string `yaml:"base_url,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
}

func (c *WebSearchConfig) Validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be >= 1, got %d", c.MaxResults)
	}
	return nil
}

func (c *WebSearchConfig) SetDefaults() {
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
}

// URLIngestionConfig configures tools.NewURLIngestionTool.
type URLIngestionConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

func (c *URLIngestionConfig) Validate() error { return nil }
func (c *URLIngestionConfig) SetDefaults()    {}

// ============================================================================
// LOGGING
// ============================================================================

// LoggingConfig holds logging settings. It is loaded and validated only;
// the CLI builds its logger from the --log-level flag, not from here.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Validate implements ConfigInterface for LoggingConfig.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}

// SetDefaults implements ConfigInterface for LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
}
