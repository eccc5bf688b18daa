// Command cortex is the demo CLI entrypoint for the agentic
// orchestration core: it loads configuration, wires a tool registry and
// an in-memory demo retriever/answer-chain, and runs one query through
// the orchestrator end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.opentelemetry.io/otel/trace"

	"github.com/cortexai/cortex/config"
)

// CLI declares one struct field per subcommand, with global flags on
// CLI itself.
type CLI struct {
	Ask      AskCmd      `cmd:"" help:"Run a query through the orchestrator and print the response."`
	Validate ValidateCmd `cmd:"" help:"Validate a configuration file."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	Config   string `short:"c" help:"Path to a YAML config file." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
	JSON     bool   `help:"Print the AgenticResponse as JSON instead of a formatted summary."`
	Trace    bool   `help:"Export OpenTelemetry spans for the query to stderr."`
}

// AskCmd runs a single query.
type AskCmd struct {
	Query string `arg:"" help:"The natural-language query to process."`
}

func (c *AskCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	logger := newLogger(cli.LogLevel)

	var tracer trace.Tracer
	if cli.Trace {
		t, shutdown, err := setupTracing()
		if err != nil {
			return err
		}
		defer shutdown()
		tracer = t
	}

	orch := buildOrchestrator(cfg, logger, tracer)

	resp := orch.Process(context.Background(), c.Query)

	if cli.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResponse(resp)
	return nil
}

// ValidateCmd loads and validates a config file without running anything.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	if cli.Config == "" {
		return fmt.Errorf("--config is required for validate")
	}
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s): configuration is valid\n", cfg.Name, cfg.Version)
	return nil
}

// VersionCmd prints the program's identification line; no version
// number is embedded in the build.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("cortex agentic orchestration core")
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("cortex"),
		kong.Description("Agentic orchestration core demo CLI."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(cli))
}

// loadConfig loads cli.Config if set, else returns the zero-value
// config with defaults applied.
func loadConfig(path string) (*config.OrchestratorConfig, error) {
	if path == "" {
		cfg := &config.OrchestratorConfig{}
		cfg.SetDefaults()
		return cfg, nil
	}
	if err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
