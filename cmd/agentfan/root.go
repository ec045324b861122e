package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentfan"
	"github.com/hupe1980/agentfan/agent"
	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
	"github.com/hupe1980/agentfan/model/anthropic"
	"github.com/hupe1980/agentfan/model/openai"
	"github.com/hupe1980/agentfan/runner"
)

const version = "0.1.0"

// defaultMessage is sent when no message argument is given.
const defaultMessage = "Write a cold sales email introducing our new AI tool."

//go:embed personas.yaml
var builtinPersonas string

type config struct {
	personas    string
	provider    string
	model       string
	baseURL     string
	concurrency int
	timeout     time.Duration
	isolate     bool
	maxCalls    int
	logLevel    string
	logFormat   string
	vars        map[string]string
}

// backendFactory builds the backend for the selected provider.
type backendFactory func(cfg *config, logger logging.Logger) (model.Backend, error)

func newBackend(cfg *config, logger logging.Logger) (model.Backend, error) {
	switch strings.ToLower(cfg.provider) {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return openai.NewBackend(func(o *openai.Options) {
			o.APIKey = key
			o.BaseURL = cfg.baseURL
			o.Logger = logger
		}), nil
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return anthropic.NewBackend(func(o *anthropic.Options) {
			o.APIKey = key
			o.BaseURL = cfg.baseURL
			o.Logger = logger
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or anthropic)", cfg.provider)
	}
}

func newRootCmd(factory backendFactory) *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "agentfan [flags] [message]",
		Short: "Send one message to many persona agents at once",
		Long: `agentfan fans a single message out to a list of persona agents, runs every
backend call concurrently and prints each answer under the persona's name in
the order the personas are defined.

Without --personas the three built-in sales personas are used.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := defaultMessage
			if len(args) == 1 {
				message = args[0]
			}
			return run(cmd, cfg, factory, message)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.personas, "personas", "", "YAML persona file (default: built-in sales personas)")
	flags.StringVar(&cfg.provider, "provider", "openai", "backend provider (openai, anthropic)")
	flags.StringVar(&cfg.model, "model", "", "override the model of every persona")
	flags.StringVar(&cfg.baseURL, "base-url", "", "override the provider API endpoint")
	flags.IntVar(&cfg.concurrency, "concurrency", 0, "maximum simultaneous backend calls (0 = unlimited)")
	flags.DurationVar(&cfg.timeout, "timeout", 0, "per-call timeout, e.g. 30s (0 = none)")
	flags.BoolVar(&cfg.isolate, "isolate", false, "report failures per persona instead of aborting the batch")
	flags.IntVar(&cfg.maxCalls, "max-calls", 0, "maximum number of backend calls (0 = unlimited)")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringToStringVar(&cfg.vars, "var", nil, "instruction template variable, e.g. --var product=AcmeAI (repeatable)")

	return cmd
}

func run(cmd *cobra.Command, cfg *config, factory backendFactory, message string) error {
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.logFormat,
		Output:    cmd.ErrOrStderr(),
		Component: "agentfan",
	})

	agents, err := loadAgents(cfg)
	if err != nil {
		return err
	}

	backend, err := factory(cfg, logger)
	if err != nil {
		return err
	}

	policy := runner.FailFast
	if cfg.isolate {
		policy = runner.Isolate
	}

	fan := agentfan.New(backend, func(o *agentfan.Options) {
		o.MaxConcurrency = cfg.concurrency
		o.CallTimeout = cfg.timeout
		o.ErrorPolicy = policy
		o.MaxCalls = cfg.maxCalls
		o.Logger = logger
	})

	batch, err := fan.Run(cmd.Context(), agents, message)
	if err != nil {
		return err
	}

	// Nothing reaches stdout until the whole report is rendered.
	var buf bytes.Buffer
	if err := runner.WriteResults(&buf, batch.Results); err != nil {
		return err
	}
	_, err = io.Copy(cmd.OutOrStdout(), &buf)
	return err
}

func loadAgents(cfg *config) ([]*agent.Agent, error) {
	var (
		defs []agent.Definition
		err  error
	)
	if cfg.personas != "" {
		defs, err = agent.LoadDefinitionsFile(cfg.personas)
	} else {
		defs, err = agent.LoadDefinitions(strings.NewReader(builtinPersonas))
	}
	if err != nil {
		return nil, err
	}

	vars := make(map[string]any, len(cfg.vars))
	for k, v := range cfg.vars {
		vars[k] = v
	}

	for i := range defs {
		if defs[i], err = defs[i].Render(vars); err != nil {
			return nil, err
		}
		if cfg.model != "" {
			defs[i].Model = cfg.model
		}
	}

	return agent.FromDefinitions(defs)
}
