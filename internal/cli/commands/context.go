package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eventware/queryspec/internal/config"
	"github.com/eventware/queryspec/internal/eventcfg"
	"github.com/eventware/queryspec/internal/store"
	"github.com/eventware/queryspec/pkg/query"
)

type configKey struct{}

// WithConfig stores the loaded configuration in the context for command
// handlers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// CommandContext bundles the resolved dependencies a command handler
// needs.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Zone   *time.Location
}

// NewCommandContext extracts the configuration from the command's
// context and wires up logging and the default timezone.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	zone, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &CommandContext{Config: cfg, Logger: logger, Zone: zone}, nil
}

// OpenStore opens and migrates the stored-query database.
func (c *CommandContext) OpenStore() (*store.SQLiteStore, error) {
	s := store.NewSQLiteStore()
	if err := s.Open(c.Config.StorePath); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// EventContext loads the configured event description.
func (c *CommandContext) EventContext() (*query.EventContext, error) {
	if c.Config.EventFile == "" {
		return nil, fmt.Errorf("no event file configured (set event_file or --event-file)")
	}
	return eventcfg.Load(c.Config.EventFile)
}

// ResolveSpec resolves the field spec for a scope, loading the event
// description when the scope demands it.
func (c *CommandContext) ResolveSpec(scope query.Scope) (*query.Spec, error) {
	var evctx *query.EventContext
	if scope.IsDynamic() {
		var err error
		evctx, err = c.EventContext()
		if err != nil {
			return nil, err
		}
	}
	return scope.GetSpec(evctx)
}

// parseScopeArg resolves a scope name argument.
func parseScopeArg(arg string) (query.Scope, error) {
	scope, ok := query.ParseScope(arg)
	if !ok {
		return "", fmt.Errorf("unknown scope %q (see 'queryspec scopes')", arg)
	}
	return scope, nil
}

// loadWireFile reads a serialized query from a YAML file holding the
// flat wire map.
func loadWireFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var wire map[string]string
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	return wire, nil
}

// loadQuery deserializes and validates a wire-format query against a
// resolved spec.
func (c *CommandContext) loadQuery(scope query.Scope, path string) (*query.Query, error) {
	spec, err := c.ResolveSpec(scope)
	if err != nil {
		return nil, err
	}
	wire, err := loadWireFile(path)
	if err != nil {
		return nil, err
	}
	q, err := query.Deserialize(wire, scope, spec, c.Zone)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
