// Package provider holds the LLM backends that produce raw blueprint text.
// Each backend returns the model output verbatim; cleaning and validation
// happen downstream in the blueprint pipeline.
package provider

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"blueprintforge/config"
)

type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Registry resolves a provider by name, falling back to the configured
// default when the request doesn't pin one.
type Registry struct {
	byName map[string]Provider
	def    string
	logger *zap.SugaredLogger
}

func NewRegistry(providers []Provider, cfg *config.Config, logger *zap.SugaredLogger) (*Registry, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		name := strings.ToLower(strings.TrimSpace(p.Name()))
		if name == "" {
			return nil, fmt.Errorf("provider with empty name")
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}
		byName[name] = p
	}

	def := strings.ToLower(strings.TrimSpace(cfg.Providers.Default))
	if _, ok := byName[def]; !ok {
		return nil, fmt.Errorf("default provider %q is not registered", def)
	}

	return &Registry{byName: byName, def: def, logger: logger}, nil
}

// Resolve returns the provider for name, or the default when name is empty.
func (r *Registry) Resolve(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.def
	}
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

func (r *Registry) Default() Provider {
	return r.byName[r.def]
}
