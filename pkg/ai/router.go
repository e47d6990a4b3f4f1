package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Router is a Client that dispatches each request to a provider client
// chosen by the model string. A model written as "provider:name" goes to the
// client registered for provider with name as the model; anything else goes
// to the fallback provider unchanged. Names such as "llama3:8b" whose prefix is
// not a registered provider are therefore passed through intact.
//
// Each provider must be backed by its own client instance, otherwise its
// metrics are counted more than once.
type Router struct {
	fallback  string
	providers map[string]Client
	order     []string
}

// NewRouter creates a Router. fallback must name one of providers.
func NewRouter(fallback string, providers map[string]Client) (*Router, error) {
	if _, ok := providers[fallback]; !ok {
		return nil, fmt.Errorf("fallback provider %q is not configured", fallback)
	}
	order := make([]string, 0, len(providers))
	for name := range providers {
		order = append(order, name)
	}
	slices.Sort(order)

	return &Router{
		fallback:  fallback,
		providers: providers,
		order:     order,
	}, nil
}

// Providers returns the registered provider names in sorted order.
func (r *Router) Providers() []string {
	return slices.Clone(r.order)
}

// Resolve returns the client and the provider-local model name for model.
func (r *Router) Resolve(model string) (Client, string) {
	if provider, name, ok := strings.Cut(model, ":"); ok {
		if c, found := r.providers[provider]; found {
			return c, name
		}
	}
	return r.providers[r.fallback], model
}

func (r *Router) route(opts []GenerateOption) (Client, []GenerateOption) {
	options := ApplyOptions(GenerateOptions{}, opts...)
	client, model := r.Resolve(options.Model)
	if model == options.Model {
		return client, opts
	}
	return client, append(slices.Clone(opts), WithModel(model))
}

// GenerateCompletionWithFormat forwards the request to the resolved provider.
func (r *Router) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...GenerateOption,
) error {
	client, opts := r.route(opts)
	return client.GenerateCompletionWithFormat(ctx, name, description, prompt, out, opts...)
}

// LoadModel forwards the request to the resolved provider.
func (r *Router) LoadModel(ctx context.Context, opts ...GenerateOption) error {
	client, opts := r.route(opts)
	return client.LoadModel(ctx, opts...)
}

// ResetMetrics resets every provider.
func (r *Router) ResetMetrics() {
	for _, name := range r.order {
		r.providers[name].ResetMetrics()
	}
}

// GetMetrics sums the metrics of every provider.
func (r *Router) GetMetrics() ModelMetrics {
	var total ModelMetrics
	for _, name := range r.order {
		total.Add(r.providers[name].GetMetrics())
	}
	return total
}
