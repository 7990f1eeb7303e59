package main

import (
	"errors"
	"log/slog"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

// newAPIClient builds the facade client. Overridden in tests.
var newAPIClient = func(cfg *config.Config) *api.Client {
	return api.NewClient(cfg, api.WithLogger(slog.Default().With("component", "api")))
}

func withClient(cfg *config.Config, fn func(*api.Client) error) error {
	if cfg == nil {
		return errors.New("config not initialized")
	}
	return fn(newAPIClient(cfg))
}
