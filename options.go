package searchprovider

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/settings"
)

// Option configures the Provider.
type Option interface {
	apply(*providerConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*providerConfig)

func (f optionFunc) apply(c *providerConfig) { f(c) }

type providerConfig struct {
	appID    string
	apiKey   string
	scope    string
	settings settings.Source
	factory  engine.Factory
	logger   *zap.Logger
}

// WithAlgolia sets the application id and API key of the search service.
func WithAlgolia(appID, apiKey string) Option {
	return optionFunc(func(c *providerConfig) {
		c.appID = appID
		c.apiKey = apiKey
	})
}

// WithScope sets the platform search scope used as index name prefix.
func WithScope(scope string) Option {
	return optionFunc(func(c *providerConfig) {
		c.scope = scope
	})
}

// WithSettings sets the platform settings source. Required.
func WithSettings(src settings.Source) Option {
	return optionFunc(func(c *providerConfig) {
		c.settings = src
	})
}

// WithLogger enables structured logging. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *providerConfig) {
		c.logger = l
	})
}

// withClientFactory replaces the engine client constructor (tests).
func withClientFactory(f engine.Factory) Option {
	return optionFunc(func(c *providerConfig) {
		c.factory = f
	})
}

// SettingsSource serves platform settings by key as JSON values.
type SettingsSource = settings.Source

// StaticSettings is a SettingsSource backed by an in-memory map.
type StaticSettings = settings.Static
