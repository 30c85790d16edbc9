// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/ssargent/stegpng/pkg/config"
	"github.com/ssargent/stegpng/pkg/logging"
	"github.com/ssargent/stegpng/pkg/metrics"
	"github.com/ssargent/stegpng/pkg/pngio"
)

// Container holds all the dependencies for the application
type Container struct {
	config       *config.Config
	logger       *slog.Logger
	metrics      *metrics.Metrics
	codecFactory pngio.CodecFactory
}

// NewContainer creates a new dependency injection container with defaults.
// The logger discards output until SetLogger is called.
func NewContainer() *Container {
	return &Container{
		config:       config.DefaultConfig(),
		logger:       logging.Discard(),
		metrics:      metrics.NewMetrics(),
		codecFactory: pngio.NewCodecFactory(),
	}
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// SetConfig replaces the active configuration
func (c *Container) SetConfig(cfg *config.Config) {
	c.config = cfg
}

// GetLogger returns the logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// SetLogger replaces the logger
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// GetMetrics returns the metrics of the current run
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetCodecFactory returns the image codec factory
func (c *Container) GetCodecFactory() pngio.CodecFactory {
	return c.codecFactory
}

// SetCodecFactory allows overriding the image codec factory (for testing)
func (c *Container) SetCodecFactory(factory pngio.CodecFactory) {
	c.codecFactory = factory
}
