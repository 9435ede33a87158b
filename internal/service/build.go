package service

import (
	"errors"
	"fmt"

	"github.com/BerylCAtieno/listing-expert-agent/internal/analyzer"
	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/BerylCAtieno/listing-expert-agent/internal/provider"
	"github.com/BerylCAtieno/listing-expert-agent/internal/scrape"
	"go.uber.org/zap"
)

// FromConfig wires the provider, fetcher, collector and analyzer described by
// cfg. The returned close func releases the provider client.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Service, func() error, error) {
	gen, err := provider.NewGenerator(cfg.Provider, logger)
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := scrape.New(cfg.Fetcher, logger)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("fetcher: %w", err), gen.Close())
	}

	client := analyzer.NewClient(gen,
		analyzer.WithModel(cfg.Provider.Model),
		analyzer.WithLocale(cfg.Prompt.Locale),
		analyzer.WithLogger(logger),
	)
	c := collector.New(fetcher, cfg.Server.MaxUploadBytes, logger)

	logger.Info("service configured",
		zap.String("backend", gen.Name()),
		zap.String("model", cfg.Provider.Model),
		zap.String("fetcher", cfg.Fetcher.Kind),
		zap.String("locale", cfg.Prompt.Locale))

	return New(c, client, cfg.Server.MaxInflight, logger), gen.Close, nil
}
