package container

import (
	"context"
	"fmt"
	"time"

	"github.com/josefo727/oneillco-buy-together/internal/client"
	"github.com/josefo727/oneillco-buy-together/internal/composer"
	"github.com/josefo727/oneillco-buy-together/internal/config"
	"github.com/josefo727/oneillco-buy-together/internal/money"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Catalog   client.CatalogClient
	Checkout  client.CheckoutClient
	Formatter *money.Formatter
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	formatter, err := money.NewFormatter(cfg.Display.Locale, cfg.Display.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize price formatter: %w", err)
	}

	return &Container{
		Config:    cfg,
		Catalog:   client.NewCatalogClient(cfg.Platform, cfg.HTTP),
		Checkout:  client.NewCheckoutClient(cfg.Platform, cfg.HTTP),
		Formatter: formatter,
	}, nil
}

// NewComposer creates a fresh composer for one rendered bundle. Selection
// state is never shared between bundles, so every bundle gets its own.
func (c *Container) NewComposer() *composer.Composer {
	return composer.New(c.Catalog, c.Checkout, composer.OptionsFromConfig(c.Config.Bundle))
}

// Run drives a demo fixed-list bundle session from the configured tokens.
func (c *Container) Run(ctx context.Context) error {
	comp := c.NewComposer()
	defer comp.Close()

	if err := comp.LoadFixedList(ctx, c.Config.Demo.FixedTokens); err != nil {
		return fmt.Errorf("failed to load demo bundle: %w", err)
	}

	thumbs := comp.MemberThumbnails(c.Config.Bundle.ThumbImageWidth)
	for i, m := range comp.Members() {
		log.Infof("🛍️  %s / %s (%s) %s", m.Variation.Name, m.Sku.Name, c.Formatter.Format(m.Sku.BestPrice), thumbs[i])
	}

	// The simulation resolves asynchronously; give it a moment
	deadline := time.Now().Add(5 * time.Second)
	for comp.Totals().Loading && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}

	totals := comp.Totals()
	log.Infof("Total a pagar: %s", c.Formatter.Format(totals.CurrentTotal()))
	if totals.ShowSaved() {
		log.Infof("Estas ahorrando: %s (%d%%)", c.Formatter.Format(totals.SavedAmount()), totals.DiscountPercentage)
	}

	if err := comp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit demo bundle: %w", err)
	}

	return nil
}
