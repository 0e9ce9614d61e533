package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
)

// nextRunReporter is implemented by drivers that can tell when they fire next.
type nextRunReporter interface {
	Next(from time.Time) time.Time
}

// Delivery wires the cron-like driver with the digest assembler and a notifier.
type Delivery struct {
	driver   ports.Scheduler
	digest   *Digest
	notifier ports.Notifier
	settings config.Settings
	logger   *slog.Logger
}

// NewDelivery returns a helper to start/stop scheduled digests built from base settings.
func NewDelivery(driver ports.Scheduler, digest *Digest, notifier ports.Notifier, settings config.Settings, logger *slog.Logger) *Delivery {
	return &Delivery{
		driver:   driver,
		digest:   digest,
		notifier: notifier,
		settings: settings,
		logger:   logging.OrDiscard(logger),
	}
}

// Start registers the delivery job with the provided scheduler.
func (d *Delivery) Start(ctx context.Context) error {
	if d.driver == nil || d.digest == nil || d.notifier == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := d.Deliver(ctx, trigger); err != nil {
			d.logger.Error("scheduled digest failed", "trigger", trigger, "error", err)
		}
	}

	if err := d.driver.Start(ctx, job); err != nil {
		return err
	}
	if reporter, ok := d.driver.(nextRunReporter); ok {
		d.logger.Info("scheduled delivery armed", "next_run", reporter.Next(time.Now()))
	}
	return nil
}

// Stop gracefully tears down the underlying scheduler.
func (d *Delivery) Stop(ctx context.Context) error {
	if d.driver == nil {
		return nil
	}

	return d.driver.Stop(ctx)
}

// Deliver assembles one digest and publishes it. Empty digests are not sent.
func (d *Delivery) Deliver(ctx context.Context, trigger time.Time) error {
	response, err := d.digest.Assemble(ctx, d.settings)
	if err != nil {
		return fmt.Errorf("assemble digest: %w", err)
	}

	if len(response.Items) == 0 {
		d.logger.Info("scheduled digest is empty, nothing to publish", "trigger", trigger)
		return nil
	}

	if err := d.notifier.PublishDigest(ctx, buildDigestMessage(response)); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}

	d.logger.Info("scheduled digest published",
		"trigger", trigger,
		"items", len(response.Items),
	)
	return nil
}

func buildDigestMessage(response domain.DigestResponse) string {
	if len(response.Items) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "News digest: %s (%s)\n\n", response.Topic, response.Country)
	for _, item := range response.Items {
		fmt.Fprintf(&b, "- %s\n", item.Title)
		if item.Scored() {
			fmt.Fprintf(&b, "Score: %.2f\n", *item.Score)
		}
		if item.Reasoning != nil && *item.Reasoning != "" {
			fmt.Fprintf(&b, "%s\n", *item.Reasoning)
		}
		if item.URL != "" {
			fmt.Fprintf(&b, "%s\n", item.URL)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
