package freshness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Valeria115/VK-chat-bot/entities"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

const (
	MetaLastUpdated  = "last_updated"
	MetaModelVersion = "model_version"
)

// Ingestor produces a complete fresh record set from the live site.
type Ingestor interface {
	Crawl(ctx context.Context, siteURL string) ([]entities.KnowledgeRecord, error)
}

// Controller re-ingests the site when the store is stale: last_updated is
// missing, older than the refresh interval, or the stored vectors were
// produced by a different embedding model than the one configured now.
type Controller struct {
	repo         repository.KBRepository
	ing          Ingestor
	siteURL      string
	interval     time.Duration
	modelVersion string
	now          func() time.Time
	log          *slog.Logger
}

func New(repo repository.KBRepository, ing Ingestor, siteURL string, interval time.Duration, modelVersion string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		repo:         repo,
		ing:          ing,
		siteURL:      siteURL,
		interval:     interval,
		modelVersion: modelVersion,
		now:          time.Now,
		log:          log,
	}
}

// EnsureFresh must complete before the bot serves questions; an empty
// store makes every similarity lookup vacuous. A failed crawl returns an
// error and leaves the previous store contents authoritative.
func (c *Controller) EnsureFresh(ctx context.Context) error {
	stale, reason, err := c.check()
	if err != nil {
		return fmt.Errorf("freshness: %w", err)
	}
	if !stale {
		c.log.Info("knowledge base is fresh, no update needed")
		return nil
	}
	c.log.Info("refreshing knowledge base", "reason", reason)
	return c.Refresh(ctx)
}

// Refresh re-ingests unconditionally. The admin endpoint uses it to force
// an update without waiting out the interval.
func (c *Controller) Refresh(ctx context.Context) error {
	records, err := c.ing.Crawl(ctx, c.siteURL)
	if err != nil {
		return fmt.Errorf("freshness: ingest: %w", err)
	}

	now := c.now()
	for i := range records {
		records[i].LastUpdated = now
	}
	if err := c.repo.ReplaceAll(records); err != nil {
		return fmt.Errorf("freshness: replace: %w", err)
	}
	if err := c.repo.SetMeta(MetaLastUpdated, now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("freshness: meta: %w", err)
	}
	if err := c.repo.SetMeta(MetaModelVersion, c.modelVersion); err != nil {
		return fmt.Errorf("freshness: meta: %w", err)
	}
	c.log.Info("knowledge base refreshed", "records", len(records))
	return nil
}

func (c *Controller) check() (bool, string, error) {
	last, ok, err := c.repo.GetMeta(MetaLastUpdated)
	if err != nil {
		return false, "", err
	}
	if !ok {
		return true, "never ingested", nil
	}
	t, err := time.Parse(time.RFC3339, last)
	if err != nil {
		return true, "unreadable last_updated", nil
	}
	if c.now().Sub(t) > c.interval {
		return true, "older than refresh interval", nil
	}
	ver, ok, err := c.repo.GetMeta(MetaModelVersion)
	if err != nil {
		return false, "", err
	}
	if ok && ver != c.modelVersion {
		return true, "embedding model changed", nil
	}
	return false, "", nil
}
