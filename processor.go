package categorizer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zombar/categorizer/metrics"
	"github.com/zombar/categorizer/models"
)

// Store is the persistence surface the processor requires.
type Store interface {
	MarkWebsiteProcessing(url string) (*models.Website, error)
	CompleteWebsite(url string, categories *models.Categories, processedPages int) (*models.Website, error)
	FailWebsite(url, errorMessage string) error
	GetWebsiteByURL(url string) (*models.Website, error)
	ListWebsites() ([]*models.WebsiteSummary, error)
	ListWebsitesByIndustry(industry string) ([]*models.Website, error)
	ListWebsitesByType(websiteType string) ([]*models.Website, error)
}

// SnapshotStore persists raw fetched HTML. Optional.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, url, content string) (string, error)
}

// RegistryStore records previously processed URLs. Optional.
type RegistryStore interface {
	Add(url, collectionName string) error
}

// Processor runs the fetch -> analyze -> persist pipeline for a URL and
// tracks its status transitions: a record enters processing when an attempt
// starts and always reaches completed or failed, never sticks in processing.
type Processor struct {
	engine    *Categorizer
	store     Store
	snapshots SnapshotStore
	registry  RegistryStore

	// Concurrent attempts for the same URL join a single in-flight run, so
	// at most one processing attempt per URL exists at any time.
	group singleflight.Group
}

// NewProcessor creates a Processor. snapshots and registry may be nil.
func NewProcessor(engine *Categorizer, store Store, snapshots SnapshotStore, registry RegistryStore) *Processor {
	return &Processor{
		engine:    engine,
		store:     store,
		snapshots: snapshots,
		registry:  registry,
	}
}

// Process runs one processing attempt for url and returns the terminal
// record. Fetch and analysis failures are recorded on the website record and
// returned. Context cancellation moves the record to failed and returns
// ErrCancelled.
func (p *Processor) Process(ctx context.Context, url string) (*models.Website, error) {
	if url == "" {
		return nil, &ValidationError{Msg: "url is required"}
	}

	result, err, _ := p.group.Do(url, func() (interface{}, error) {
		return p.process(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Website), nil
}

func (p *Processor) process(ctx context.Context, url string) (*models.Website, error) {
	start := time.Now()

	if _, err := p.store.MarkWebsiteProcessing(url); err != nil {
		return nil, err
	}

	html, err := p.engine.Fetch(ctx, url)
	if err != nil {
		return nil, p.fail(ctx, url, start, err)
	}

	categories, err := AnalyzeContent(html)
	if err != nil {
		return nil, p.fail(ctx, url, start, err)
	}

	if p.snapshots != nil {
		relPath, err := p.snapshots.SaveSnapshot(ctx, url, html)
		if err != nil {
			slog.Warn("failed to save snapshot", "url", url, "error", err)
		} else if p.registry != nil {
			if err := p.registry.Add(url, relPath); err != nil {
				slog.Warn("failed to update registry", "url", url, "error", err)
			}
		}
	}

	website, err := p.store.CompleteWebsite(url, categories, 1)
	if err != nil {
		return nil, err
	}

	metrics.ProcessingAttempts.WithLabelValues("completed").Inc()
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	slog.Info("website processed",
		"url", url,
		"industry", categories.PrimaryIndustry,
		"type", categories.WebsiteType,
		"duration", time.Since(start),
	)
	return website, nil
}

// fail records a terminal failed status for url and returns the error the
// caller should see. Cancellation gets a dedicated message and ErrCancelled.
func (p *Processor) fail(ctx context.Context, url string, start time.Time, cause error) error {
	message := cause.Error()
	outcome := "failed"
	if ctx.Err() != nil {
		cause = ErrCancelled
		message = ErrCancelled.Error()
		outcome = "cancelled"
	}

	if err := p.store.FailWebsite(url, message); err != nil {
		slog.Error("failed to record processing failure", "url", url, "error", err)
	}

	metrics.ProcessingAttempts.WithLabelValues(outcome).Inc()
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	slog.Warn("website processing failed", "url", url, "error", message)
	return cause
}

// Status returns the current record for url.
func (p *Processor) Status(url string) (*models.Website, error) {
	return p.store.GetWebsiteByURL(url)
}

// List returns summaries of all records, most recently processed first.
func (p *Processor) List() ([]*models.WebsiteSummary, error) {
	return p.store.ListWebsites()
}

// ListByIndustry returns completed records whose primary industry matches.
func (p *Processor) ListByIndustry(industry string) ([]*models.Website, error) {
	return p.store.ListWebsitesByIndustry(industry)
}

// ListByType returns completed records whose website type matches.
func (p *Processor) ListByType(websiteType string) ([]*models.Website, error) {
	return p.store.ListWebsitesByType(websiteType)
}
