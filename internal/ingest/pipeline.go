package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/google/uuid"
)

type Submitter interface {
	SubmitArticle(ctx context.Context, sub trust.Submission) (uuid.UUID, error)
}

var _ Submitter = (*trust.Service)(nil)

type Summary struct {
	Imported int
	Failed   int
	Duration time.Duration
}

// ImportPipeline feeds CSV rows through the regular submission path, so each
// imported article is stored provisionally and queued for scoring.
type ImportPipeline struct {
	name      string
	source    Source
	mapping   ColumnMapping
	submitter Submitter
}

type PipelineOption func(p *ImportPipeline)

func WithName(name string) PipelineOption {
	return func(p *ImportPipeline) {
		p.name = name
	}
}

func WithMapping(m ColumnMapping) PipelineOption {
	return func(p *ImportPipeline) {
		p.mapping = m
	}
}

func NewImportPipeline(source Source, submitter Submitter, opts ...PipelineOption) *ImportPipeline {
	p := &ImportPipeline{
		name:      "csv-import",
		source:    source,
		mapping:   DefaultColumnMapping(),
		submitter: submitter,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ImportPipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	slog.Info("Starting import pipeline run", "pipeline", p.name, "time", start)

	results, err := p.source.Stream(ctx)
	if err != nil {
		slog.Error("Error opening import source", "error", err, "pipeline", p.name)
		return Summary{}, err
	}

	var summary Summary
	cancelled := func() (Summary, error) {
		summary.Duration = time.Since(start)
		slog.Info("Pipeline context cancelled, stopping import",
			"pipeline", p.name,
			"imported", summary.Imported,
			"errors", summary.Failed,
		)
		return summary, ctx.Err()
	}

	for {
		if ctx.Err() != nil {
			return cancelled()
		}

		select {
		case <-ctx.Done():
			return cancelled()
		case res, ok := <-results:
			if !ok {
				summary.Duration = time.Since(start)
				slog.Info("Import pipeline run completed",
					"pipeline", p.name,
					"imported", summary.Imported,
					"errors", summary.Failed,
					"duration", summary.Duration,
				)
				return summary, nil
			}

			if res.Err != nil {
				summary.Failed++
				slog.Error("Error reading record", "error", res.Err, "line", res.Line, "pipeline", p.name)
				continue
			}

			id, err := p.submitter.SubmitArticle(ctx, p.mapping.Map(res.Record))
			if err != nil {
				summary.Failed++
				slog.Error("Error submitting article", "error", err, "line", res.Line, "pipeline", p.name)
				continue
			}
			summary.Imported++
			slog.Debug("Article imported", "article_id", id, "line", res.Line)
		}
	}
}
