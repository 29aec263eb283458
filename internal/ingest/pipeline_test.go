package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/DjordjeVuckovic/news-trust/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPipeline_Run(t *testing.T) {
	ctx := context.Background()
	store := in_mem.NewInMemStorer()
	q := queue.NewMemoryQueue()
	policy := scoring.NewHeuristic(scoring.DefaultConfig())
	svc := trust.NewService(store, q, policy, nil)

	data := "headline,body,link,date\n" +
		"Budget,\"" + strings.Repeat("a", 2500) + "\",https://bbc.co.uk/x,2024-02-01\n" +
		"Hoax,BREAKING: shocking conspiracy revealed,,\n" +
		",missing title,,\n" +
		"Bad date,body,,01-02-2024\n" +
		"broken row\n"

	p := NewImportPipeline(
		NewCSVReader(strings.NewReader(data)),
		svc,
		WithName("test-import"),
		WithMapping(ColumnMapping{Title: "headline", Content: "body", URL: "link", PublishDate: "date"}),
	)

	summary, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 2, q.Len())

	require.NoError(t, svc.Shutdown(ctx))
	require.NoError(t, worker.New(q, policy, store).Run(ctx))

	articles, err := store.ListArticles(ctx, storage.ListFilter{})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	scores := map[string]int{}
	for _, a := range articles {
		scores[a.Title] = a.TrustScore
	}
	assert.Equal(t, map[string]int{"Budget": 70, "Hoax": 10}, scores)
}

func TestImportPipeline_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := trust.NewService(in_mem.NewInMemStorer(), queue.NewMemoryQueue(), scoring.NewHeuristic(scoring.DefaultConfig()), nil)
	p := NewImportPipeline(NewCSVReader(strings.NewReader("title,content\na,b\n")), svc)

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
