package queue

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := ConnectRedis(ctx, endpoint)
	require.NoError(t, err)

	q := NewRedisQueue(client, "test:scoring")
	q.pollTimeout = 200 * time.Millisecond
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestRedisQueue_FIFOAndShutdown(t *testing.T) {
	q := newRedisQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := domain.ScoringRequest{ArticleID: uuid.New(), Text: "first", URL: "https://bbc.co.uk"}
	b := domain.ScoringRequest{ArticleID: uuid.New(), Text: "second"}

	require.NoError(t, q.Enqueue(ctx, a))
	require.NoError(t, q.Enqueue(ctx, b))
	require.NoError(t, q.Shutdown(ctx))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrShutdown)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, q.Healthy(ctx))
}

func TestRedisQueue_DequeueHonoursContext(t *testing.T) {
	q := newRedisQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisQueue_IgnoresShutdownFromPreviousProcess(t *testing.T) {
	previous := newRedisQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backlog := domain.ScoringRequest{ArticleID: uuid.New(), Text: "backlog"}
	require.NoError(t, previous.Enqueue(ctx, backlog))
	require.NoError(t, previous.Shutdown(ctx))

	current := NewRedisQueue(previous.client, previous.key)
	current.pollTimeout = previous.pollTimeout

	fresh := domain.ScoringRequest{ArticleID: uuid.New(), Text: "fresh"}
	require.NoError(t, current.Enqueue(ctx, fresh))

	got, err := current.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, backlog, got)

	got, err = current.Dequeue(ctx)
	require.NoError(t, err, "marker pushed by another instance must not stop this worker")
	assert.Equal(t, fresh, got)

	n, err := current.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, current.Shutdown(ctx))
	_, err = current.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrShutdown)
}
