package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticChecker bool

func (s staticChecker) Healthy(context.Context) bool { return bool(s) }

func TestCompositeHealthChecker(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewCompositeHealthChecker().Healthy(ctx))
	assert.True(t, NewCompositeHealthChecker(NewOkHealthChecker(), nil, staticChecker(true)).Healthy(ctx))
	assert.False(t, NewCompositeHealthChecker(NewOkHealthChecker(), staticChecker(false)).Healthy(ctx))
}
