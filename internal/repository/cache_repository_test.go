package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var out []string
	err := repo.Get(ctx, "planner:catalog:semesters:all", &out)
	assert.True(t, appErrors.Is(err, appErrors.ErrCacheMiss))
	require.NoError(t, repo.Set(ctx, "planner:k", []string{"a"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "planner:*"))
	require.NoError(t, repo.PingContext(ctx))
	require.NoError(t, repo.Close())
}
