package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

func TestSnapshotRepositoryWithoutClientIsNoop(t *testing.T) {
	repo := NewSnapshotRepository(nil, "teachmate:roster", 0, nil)
	ctx := context.Background()

	require.NoError(t, repo.Publish(ctx, []models.Person{student(t, "Amy", "A0000001A")}))
	_, err := repo.Fetch(ctx)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Purge(ctx))
	assert.NoError(t, repo.Close())
}
