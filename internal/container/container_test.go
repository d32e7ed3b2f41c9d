package container

import (
	"context"
	"path/filepath"
	"testing"

	"pvsynergy/internal/config"
	apperrors "pvsynergy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutStore(t *testing.T) {
	c, err := New(context.Background(), config.Default(), nil)
	require.NoError(t, err)
	assert.Nil(t, c.Store)
	assert.NotNil(t, c.Pipeline)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store = config.StoreConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + filepath.Join(t.TempDir(), "runs.db"),
	}

	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, c.Store)

	runs, err := c.Store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	_, err = New(context.Background(), nil, nil)
	assert.Error(t, err)
}
