package bbolt

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"defiquiz/internal/store"
	"defiquiz/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	data, err := json.Marshal(Config{Path: path})
	require.NoError(t, err)

	storetest.Common(t, Factory{}, json.RawMessage(data))
}

func TestConfigValid(t *testing.T) {
	assert.True(t, errors.Is(Config{}.Valid(), ErrMissingPath))
	assert.True(t, errors.Is(Config{Path: "/nonexistent/dir/db"}.Valid(), ErrCantWriteToPath))
	assert.NoError(t, Config{Path: filepath.Join(t.TempDir(), "db")}.Valid())
}

func TestCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data, err := json.Marshal(Config{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)

	s, err := Factory{}.Build(ctx, data)
	require.NoError(t, err)
	bs := s.(*Store)

	require.NoError(t, bs.Set(ctx, "gone", []byte("x"), time.Millisecond))
	require.NoError(t, bs.Set(ctx, "kept", []byte("y"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, bs.cleanup())

	err = bs.Delete(ctx, "gone")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	v, err := bs.Get(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), v)
}
