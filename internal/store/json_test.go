package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"defiquiz/internal/store"
	"defiquiz/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	type data struct {
		ID string `json:"id"`
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := memory.New(ctx)
	db := store.JSON[data]{
		Underlying: st,
		Prefix:     "foo:",
	}

	require.NoError(t, db.Set(ctx, "test", data{ID: t.Name()}, time.Minute))

	got, err := db.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, t.Name(), got.ID)

	raw, err := st.Get(ctx, "foo:test")
	require.NoError(t, err, "prefix must be applied to the underlying key")
	assert.JSONEq(t, `{"id":"`+t.Name()+`"}`, string(raw))

	require.NoError(t, db.Delete(ctx, "test"))

	_, err = db.Get(ctx, "test")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	require.NoError(t, st.Set(ctx, "foo:test", []byte("}"), time.Minute))

	_, err = db.Get(ctx, "test")
	assert.True(t, errors.Is(err, store.ErrCantDecode))
}

func TestBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.Build(ctx, "memory", nil)
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = store.Build(ctx, "nope", json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, store.ErrBadConfig))
}
