package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "vp.pb")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o644))

	f := newFetcher(time.Second)
	ctx := context.Background()

	b, err := f.fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "remote", string(b))

	b, err = f.fetch(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "local", string(b))

	b, err = f.fetch(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = f.fetch(ctx, filepath.Join(t.TempDir(), "missing.pb"))
	assert.Error(t, err)
}
