package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, ttl time.Duration) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_PutGet(t *testing.T) {
	s := openTestCache(t, time.Minute)
	ctx := context.Background()

	payload, fresh, err := s.Get(ctx, "hosts")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Nil(t, payload)

	require.NoError(t, s.Put(ctx, "hosts", []byte(`[{"assetid":"1"}]`)))

	payload, fresh, err = s.Get(ctx, "hosts")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, `[{"assetid":"1"}]`, string(payload))
}

func TestSQLite_PutOverwrites(t *testing.T) {
	s := openTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "racks", []byte("old")))
	require.NoError(t, s.Put(ctx, "racks", []byte("new")))

	payload, _, err := s.Get(ctx, "racks")
	require.NoError(t, err)
	assert.Equal(t, "new", string(payload))
}

func TestSQLite_Expiry(t *testing.T) {
	s := openTestCache(t, 300*time.Second)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	require.NoError(t, s.Put(ctx, "hosts", []byte("[]")))

	tests := []struct {
		name  string
		after time.Duration
		fresh bool
	}{
		{"just written", 0, true},
		{"inside window", 299 * time.Second, true},
		{"at boundary", 300 * time.Second, false},
		{"long after", time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.now = func() time.Time { return start.Add(tt.after) }
			payload, fresh, err := s.Get(ctx, "hosts")
			require.NoError(t, err)
			assert.Equal(t, tt.fresh, fresh)
			assert.Equal(t, "[]", string(payload))
		})
	}
}

func TestSQLite_Clear(t *testing.T) {
	s := openTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "hosts", []byte("[]")))

	require.NoError(t, s.Clear(ctx))

	_, fresh, err := s.Get(ctx, "hosts")
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path, time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "switches", []byte("[]")))
	require.NoError(t, s.Close())

	s, err = Open(path, time.Minute)
	require.NoError(t, err)
	defer s.Close()
	_, fresh, err := s.Get(ctx, "switches")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestSQLite_ClosedErrors(t *testing.T) {
	s := openTestCache(t, time.Minute)
	require.NoError(t, s.Close())

	_, _, err := s.Get(context.Background(), "hosts")
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), "hosts", nil))
	assert.NoError(t, s.Close())
}

func TestOpen_Defaults(t *testing.T) {
	_, err := Open("  ", time.Minute)
	assert.Error(t, err)

	s, err := Open(filepath.Join(t.TempDir(), "c.db"), 0)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, DefaultTTL, s.TTL())
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	require.NoError(t, s.Put(context.Background(), "hosts", []byte("[]")))
	payload, fresh, err := s.Get(context.Background(), "hosts")
	assert.NoError(t, err)
	assert.False(t, fresh)
	assert.Nil(t, payload)
}
