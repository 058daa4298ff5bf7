package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	store   map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{store: map[string][]byte{}}
}

func (b *fakeBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	v, ok := b.store[key]
	return v, ok, nil
}

func (b *fakeBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if b.setErr != nil {
		return b.setErr
	}
	b.store[key] = value
	b.setKeys = append(b.setKeys, key)
	return nil
}

func TestGetOrLoadPopulatesAndServes(t *testing.T) {
	b := newFakeBackend()
	loads := 0
	loader := func(context.Context) (string, error) {
		loads++
		return "value", nil
	}

	v, err := GetOrLoad(context.Background(), b, nil, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads)

	// Second read is a hit; the loader must not run again.
	v, err = GetOrLoad(context.Background(), b, nil, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadBypassesOnBackendError(t *testing.T) {
	b := newFakeBackend()
	b.getErr = errors.New("connection refused")

	loads := 0
	v, err := GetOrLoad(context.Background(), b, nil, "k", time.Minute, func(context.Context) (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadSetFailureDoesNotFailRequest(t *testing.T) {
	b := newFakeBackend()
	b.setErr = errors.New("read-only replica")

	v, err := GetOrLoad(context.Background(), b, nil, "k", time.Minute, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestGetOrLoadReloadsUndecodableEntry(t *testing.T) {
	b := newFakeBackend()
	b.store["k"] = []byte("{not json")

	loads := 0
	v, err := GetOrLoad(context.Background(), b, nil, "k", time.Minute, func(context.Context) (string, error) {
		loads++
		return "reloaded", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "reloaded", v)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadPropagatesLoaderError(t *testing.T) {
	b := newFakeBackend()
	wantErr := errors.New("not found")

	_, err := GetOrLoad(context.Background(), b, nil, "k", time.Minute, func(context.Context) (*struct{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	// Failed loads are never cached.
	assert.Empty(t, b.setKeys)
}

func TestGetOrLoadNilBackend(t *testing.T) {
	v, err := GetOrLoad(context.Background(), nil, nil, "k", time.Minute, func(context.Context) (string, error) {
		return "direct", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", v)
}
