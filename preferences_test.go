package kaoyan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences(t *testing.T) {
	t.Parallel()

	t.Run("defaults to zhipu when nothing is stored", func(t *testing.T) {
		t.Parallel()
		p := kaoyan.NewPreferences(mock.NewMemoryStore())
		name, err := p.Provider(context.Background())
		require.NoError(t, err)
		assert.Equal(t, kaoyan.ProviderZhipu, name)
	})

	t.Run("round trips a valid choice", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		p := kaoyan.NewPreferences(mock.NewMemoryStore())
		require.NoError(t, p.SetProvider(ctx, kaoyan.ProviderGemini))

		pc, err := p.ProviderConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, kaoyan.ProviderConfig{Provider: kaoyan.ProviderGemini}, pc)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		store := mock.NewMemoryStore()
		p := kaoyan.NewPreferences(store)
		err := p.SetProvider(context.Background(), "openai")
		assert.ErrorIs(t, err, kaoyan.ErrValidation)
		assert.Empty(t, store.Snapshot())
	})

	t.Run("ignores an invalid stored value", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		store := mock.NewMemoryStore()
		require.NoError(t, store.Set(ctx, kaoyan.KeyProvider, []byte("claude")))
		name, err := kaoyan.NewPreferences(store).Provider(ctx)
		require.NoError(t, err)
		assert.Equal(t, kaoyan.DefaultProvider, name)
	})

	t.Run("reports store failures with the default", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("disk on fire")
		store := &mock.Store{GetFn: func(ctx context.Context, key string) ([]byte, error) {
			return nil, wantErr
		}}
		name, err := kaoyan.NewPreferences(store).Provider(context.Background())
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, kaoyan.DefaultProvider, name)
	})
}
