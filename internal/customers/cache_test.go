package customers

import (
	"context"
	"errors"
	"io"
	"testing"

	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	names   []string
	pushErr error
	listErr error
}

func (f *fakeStore) PushRecent(ctx context.Context, key, value string, limit int64) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	kept := []string{value}
	for _, name := range f.names {
		if name != value {
			kept = append(kept, name)
		}
	}
	if int64(len(kept)) > limit {
		kept = kept[:limit]
	}
	f.names = kept
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, key string, limit int64) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.names, nil
}

func (f *fakeStore) RecentCustomersKey() string {
	return "fse:customers:recent"
}

func newTestCache(t *testing.T, store *fakeStore, limit int) *Cache {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "customers-test", Output: io.Discard})
	cache, err := NewCache(store, logg, limit)
	require.NoError(t, err)
	return cache
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	cache := newTestCache(t, store, 2)
	ctx := context.Background()

	cache.RecordCustomer(ctx, "Anand Traders")
	cache.RecordCustomer(ctx, "Kumar Papers")
	cache.RecordCustomer(ctx, "Sri Prints")

	names, err := cache.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sri Prints", "Kumar Papers"}, names)
}

func TestRecordSkipsBlankNames(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	cache := newTestCache(t, store, 5)

	cache.RecordCustomer(context.Background(), "   ")
	assert.Empty(t, store.names)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	t.Parallel()
	store := &fakeStore{pushErr: errors.New("redis down")}
	cache := newTestCache(t, store, 5)

	// must not panic or propagate
	cache.RecordCustomer(context.Background(), "Anand Traders")
}

func TestRecentSurfacesDependencyError(t *testing.T) {
	t.Parallel()
	store := &fakeStore{listErr: errors.New("redis down")}
	cache := newTestCache(t, store, 5)

	_, err := cache.Recent(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
