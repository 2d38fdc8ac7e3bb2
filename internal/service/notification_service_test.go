package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aceplace/internal/model"
)

func seedNotifications(n int) *fakeNotificationStore {
	store := &fakeNotificationStore{}
	for i := 0; i < n; i++ {
		store.items = append(store.items, model.Notification{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Key:       model.KeyNewMessage,
			IsNew:     true,
			CreatedAt: time.Now(),
		})
	}
	return store
}

func intPtr(v int) *int { return &v }

func TestListWithoutPagingReturnsEverything(t *testing.T) {
	store := seedNotifications(3)
	svc := NewNotificationService(store, nil, zap.NewNop())

	res, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Unread)
	assert.Len(t, res.Items, 3)
}

func TestListWithPaging(t *testing.T) {
	store := seedNotifications(5)
	svc := NewNotificationService(store, nil, zap.NewNop())

	res, err := svc.List(context.Background(), intPtr(1), intPtr(2))
	require.NoError(t, err)

	// Counts always cover the whole collection, not the page.
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Unread)
	require.Len(t, res.Items, 2)
	assert.Equal(t, store.items[1].ID, res.Items[0].ID)
	assert.Equal(t, store.items[2].ID, res.Items[1].ID)
}

func TestListWithOnlyOnePagingParamReturnsEverything(t *testing.T) {
	store := seedNotifications(4)
	svc := NewNotificationService(store, nil, zap.NewNop())

	onlySkip, err := svc.List(context.Background(), intPtr(1), nil)
	require.NoError(t, err)
	assert.Len(t, onlySkip.Items, 4)

	onlyLimit, err := svc.List(context.Background(), nil, intPtr(2))
	require.NoError(t, err)
	assert.Len(t, onlyLimit.Items, 4)
}

func TestListUnreadCountTracksMarkRead(t *testing.T) {
	store := seedNotifications(3)
	svc := NewNotificationService(store, nil, zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), store.items[0].ID))

	res, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Unread)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := seedNotifications(1)
	svc := NewNotificationService(store, nil, zap.NewNop())
	id := store.items[0].ID

	require.NoError(t, svc.MarkRead(context.Background(), id))
	require.NoError(t, svc.MarkRead(context.Background(), id))
	assert.False(t, store.items[0].IsNew)
}

func TestMarkReadUnknownID(t *testing.T) {
	store := seedNotifications(1)
	svc := NewNotificationService(store, nil, zap.NewNop())

	err := svc.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestListServesCountsFromWarmCache(t *testing.T) {
	store := seedNotifications(2)
	cache := &fakeCache{total: 10, unread: 7, warm: true}
	svc := NewNotificationService(store, cache, zap.NewNop())

	res, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 7, res.Unread)
	assert.Zero(t, cache.sets)
}

func TestListFillsColdCache(t *testing.T) {
	store := seedNotifications(2)
	cache := &fakeCache{}
	svc := NewNotificationService(store, cache, zap.NewNop())

	res, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.total)
	assert.Equal(t, 2, cache.unread)
}

func TestMarkReadInvalidatesCache(t *testing.T) {
	store := seedNotifications(1)
	cache := &fakeCache{warm: true}
	svc := NewNotificationService(store, cache, zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), store.items[0].ID))
	assert.Equal(t, 1, cache.invalidations)
}
