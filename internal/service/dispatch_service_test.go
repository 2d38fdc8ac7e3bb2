package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aceplace/internal/model"
	"aceplace/internal/mq"
)

func newDispatchFixture() (*DispatchService, *fakeUserStore, *fakeNotificationStore, *fakeMailer, *fakePublisher, *fakeCache) {
	users := newFakeUserStore(&model.User{
		ID:        "u1",
		Email:     "a@x.com",
		CreatedAt: time.Now(),
	})
	calls := []string{}
	notifs := &fakeNotificationStore{calls: &calls}
	mailer := &fakeMailer{calls: &calls}
	publisher := &fakePublisher{}
	cache := &fakeCache{warm: true}

	svc := NewDispatchService(users, notifs, mailer, publisher, cache, zap.NewNop())
	return svc, users, notifs, mailer, publisher, cache
}

func TestDispatchRegistrationSendsEmailOnly(t *testing.T) {
	svc, _, notifs, mailer, _, _ := newDispatchFixture()

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyRegistration, nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomeEmailSent, res.Outcome)
	assert.Nil(t, res.Notification)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].to)
	assert.Equal(t, "New notification", mailer.sent[0].subject)
	assert.Empty(t, notifs.items)
}

func TestDispatchNewMessageStoresOnly(t *testing.T) {
	svc, _, notifs, mailer, _, cache := newDispatchFixture()
	data := json.RawMessage(`{"field":"value"}`)

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewMessage, data)
	require.NoError(t, err)

	assert.Equal(t, OutcomeStored, res.Outcome)
	require.NotNil(t, res.Notification)
	assert.Empty(t, mailer.sent)
	require.Len(t, notifs.items, 1)

	stored := notifs.items[0]
	assert.True(t, stored.IsNew)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, model.KeyNewMessage, stored.Key)
	assert.JSONEq(t, string(data), string(stored.Data))
	assert.WithinDuration(t, time.Now(), stored.CreatedAt, time.Second)
	assert.Equal(t, 1, cache.invalidations)
}

func TestDispatchNewLoginSendsThenStores(t *testing.T) {
	svc, _, notifs, mailer, _, _ := newDispatchFixture()

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewLogin, nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomeEmailSentAndStored, res.Outcome)
	require.Len(t, mailer.sent, 1)
	require.Len(t, notifs.items, 1)
	// Email must be attempted before the store write.
	assert.Equal(t, []string{"email", "store"}, *notifs.calls)
}

func TestDispatchInvalidKeyHasNoSideEffects(t *testing.T) {
	svc, _, notifs, mailer, publisher, _ := newDispatchFixture()

	_, err := svc.Dispatch(context.Background(), "u1", model.Key("bogus"), nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, notifs.items)
	assert.Empty(t, publisher.events)
}

func TestDispatchUnknownUser(t *testing.T) {
	svc, _, notifs, mailer, _, _ := newDispatchFixture()

	_, err := svc.Dispatch(context.Background(), "missing", model.KeyRegistration, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, notifs.items)
}

func TestDispatchEmailFailureIsDeliveryFailure(t *testing.T) {
	svc, _, _, mailer, _, _ := newDispatchFixture()
	mailer.sendErr = errors.New("smtp down")

	_, err := svc.Dispatch(context.Background(), "u1", model.KeyRegistration, nil)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestDispatchStoreFailureIsStoreFailure(t *testing.T) {
	svc, _, notifs, _, _, _ := newDispatchFixture()
	notifs.insertErr = errors.New("pg down")

	_, err := svc.Dispatch(context.Background(), "u1", model.KeyNewMessage, nil)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestDispatchNewLoginPartialEmailFailed(t *testing.T) {
	svc, _, notifs, mailer, publisher, _ := newDispatchFixture()
	mailer.sendErr = errors.New("smtp down")

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewLogin, nil)
	require.NoError(t, err)

	// The store write still happens after the failed send; the result
	// reports the partial outcome with the email error attached.
	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.ErrorIs(t, res.EmailErr, ErrDeliveryFailed)
	assert.NoError(t, res.StoreErr)
	require.Len(t, notifs.items, 1)

	require.Len(t, publisher.events, 1)
	payload := publisher.events[0].payload.(mq.NotificationDispatchedPayload)
	assert.Equal(t, string(OutcomePartial), payload.Outcome)
	assert.NotEmpty(t, payload.EmailError)
	assert.Empty(t, payload.StoreError)
}

func TestDispatchNewLoginPartialStoreFailed(t *testing.T) {
	svc, _, notifs, mailer, _, _ := newDispatchFixture()
	notifs.insertErr = errors.New("pg down")

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewLogin, nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.NoError(t, res.EmailErr)
	assert.ErrorIs(t, res.StoreErr, ErrStoreFailed)
	assert.Len(t, mailer.sent, 1)
}

func TestDispatchPublishesAuditEvent(t *testing.T) {
	svc, _, _, _, publisher, _ := newDispatchFixture()

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewLogin, nil)
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, mq.RoutingKeyDispatched, publisher.events[0].routingKey)

	payload := publisher.events[0].payload.(mq.NotificationDispatchedPayload)
	assert.NotEmpty(t, payload.EventID)
	assert.Equal(t, res.Notification.ID, payload.NotificationID)
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, string(model.KeyNewLogin), payload.Key)
}

func TestDispatchBrokerFailureDoesNotFailDispatch(t *testing.T) {
	svc, _, notifs, _, publisher, _ := newDispatchFixture()
	publisher.publishErr = errors.New("broker down")

	res, err := svc.Dispatch(context.Background(), "u1", model.KeyNewMessage, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, res.Outcome)
	assert.Len(t, notifs.items, 1)
}
