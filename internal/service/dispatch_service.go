package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aceplace/internal/model"
	"aceplace/internal/mq"
	"aceplace/internal/repository"
	"aceplace/pkg/metrics"
)

const (
	mailSubject = "New notification"
	mailBody    = "You have a new notification"
)

// Outcome names which side effects a dispatch call produced.
type Outcome string

const (
	OutcomeEmailSent          Outcome = "email_sent"
	OutcomeStored             Outcome = "stored"
	OutcomeEmailSentAndStored Outcome = "email_sent_and_stored"
	// OutcomePartial means exactly one side of a dual delivery failed.
	// There is no compensation: the side that succeeded stays done.
	OutcomePartial Outcome = "partial"
	outcomeFailed  Outcome = "failed"
)

// DispatchResult reports the side effects of a dispatch call. On
// OutcomePartial the EmailErr/StoreErr fields say which side failed.
type DispatchResult struct {
	Outcome      Outcome
	Notification *model.Notification
	EmailErr     error
	StoreErr     error
}

type action int

const (
	actionEmail action = iota
	actionStore
)

// deliveryPolicy maps each notification key to its ordered action list.
// Email comes before store for new_login; that ordering is part of the
// delivery contract.
var deliveryPolicy = map[model.Key][]action{
	model.KeyRegistration: {actionEmail},
	model.KeyNewMessage:   {actionStore},
	model.KeyNewLogin:     {actionEmail, actionStore},
}

// DispatchService applies the per-key delivery policy. It holds no state
// of its own; all persistence lives behind the injected stores.
type DispatchService struct {
	userStore UserStore
	notifs    NotificationStore
	mailer    Mailer
	publisher EventPublisher
	cache     CountsCache
	logger    *zap.Logger
}

func NewDispatchService(
	userStore UserStore,
	notifs NotificationStore,
	mailer Mailer,
	publisher EventPublisher,
	cache CountsCache,
	logger *zap.Logger,
) *DispatchService {
	return &DispatchService{
		userStore: userStore,
		notifs:    notifs,
		mailer:    mailer,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// Dispatch resolves the target user and runs the delivery policy for key.
// The key check runs first since it is pure; both rejections happen before
// any side effect. For the dual path both sides are attempted regardless
// of each other's result and a partial outcome carries both errors.
func (s *DispatchService) Dispatch(ctx context.Context, userID string, key model.Key, data json.RawMessage) (*DispatchResult, error) {
	if !key.Valid() {
		return nil, ErrInvalidKey
	}

	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res := &DispatchResult{}
	emailTried, storeTried := false, false

	for _, act := range deliveryPolicy[key] {
		switch act {
		case actionEmail:
			emailTried = true
			if err := s.mailer.Send(ctx, user.Email, mailSubject, mailBody); err != nil {
				metrics.RecordEmailSent("failed")
				res.EmailErr = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
			} else {
				metrics.RecordEmailSent("success")
			}
		case actionStore:
			storeTried = true
			n := &model.Notification{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				Key:       key,
				Data:      data,
				IsNew:     true,
				CreatedAt: time.Now(),
			}
			if err := s.notifs.Insert(ctx, n); err != nil {
				res.StoreErr = fmt.Errorf("%w: %w", ErrStoreFailed, err)
			} else {
				res.Notification = n
				if s.cache != nil {
					s.cache.Invalidate(ctx)
				}
			}
		}
	}

	res.Outcome = outcome(emailTried, storeTried, res.EmailErr, res.StoreErr)
	metrics.RecordDispatch(string(key), string(res.Outcome))
	s.publishDispatched(user.ID, key, res)

	// A single-channel failure is terminal for the call; only the dual
	// path can end in a reportable partial result.
	if res.Outcome == outcomeFailed {
		if res.EmailErr != nil {
			return nil, res.EmailErr
		}
		return nil, res.StoreErr
	}
	return res, nil
}

func outcome(emailTried, storeTried bool, emailErr, storeErr error) Outcome {
	emailOK := emailTried && emailErr == nil
	storeOK := storeTried && storeErr == nil

	switch {
	case emailOK && storeOK:
		return OutcomeEmailSentAndStored
	case emailTried && storeTried:
		if emailOK || storeOK {
			return OutcomePartial
		}
		return outcomeFailed
	case emailOK:
		return OutcomeEmailSent
	case storeOK:
		return OutcomeStored
	default:
		return outcomeFailed
	}
}

// publishDispatched emits the audit event. Delivery of the event is
// best-effort: a broker failure is logged, never surfaced.
func (s *DispatchService) publishDispatched(userID string, key model.Key, res *DispatchResult) {
	if s.publisher == nil {
		return
	}

	payload := mq.NotificationDispatchedPayload{
		EventID:      uuid.NewString(),
		UserID:       userID,
		Key:          string(key),
		Outcome:      string(res.Outcome),
		DispatchedAt: time.Now(),
	}
	if res.Notification != nil {
		payload.NotificationID = res.Notification.ID
	}
	if res.EmailErr != nil {
		payload.EmailError = res.EmailErr.Error()
	}
	if res.StoreErr != nil {
		payload.StoreError = res.StoreErr.Error()
	}

	if err := s.publisher.Publish(mq.RoutingKeyDispatched, payload); err != nil {
		s.logger.Warn("Failed to publish dispatch event",
			zap.String("user_id", userID),
			zap.String("key", string(key)),
			zap.Error(err),
		)
	}
}
