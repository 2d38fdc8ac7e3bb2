package service

import (
	"context"

	"aceplace/internal/model"
	"aceplace/internal/repository"
)

// fakeUserStore keeps users in memory and can be forced to fail Create.
type fakeUserStore struct {
	users     map[string]*model.User // keyed by email
	createErr error
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeNotificationStore records inserts in order and serves counts from
// its in-memory slice. The calls slice is shared with fakeMailer so tests
// can assert effect ordering.
type fakeNotificationStore struct {
	items     []model.Notification
	insertErr error
	calls     *[]string
}

func (f *fakeNotificationStore) record(name string) {
	if f.calls != nil {
		*f.calls = append(*f.calls, name)
	}
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *model.Notification) error {
	f.record("store")
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotificationStore) CountAll(_ context.Context) (int, error) {
	return len(f.items), nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context) (int, error) {
	count := 0
	for _, n := range f.items {
		if n.IsNew {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) FindAll(_ context.Context) ([]model.Notification, error) {
	return append([]model.Notification(nil), f.items...), nil
}

func (f *fakeNotificationStore) FindPage(_ context.Context, skip, limit int) ([]model.Notification, error) {
	if skip >= len(f.items) {
		return []model.Notification{}, nil
	}
	end := skip + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return append([]model.Notification(nil), f.items[skip:end]...), nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsNew = false
			return nil
		}
	}
	return repository.ErrNotFound
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
	calls   *[]string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "email")
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	events     []publishedEvent
	publishErr error
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

type fakeCache struct {
	total, unread int
	warm          bool
	sets          int
	invalidations int
}

func (f *fakeCache) Get(_ context.Context) (int, int, bool) {
	return f.total, f.unread, f.warm
}

func (f *fakeCache) Set(_ context.Context, total, unread int) {
	f.total, f.unread = total, unread
	f.sets++
}

func (f *fakeCache) Invalidate(_ context.Context) {
	f.warm = false
	f.invalidations++
}
