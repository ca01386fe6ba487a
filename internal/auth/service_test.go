package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scentdesk/scentdesk/internal/shared"
	"github.com/scentdesk/scentdesk/internal/users"
)

type fakeStore struct {
	byEmail map[string]*users.User
	byID    map[int64]*users.User
	logins  int
	offline int
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) RecordLogin(context.Context, int64, string, string) error {
	f.logins++
	return nil
}

func (f *fakeStore) MarkOffline(context.Context, int64) error {
	f.offline++
	return nil
}

func newService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(store, shared.NewSessionManager(client, "secret", time.Hour))
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLoginSuccess(t *testing.T) {
	user := &users.User{ID: 1, Email: "anna@scentdesk.test", PasswordHash: hash(t, "s3cret-pass"), IsActive: true}
	store := &fakeStore{
		byEmail: map[string]*users.User{user.Email: user},
		byID:    map[int64]*users.User{1: user},
	}
	svc := newService(t, store)

	got, sess, err := svc.Login(context.Background(), user.Email, "s3cret-pass", "127.0.0.1", "test")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, 1, store.logins)
}

func TestLoginRejectsBadPasswordAndInactive(t *testing.T) {
	active := &users.User{ID: 1, Email: "a@x.test", PasswordHash: hash(t, "right"), IsActive: true}
	inactive := &users.User{ID: 2, Email: "b@x.test", PasswordHash: hash(t, "right"), IsActive: false}
	store := &fakeStore{byEmail: map[string]*users.User{
		active.Email:   active,
		inactive.Email: inactive,
	}}
	svc := newService(t, store)

	_, _, err := svc.Login(context.Background(), active.Email, "wrong", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), inactive.Email, "right", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@x.test", "right", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	user := &users.User{ID: 3, Email: "c@x.test", PasswordHash: hash(t, "pw-long-enough"), IsActive: true}
	store := &fakeStore{
		byEmail: map[string]*users.User{user.Email: user},
		byID:    map[int64]*users.User{3: user},
	}
	svc := newService(t, store)

	_, sess, err := svc.Login(context.Background(), user.Email, "pw-long-enough", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess))
	require.Equal(t, 1, store.offline)
}
