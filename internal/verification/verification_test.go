package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/queue"
	"github.com/locmanager/locmanager/internal/repository"
)

type tokenState struct {
	email    string
	token    string
	verified bool
}

type fakeStore struct {
	rows map[string]*tokenState
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*tokenState{}}
}

func (f *fakeStore) add(uid identity.UserID, email string) {
	f.rows[uid.String()] = &tokenState{email: email}
}

func (f *fakeStore) Issue(_ context.Context, uid identity.UserID, token string) (string, error) {
	st, ok := f.rows[uid.String()]
	if !ok {
		return "", repository.ErrNotFound
	}
	if st.verified {
		return "", repository.ErrAlreadyVerified
	}
	st.token = token
	return st.email, nil
}

func (f *fakeStore) Consume(_ context.Context, uid identity.UserID, token string) error {
	st, ok := f.rows[uid.String()]
	if !ok {
		return repository.ErrNotFound
	}
	if st.verified || st.token == "" || st.token != token {
		return repository.ErrInvalidToken
	}
	st.verified = true
	st.token = ""
	return nil
}

func (f *fakeStore) Verified(_ context.Context, uid identity.UserID) (bool, error) {
	st, ok := f.rows[uid.String()]
	if !ok {
		return false, repository.ErrNotFound
	}
	return st.verified, nil
}

type fakePublisher struct {
	published []queue.EmailRequested
	err       error
}

func (f *fakePublisher) PublishEmailRequested(_ context.Context, ev queue.EmailRequested) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

func tenant(num int64) identity.UserID {
	return identity.UserID{Role: identity.RoleTenant, Num: num}
}

func TestIssuePublishesTokenMail(t *testing.T) {
	store := newFakeStore()
	store.add(tenant(1), "t1@example.com")
	pub := &fakePublisher{}
	svc := NewService(store, pub)

	if err := svc.Issue(context.Background(), tenant(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	ev := pub.published[0]
	if ev.Kind != queue.EmailKindVerification {
		t.Fatalf("kind = %q", ev.Kind)
	}
	if ev.To != "t1@example.com" {
		t.Fatalf("to = %q", ev.To)
	}
	if ev.Token == "" || ev.Token != store.rows["t-1"].token {
		t.Fatalf("event token %q does not match stored token %q", ev.Token, store.rows["t-1"].token)
	}
	if ev.UserID != "t-1" || ev.UserType != "tenant" {
		t.Fatalf("event identity = %s/%s", ev.UserID, ev.UserType)
	}
}

func TestIssueOverwritesPreviousToken(t *testing.T) {
	store := newFakeStore()
	store.add(tenant(1), "t1@example.com")
	svc := NewService(store, &fakePublisher{})

	if err := svc.Issue(context.Background(), tenant(1)); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	first := store.rows["t-1"].token
	if err := svc.Issue(context.Background(), tenant(1)); err != nil {
		t.Fatalf("second issue: %v", err)
	}
	second := store.rows["t-1"].token

	if first == second {
		t.Fatal("second issue kept the old token")
	}
	if err := svc.Consume(context.Background(), tenant(1), first); !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("stale token consume: err = %v, want ErrInvalidToken", err)
	}
	if err := svc.Consume(context.Background(), tenant(1), second); err != nil {
		t.Fatalf("fresh token consume: %v", err)
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	store := newFakeStore()
	store.add(tenant(2), "t2@example.com")
	svc := NewService(store, &fakePublisher{})

	if err := svc.Issue(context.Background(), tenant(2)); err != nil {
		t.Fatalf("issue: %v", err)
	}
	token := store.rows["t-2"].token

	if err := svc.Consume(context.Background(), tenant(2), token); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if ok, _ := svc.Verified(context.Background(), tenant(2)); !ok {
		t.Fatal("identity not verified after consume")
	}
	if err := svc.Consume(context.Background(), tenant(2), token); !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("second consume: err = %v, want ErrInvalidToken", err)
	}
}

func TestResendOnVerifiedLeavesStateAlone(t *testing.T) {
	store := newFakeStore()
	store.add(tenant(3), "t3@example.com")
	store.rows["t-3"].verified = true
	pub := &fakePublisher{}
	svc := NewService(store, pub)

	err := svc.Resend(context.Background(), tenant(3))
	if !errors.Is(err, repository.ErrAlreadyVerified) {
		t.Fatalf("err = %v, want ErrAlreadyVerified", err)
	}
	if store.rows["t-3"].token != "" {
		t.Fatal("resend on verified identity minted a token")
	}
	if len(pub.published) != 0 {
		t.Fatalf("resend on verified identity published %d events", len(pub.published))
	}
}

func TestIssuePublishFailureDoesNotFail(t *testing.T) {
	store := newFakeStore()
	store.add(tenant(4), "t4@example.com")
	svc := NewService(store, &fakePublisher{err: errors.New("broker down")})

	if err := svc.Issue(context.Background(), tenant(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.rows["t-4"].token == "" {
		t.Fatal("token not committed despite publish failure")
	}
}
