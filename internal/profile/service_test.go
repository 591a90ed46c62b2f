package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/queue"
)

type fakeStore struct {
	applied    int
	lastUpdate Update
	lastToken  string
	err        error
}

func (f *fakeStore) Apply(_ context.Context, _ identity.UserID, u Update, token string) error {
	if f.err != nil {
		return f.err
	}
	f.applied++
	f.lastUpdate = u
	f.lastToken = token
	return nil
}

type fakeBlocks struct {
	existing map[string]bool
	calls    int
}

func (f *fakeBlocks) BlockExists(_ context.Context, blockNo string) (bool, error) {
	f.calls++
	return f.existing[blockNo], nil
}

type fakePublisher struct {
	events []queue.EmailRequested
	err    error
}

func (f *fakePublisher) PublishEmailRequested(_ context.Context, ev queue.EmailRequested) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeBlocks, *fakePublisher) {
	store := &fakeStore{}
	blocks := &fakeBlocks{existing: map[string]bool{"1": true}}
	pub := &fakePublisher{}
	return NewService(store, blocks, pub), store, blocks, pub
}

func TestUpdateRejectedWritesNothing(t *testing.T) {
	svc, store, _, pub := newTestService()
	uid := identity.UserID{Role: identity.RoleTenant, Num: 7}

	err := svc.Update(context.Background(), uid, Update{
		Name:  strp("X"),
		Email: strp("valid@example.com"),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if store.applied != 0 {
		t.Fatal("rejected update reached the store")
	}
	if len(pub.events) != 0 {
		t.Fatal("rejected update queued mail")
	}
}

func TestUpdateEmailAlwaysReArmsVerification(t *testing.T) {
	svc, store, _, pub := newTestService()
	uid := identity.UserID{Role: identity.RoleOwner, Num: 3}

	// The address may equal the stored one; verification re-arms anyway.
	if err := svc.Update(context.Background(), uid, Update{Email: strp("same@example.com")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.lastToken == "" {
		t.Fatal("email update applied without a verification token")
	}
	if len(pub.events) != 1 {
		t.Fatalf("want one queued mail, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Kind != queue.EmailKindVerification {
		t.Fatalf("wrong mail kind %q", ev.Kind)
	}
	if ev.To != "same@example.com" || ev.Token != store.lastToken {
		t.Fatalf("mail does not match applied update: %+v", ev)
	}
	if ev.UserID != "o-3" || ev.UserType != "owner" {
		t.Fatalf("mail carries wrong identity: %+v", ev)
	}
}

func TestUpdateWithoutEmailLeavesVerificationAlone(t *testing.T) {
	svc, store, _, pub := newTestService()
	uid := identity.UserID{Role: identity.RoleTenant, Num: 9}

	if err := svc.Update(context.Background(), uid, Update{Name: strp("Nouveau Nom")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.lastToken != "" {
		t.Fatal("name-only update issued a verification token")
	}
	if len(pub.events) != 0 {
		t.Fatal("name-only update queued mail")
	}
}

func TestUpdateUnknownBlockRejected(t *testing.T) {
	svc, store, blocks, _ := newTestService()
	uid := identity.UserID{Role: identity.RoleAdmin, Num: 1}

	err := svc.Update(context.Background(), uid, Update{BlockNo: strp("42")})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if blocks.calls != 1 {
		t.Fatalf("want one existence check, got %d", blocks.calls)
	}
	if store.applied != 0 {
		t.Fatal("unknown block reached the store")
	}
}

func TestUpdateSkipsBlockCheckWhenFieldsInvalid(t *testing.T) {
	svc, _, blocks, _ := newTestService()
	uid := identity.UserID{Role: identity.RoleAdmin, Num: 1}

	_ = svc.Update(context.Background(), uid, Update{
		Name:    strp("X"),
		BlockNo: strp("1"),
	})
	if blocks.calls != 0 {
		t.Fatal("storage consulted for an already-invalid update")
	}
}

func TestUpdatePublishFailureDoesNotFail(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(store, &fakeBlocks{}, pub)
	uid := identity.UserID{Role: identity.RoleTenant, Num: 5}

	if err := svc.Update(context.Background(), uid, Update{Email: strp("new@example.com")}); err != nil {
		t.Fatalf("publish failure leaked to the caller: %v", err)
	}
	if store.applied != 1 {
		t.Fatal("update not applied")
	}
}

func TestUpdateStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("deadlock")}
	svc := NewService(store, &fakeBlocks{}, &fakePublisher{})
	uid := identity.UserID{Role: identity.RoleTenant, Num: 5}

	if err := svc.Update(context.Background(), uid, Update{Name: strp("Jean")}); err == nil {
		t.Fatal("store error swallowed")
	}
}
