// Package verification drives the email verification state machine:
// issue a fresh token, queue the mail carrying it, and consume the
// token exactly once when the link is followed.
package verification

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/queue"
)

// Store persists the token column of the role tables. Issue overwrites
// any previous token, returns the address on file, and fails with
// repository.ErrAlreadyVerified when the flag is already set. Consume
// flips the flag and clears the token in one transaction, failing with
// repository.ErrInvalidToken on any mismatch.
type Store interface {
	Issue(ctx context.Context, uid identity.UserID, token string) (string, error)
	Consume(ctx context.Context, uid identity.UserID, token string) error
	Verified(ctx context.Context, uid identity.UserID) (bool, error)
}

// Publisher queues the verification mail for asynchronous delivery.
type Publisher interface {
	PublishEmailRequested(ctx context.Context, ev queue.EmailRequested) error
}

type Service struct {
	Store     Store
	Publisher Publisher
}

func NewService(store Store, pub Publisher) *Service {
	return &Service{Store: store, Publisher: pub}
}

// Issue arms a fresh token for the identity and queues the mail. The
// token row is committed before the publish, so a broker outage loses
// only the delivery, never the state: resending mints a new token.
func (s *Service) Issue(ctx context.Context, uid identity.UserID) error {
	token := uuid.NewString()
	email, err := s.Store.Issue(ctx, uid, token)
	if err != nil {
		return err
	}

	ev := queue.EmailRequested{
		Kind:        queue.EmailKindVerification,
		To:          email,
		UserID:      uid.String(),
		UserType:    string(uid.Role),
		Token:       token,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Publisher.PublishEmailRequested(ctx, ev); err != nil {
		log.Printf("verification: publish mail for %s failed: %v", uid, err)
	}
	return nil
}

// Resend re-arms verification for an unverified identity. Already
// verified identities are reported as such and left untouched.
func (s *Service) Resend(ctx context.Context, uid identity.UserID) error {
	return s.Issue(ctx, uid)
}

// Consume validates and burns a token.
func (s *Service) Consume(ctx context.Context, uid identity.UserID, token string) error {
	return s.Store.Consume(ctx, uid, token)
}

// Verified reports the current flag.
func (s *Service) Verified(ctx context.Context, uid identity.UserID) (bool, error) {
	return s.Store.Verified(ctx, uid)
}
