// Package profile implements the profile update workflow: validate every
// present field, apply the whole update atomically, re-arm email
// verification whenever the email address is part of the request, and
// rotate the credential when a password is supplied.
package profile

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/queue"
)

// Store applies a validated update as one atomic write. When token is
// non-empty the store must also clear is_email_verified and record the
// token on the same row in the same transaction. A password in the
// update rewrites the credential row, again in the same transaction.
type Store interface {
	Apply(ctx context.Context, uid identity.UserID, u Update, token string) error
}

// Blocks answers whether a block number exists; block_no references the
// block table and cannot be validated without storage.
type Blocks interface {
	BlockExists(ctx context.Context, blockNo string) (bool, error)
}

// Publisher queues outgoing verification mail. Delivery is decoupled
// from the request path: a publish failure is logged, never propagated.
type Publisher interface {
	PublishEmailRequested(ctx context.Context, ev queue.EmailRequested) error
}

type Service struct {
	Store     Store
	Blocks    Blocks
	Publisher Publisher
}

func NewService(store Store, blocks Blocks, pub Publisher) *Service {
	return &Service{Store: store, Blocks: blocks, Publisher: pub}
}

// Update runs the full workflow for one identity. All violations are
// accumulated before anything is written; a rejected update leaves the
// row untouched. An email field always re-arms verification with a
// fresh token, even when the new address equals the stored one.
func (s *Service) Update(ctx context.Context, uid identity.UserID, u Update) error {
	errs := Validate(u)
	if u.BlockNo != nil && len(errs) == 0 {
		ok, err := s.Blocks.BlockExists(ctx, *u.BlockNo)
		if err != nil {
			return err
		}
		if !ok {
			errs = append(errs, blockError(*u.BlockNo))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	token := ""
	if u.Email != nil {
		token = uuid.NewString()
	}
	if err := s.Store.Apply(ctx, uid, u, token); err != nil {
		return err
	}

	if u.Email != nil {
		ev := queue.EmailRequested{
			Kind:        queue.EmailKindVerification,
			To:          *u.Email,
			UserID:      uid.String(),
			UserType:    string(uid.Role),
			Token:       token,
			RequestedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Publisher.PublishEmailRequested(ctx, ev); err != nil {
			// The profile row is already committed; mail delivery is a
			// retryable side effect and must not fail the update.
			log.Printf("profile: publish verification mail for %s failed: %v", uid, err)
		}
	}
	return nil
}
