package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"time"

	"github.com/twinj/uuid"
)

// VerificationTTL is the fixed token lifetime
const VerificationTTL = 12 * time.Hour

// TokenStore is the storage contract for verification tokens.
// Take must remove the record and return it in one atomic operation
// (single-use property); apperror.ErrNoData when no record matches.
type TokenStore interface {
	Save(ctx context.Context, token string, subject string, issuedAt time.Time, expiresAt time.Time) error
	Take(ctx context.Context, token string) (subject string, expiresAt time.Time, err error)
}

// VerificationModel issues and validates single-use identity-verification tokens.
// A subject may hold any number of live tokens at once; issuing never
// invalidates older ones (callers wanting "one active token" enforce that above).
type VerificationModel struct {
	Store TokenStore
	TTL   time.Duration // default VerificationTTL
	Now   helpers.Clock
	// injected from the user model, like GetUserName elsewhere
	UserExists func(userID string) (bool, error)
}

// Issue generates a crypto-random v4 UUID token bound to the subject.
// uuid.NewV4 draws from crypto/rand - predictable tokens would defeat the flow.
func (m VerificationModel) Issue(subject string) (string, error) {

	if subject == "" {
		return "", ErrInvalidSubject
	}

	exists, err := m.UserExists(subject)
	if err != nil {
		// already wrapped by the user model
		return "", err
	}
	if !exists {
		return "", ErrInvalidSubject
	}

	token := uuid.NewV4().String()
	now := m.now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Store.Save(ctx, token, subject, now, now.Add(m.ttl()))
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return token, nil
}

// Validate consumes a token and returns its subject.
// The record is gone after this call in every case: success consumes it
// (single use), expiry deletes it as part of the check (expire on read).
func (m VerificationModel) Validate(tokenString string) (string, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	subject, expiresAt, err := m.Store.Take(ctx, tokenString)
	if err != nil {
		if err == apperror.ErrNoData {
			return "", ErrTokenNotFound
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	if helpers.Expired(expiresAt, m.now()) {
		// Take already removed the record, which is exactly what we want here
		return "", ErrTokenExpired
	}

	return subject, nil
}

func (m VerificationModel) ttl() time.Duration {
	if m.TTL <= 0 {
		return VerificationTTL
	}
	return m.TTL
}

func (m VerificationModel) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}
