package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/credstore/credstore/internal/kv"
)

var (
	// ErrStoreUnavailable wraps any failure reported by the backing key-value store.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrRecordCorrupt indicates a stored value that does not decode into a Record.
	ErrRecordCorrupt = errors.New("credential record corrupt")
)

// Store manages salted password records keyed by email.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

// NewStore creates a credential store on top of the given key-value backend.
func NewStore(backend kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{kv: backend, logger: logger}
}

// Exists reports whether a record is stored for email. A missing record is not an error.
func (s *Store) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.kv.Get(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kv.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// SetCredentials replaces the salt and hash for email, creating the record if needed.
func (s *Store) SetCredentials(ctx context.Context, email, password string) Result {
	rec, err := newRecord(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.set failed", slog.String("email", email), slog.Any("error", err))
		return failed(MessageInternalError)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.set failed", slog.String("email", email), slog.Any("error", err))
		return failed(MessageInternalError)
	}
	if err := s.kv.Put(ctx, email, payload); err != nil {
		s.logger.ErrorContext(ctx, "credentials.set failed",
			slog.String("email", email),
			slog.Any("error", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)),
		)
		return failed(MessageInternalError)
	}
	return succeeded(rec.Hash)
}

// Signup registers email with password. An existing record is never overwritten.
func (s *Store) Signup(ctx context.Context, email, password string) Result {
	exists, err := s.Exists(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.signup lookup failed", slog.String("email", email), slog.Any("error", err))
		return failed(MessageInternalError)
	}
	if exists {
		s.logger.InfoContext(ctx, "credentials.signup rejected", slog.String("email", email), slog.String("reason", "taken"))
		return failed(MessageUsernameTaken)
	}

	rec, err := newRecord(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.signup failed", slog.String("email", email), slog.Any("error", err))
		return failed(MessageInternalError)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.signup failed", slog.String("email", email), slog.Any("error", err))
		return failed(MessageInternalError)
	}

	// Conditional write: a concurrent signup may have landed after Exists.
	created, err := s.kv.PutIfAbsent(ctx, email, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "credentials.signup failed",
			slog.String("email", email),
			slog.Any("error", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)),
		)
		return failed(MessageInternalError)
	}
	if !created {
		s.logger.WarnContext(ctx, "credentials.signup lost concurrent race", slog.String("email", email))
		return failed(MessageUsernameTaken)
	}

	s.logger.InfoContext(ctx, "credentials.signup completed", slog.String("email", email))
	return succeeded(rec.Hash)
}

// Verify checks password against the stored record. Missing or unreadable
// records fail exactly like a mismatched password.
func (s *Store) Verify(ctx context.Context, email, password string) Result {
	rec, err := s.load(ctx, email)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.ErrorContext(ctx, "credentials.verify load failed", slog.String("email", email), slog.Any("error", err))
		}
		return failed(MessageWrongPassword)
	}
	if HashPassword(password, rec.Salt) != rec.Hash {
		return failed(MessageWrongPassword)
	}
	return succeeded(rec.Hash)
}

// ChangePassword replaces the password after verifying oldPassword.
func (s *Store) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) Result {
	if res := s.Verify(ctx, email, oldPassword); !res.Success {
		s.logger.InfoContext(ctx, "credentials.change rejected", slog.String("email", email))
		return failed(MessageOldPasswordWrong)
	}
	res := s.SetCredentials(ctx, email, newPassword)
	if !res.Success {
		return failed(MessageInternalError)
	}
	s.logger.InfoContext(ctx, "credentials.change completed", slog.String("email", email))
	return res
}

// DeleteAccount removes the record for email after verifying password.
func (s *Store) DeleteAccount(ctx context.Context, email, password string) Result {
	if res := s.Verify(ctx, email, password); !res.Success {
		s.logger.InfoContext(ctx, "credentials.delete rejected", slog.String("email", email))
		return failed(MessageWrongPassword)
	}
	if err := s.kv.Delete(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "credentials.delete failed",
			slog.String("email", email),
			slog.Any("error", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)),
		)
		return failed(MessageDeleteFailed)
	}
	s.logger.InfoContext(ctx, "credentials.delete completed", slog.String("email", email))
	return Result{Success: true}
}

// ForgotPassword is accepted but performs no action; there is no delivery channel.
func (s *Store) ForgotPassword(ctx context.Context, email string) {
	s.logger.DebugContext(ctx, "credentials.forgot ignored", slog.String("email", email))
}

func (s *Store) load(ctx context.Context, email string) (Record, error) {
	raw, err := s.kv.Get(ctx, email)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}
	if rec.Salt == "" || rec.Hash == "" {
		return Record{}, fmt.Errorf("%w: missing salt or hash", ErrRecordCorrupt)
	}
	return rec, nil
}
