package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// DefaultSessionKey is the storage key of the persisted identity record.
const DefaultSessionKey = "quantiva_user"

// identityNamespace scopes the name-based UUIDs handed out as identity ids.
var identityNamespace = uuid.MustParse("6f1c8e2a-3b4d-5e6f-8a9b-0c1d2e3f4a5b")

var validate = validator.New()

type signInInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type signUpInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type observer struct {
	id int
	fn func(domain.SessionState)
}

// SessionService is the single source of truth for "is the user logged in".
// It is constructed once at startup in the loading state; Restore must run
// to completion before SignIn or SignUp are accepted.
type SessionService struct {
	storage  ports.RecordStorage
	codec    ports.RecordCodec
	verifier ports.IdentityVerifier
	key      string
	log      zerolog.Logger

	mu             sync.Mutex
	state          domain.SessionState
	restoreStarted bool
	pending        bool
	observers      []observer
	nextObserver   int
}

func NewSessionService(
	storage ports.RecordStorage,
	codec ports.RecordCodec,
	verifier ports.IdentityVerifier,
	key string,
	log zerolog.Logger,
) *SessionService {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionService{
		storage:  storage,
		codec:    codec,
		verifier: verifier,
		key:      key,
		log:      log,
		state:    domain.SessionState{Loading: true},
	}
}

// Restore repopulates the session from the persisted record. A missing,
// unreadable or corrupt record leaves the session anonymous; Restore only
// fails when it has already been called.
func (s *SessionService) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restoreStarted {
		s.mu.Unlock()
		return domain.ErrAlreadyRestored
	}
	s.restoreStarted = true
	s.mu.Unlock()

	identity := s.load(ctx)

	s.mu.Lock()
	s.state.Identity = identity
	s.state.Loading = false
	s.state.Restored = true
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("phase", string(snapshot.Phase())).
		Msg("session restored")
	notify(observers, snapshot)
	return nil
}

func (s *SessionService) load(ctx context.Context) *domain.Identity {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.log.Debug().Str("key", s.key).Msg("no persisted session")
		} else {
			s.log.Warn().Err(err).Str("key", s.key).Msg("session storage unreadable, starting anonymous")
		}
		return nil
	}

	identity, err := s.codec.Decode(data)
	if err == nil {
		err = identity.Validate()
	}
	if err != nil {
		if !errors.Is(err, domain.ErrRecordExpired) {
			err = fmt.Errorf("%w: %w", domain.ErrStorageCorrupt, err)
		}
		s.log.Warn().Err(err).Str("key", s.key).Msg("discarding persisted session")
		return nil
	}
	return &identity
}

// SignIn authenticates with email and password. The display name is the
// local part of the email.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateInput(signInInput{
		Email:    email,
		Password: strings.TrimSpace(password),
	}); err != nil {
		return domain.Identity{}, err
	}

	identity := domain.Identity{
		ID:          identityID(email),
		DisplayName: domain.DisplayNameFromEmail(email),
		Email:       email,
	}
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: email has no name before '@'", domain.ErrValidationFailed)
	}

	creds := ports.Credentials{Email: email, Password: password}
	return s.authenticate(ctx, "sign_in", creds, identity)
}

// SignUp registers and authenticates. The display name is taken from name.
func (s *SessionService) SignUp(ctx context.Context, name, email, password string) (domain.Identity, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validateInput(signUpInput{
		Name:     name,
		Email:    email,
		Password: strings.TrimSpace(password),
	}); err != nil {
		return domain.Identity{}, err
	}

	identity := domain.Identity{
		ID:          identityID(email),
		DisplayName: name,
		Email:       email,
	}
	creds := ports.Credentials{Name: name, Email: email, Password: password}
	return s.authenticate(ctx, "sign_up", creds, identity)
}

func (s *SessionService) authenticate(ctx context.Context, op string, creds ports.Credentials, identity domain.Identity) (domain.Identity, error) {
	s.mu.Lock()
	switch {
	case !s.state.Restored:
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrNotRestored
	case s.pending:
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrOperationPending
	}
	s.pending = true
	s.state.Loading = true
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()
	notify(observers, snapshot)

	// Abandoning the caller does not abort the operation; it still completes
	// and mutates the session.
	err := s.verifyAndPersist(context.WithoutCancel(ctx), creds, identity)

	s.mu.Lock()
	s.pending = false
	s.state.Loading = false
	if err == nil {
		s.state.Identity = &identity
	}
	snapshot, observers = s.snapshotLocked()
	s.mu.Unlock()
	notify(observers, snapshot)

	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("authentication failed")
		return domain.Identity{}, fmt.Errorf("%s: %w", strings.ReplaceAll(op, "_", " "), err)
	}

	s.log.Info().
		Str("op", op).
		Str("identity_id", identity.ID).
		Msg("session authenticated")
	return identity, nil
}

func (s *SessionService) verifyAndPersist(ctx context.Context, creds ports.Credentials, identity domain.Identity) error {
	if err := s.verifier.Verify(ctx, creds); err != nil {
		return fmt.Errorf("verify identity: %w", err)
	}

	data, err := s.codec.Encode(identity)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist session record: %w", err)
	}
	return nil
}

// SignOut drops the identity and its persisted record. Calling it while
// signed out is a no-op. It is refused before the restore completes and
// while a sign-in or sign-up is in flight, so neither can resurrect the
// session afterwards.
func (s *SessionService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case !s.state.Restored:
		s.mu.Unlock()
		return domain.ErrNotRestored
	case s.pending:
		s.mu.Unlock()
		return domain.ErrOperationPending
	}
	s.pending = true
	s.mu.Unlock()

	if err := s.storage.Delete(context.WithoutCancel(ctx), s.key); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("failed to delete session record")
	}

	s.mu.Lock()
	s.pending = false
	if s.state.Identity == nil {
		s.mu.Unlock()
		return nil
	}
	s.state.Identity = nil
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().Msg("session signed out")
	notify(observers, snapshot)
	return nil
}

// State returns a copy of the current session state.
func (s *SessionService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not block.
func (s *SessionService) Subscribe(fn func(domain.SessionState)) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *SessionService) snapshotLocked() (domain.SessionState, []observer) {
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	return s.state.Clone(), observers
}

func notify(observers []observer, snapshot domain.SessionState) {
	for _, o := range observers {
		o.fn(snapshot.Clone())
	}
}

func identityID(email string) string {
	return uuid.NewSHA1(identityNamespace, []byte(normalizeEmail(email))).String()
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
	}
	return fmt.Errorf("%w: %s", domain.ErrValidationFailed, strings.Join(msgs, "; "))
}
