// Package session holds the authentication state of the current user.
//
// A Session is created once per process and passed to everything that
// needs identity. It satisfies api.TokenSource, so the API client reads the
// token from it on every authenticated call.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Rshep3087/findash/api"
)

var (
	// ErrInvalidInput matches every InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPasswordMismatch matches the InputError returned when the signup
	// confirmation differs from the password.
	ErrPasswordMismatch = errors.New("passwords don't match")
)

// InputError is a credential problem caught before any request is made.
// Message is meant to be shown to the user as is.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return true
	case ErrPasswordMismatch:
		return e.Field == "ConfirmPassword"
	}
	return false
}

const (
	loginFailed  = "Login failed."
	signupFailed = "Signup failed."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Signup(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
}

// Store persists the token between runs. Saving an empty token removes it.
type Store interface {
	Load() (string, error)
	Save(token string) error
}

// Session is the authentication state. The zero value is not usable; call New.
type Session struct {
	store Store

	mu      sync.RWMutex
	token   string
	lastErr string
}

// New restores a session from store.
func New(store Store) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &Session{store: store, token: token}, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsLoggedIn reports whether a token is held.
func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// LastError is the message of the most recent failed login or signup.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError resets LastError.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// Login authenticates and stores the returned token.
func (s *Session) Login(ctx context.Context, auth Authenticator, creds api.Credentials) error {
	s.ClearError()
	if err := validate.Struct(creds); err != nil {
		return s.fail(inputError(err), loginFailed)
	}

	resp, err := auth.Login(ctx, creds)
	if err != nil {
		return s.fail(err, loginFailed)
	}
	if err := s.setToken(resp.Token); err != nil {
		return s.fail(err, loginFailed)
	}
	return nil
}

type signupInput struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// ValidateSignup checks signup input without touching the network.
func ValidateSignup(creds api.Credentials, confirm string) error {
	err := validate.Struct(signupInput{
		Email:           creds.Email,
		Password:        creds.Password,
		ConfirmPassword: confirm,
	})
	return inputError(err)
}

// Signup validates the confirmation, registers the user and stores the token.
// A mismatched confirmation fails before any request is made.
func (s *Session) Signup(ctx context.Context, auth Authenticator, creds api.Credentials, confirm string) error {
	s.ClearError()
	if err := ValidateSignup(creds, confirm); err != nil {
		return s.fail(err, signupFailed)
	}

	resp, err := auth.Signup(ctx, creds)
	if err != nil {
		return s.fail(err, signupFailed)
	}
	if err := s.setToken(resp.Token); err != nil {
		return s.fail(err, signupFailed)
	}
	return nil
}

// Logout discards the token, even when removing it from the store fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.store.Save(""); err != nil {
		return fmt.Errorf("removing stored session: %w", err)
	}
	return nil
}

// setToken adopts token only once the store has accepted it.
func (s *Session) setToken(token string) error {
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *Session) fail(err error, fallback string) error {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return err
}

// inputError turns validator output into an InputError fit for the login
// screen. It reports only the first failing field.
func inputError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	ie := &InputError{Field: fe.Field()}
	switch {
	case fe.Field() == "ConfirmPassword":
		ie.Message = "Passwords don't match."
	case fe.Tag() == "required":
		ie.Message = fe.Field() + " is required."
	case fe.Tag() == "email":
		ie.Message = "Please enter a valid email address."
	default:
		ie.Message = fe.Field() + " is invalid."
	}
	return ie
}

// Identity is what the token says about the user. The token is decoded
// without verifying its signature, so Identity is for display only.
type Identity struct {
	UserID    string    `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Expired reports whether the token carries an expiry that has passed.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Identity decodes the held token. It returns the zero Identity when logged
// out or when the token is not a JWT.
func (s *Session) Identity() Identity {
	token := s.Token()
	if token == "" {
		return Identity{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}
	}

	var id Identity
	for _, k := range []string{"sub", "userId", "user_id", "id"} {
		if v, ok := claims[k]; ok && v != nil {
			id.UserID = fmt.Sprint(v)
			break
		}
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id
}
