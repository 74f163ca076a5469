// Package session manages editor sessions: the edit privilege that lets a
// club admin move markers on the road.
//
// There are no user accounts. An admin trades the configured admin token
// for a session; while the session is live its holder may drag markers and
// write offsets. Everybody else is a viewer.
//
// Stores come in three flavours:
//   - memory: in-process, for tests and the single-process API server
//   - file: JSON files under ~/.config/roadline/sessions, used by the CLI
//   - redis: shared by several API servers
//
// # Usage
//
//	sess, err := session.Login(token, cfg.AdminToken, "alex", session.DefaultTTL)
//	if err != nil {
//	    return err // UNAUTHORIZED
//	}
//	store.Set(ctx, sess)
//
//	// later, per request
//	sess, err := session.Require(ctx, store, id) // SESSION_NOT_FOUND, FORBIDDEN...
//
// [Live] turns a stored session into a road.Authorizer that re-reads the
// store on every check, so revoking a session stops persistence of a drag
// that is already under way.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"time"

	"github.com/rvno/roadline/pkg/errors"
)

// Role is what a session may do.
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Session stores editor session data.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// CanEdit reports whether the session currently grants edit privilege.
func (s *Session) CanEdit() bool {
	return s != nil && s.Role == RoleEditor && !s.IsExpired()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op where the backend expires keys).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 12 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New creates a new session with the given role.
func New(name string, role Role, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate session id")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Name:      name,
		Role:      role,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Login trades the admin token for an editor session. An empty admin token
// disables logins altogether.
func Login(token, adminToken, name string, ttl time.Duration) (*Session, error) {
	if adminToken == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "editing is disabled: no admin token configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid admin token")
	}
	return New(name, RoleEditor, ttl)
}

// Require loads the session id and checks that it may edit.
func Require(ctx context.Context, store Store, id string) (*Session, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "missing session")
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found or expired")
	}
	if sess.IsExpired() {
		return nil, errors.New(errors.ErrCodeSessionExpired, "session expired")
	}
	if sess.Role != RoleEditor {
		return nil, errors.New(errors.ErrCodeForbidden, "session may not edit")
	}
	return sess, nil
}

// Live returns an authorizer that asks the store on every call. Lookup
// failures deny.
func Live(ctx context.Context, store Store, id string) Authorizer {
	return Authorizer(func() bool {
		sess, err := store.Get(ctx, id)
		return err == nil && sess.CanEdit()
	})
}

// Authorizer adapts a function to the scene's edit privilege check.
type Authorizer func() bool

// CanEdit implements road.Authorizer.
func (a Authorizer) CanEdit() bool { return a() }
