// Package auth implements the mock authentication state machine. Accounts
// live in the durable key-value store under a fixed collection key, with the
// signed-in user mirrored under a session key. There is no real identity
// provider: every account accepts one fixed mock password.
package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uwezo-ai/uwezo/kv"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/utils"
)

// Machine states.
const (
	StateAnonymous      = "anonymous"
	StateAuthenticating = "authenticating"
	StateAuthenticated  = "authenticated"
	StateError          = "error"
)

// Durable storage keys (namespaced by the kv layer).
const (
	usersKey   = "users"
	sessionKey = "current-session"
)

// The one password every mock account accepts.
const mockPassword = "password"

// Error messages surfaced inline on the auth forms.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "User with this email already exists"
)

// userRecord is the persistence shape; unlike the API shape it carries the
// password hash.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// Snapshot is a point-in-time view of the machine.
type Snapshot struct {
	State string       `json:"state"`
	User  *models.User `json:"user,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Authenticator owns the user collection and session record. It is the only
// writer of durable storage in the process.
type Authenticator struct {
	store kv.Store
	log   *zap.SugaredLogger

	mu    sync.RWMutex
	state string
	user  *models.User
	err   string
}

// New builds an authenticator, seeds the canonical accounts when the
// collection is missing or unreadable, and restores any stored session.
func New(ctx context.Context, store kv.Store, log *zap.SugaredLogger) *Authenticator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	a := &Authenticator{store: store, log: log, state: StateAnonymous}
	a.ensureSeeded(ctx)
	a.restoreSession(ctx)
	return a
}

// Snapshot returns the current machine state.
func (a *Authenticator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap := Snapshot{State: a.state, Error: a.err}
	if a.user != nil {
		u := *a.user
		snap.User = &u
	}
	return snap
}

// CurrentUser returns the signed-in user, if any.
func (a *Authenticator) CurrentUser() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state != StateAuthenticated || a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}

// Login resolves credentials against the stored collection. On success the
// record's last-login is refreshed and both the collection entry and the
// session key are rewritten.
func (a *Authenticator) Login(ctx context.Context, email, password string) (models.User, error) {
	a.beginAttempt()

	users := a.loadUsers(ctx)
	idx := findByEmail(users, email)
	if idx < 0 || !utils.CheckPassword(users[idx].PasswordHash, password) {
		return models.User{}, a.fail(msgInvalidCredentials)
	}

	users[idx].LastLogin = time.Now().UTC()
	a.saveUsers(ctx, users)
	a.writeSession(ctx, users[idx])
	return a.succeed(users[idx].User), nil
}

// Signup creates a new user-role account. The chosen password is accepted but
// not retained; the account stores the mock sentinel's hash like every other.
func (a *Authenticator) Signup(ctx context.Context, email, password, name string) (models.User, error) {
	a.beginAttempt()

	users := a.loadUsers(ctx)
	if findByEmail(users, email) >= 0 {
		return models.User{}, a.fail(msgEmailTaken)
	}

	now := time.Now().UTC()
	rec := userRecord{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			Role:      models.RoleUser,
			CreatedAt: now,
			LastLogin: now,
		},
		PasswordHash: mustHash(mockPassword),
	}
	users = append(users, rec)
	a.saveUsers(ctx, users)
	a.writeSession(ctx, rec)
	a.log.Infow("account created", "email", email)
	return a.succeed(rec.User), nil
}

// Logout clears the session key and the in-memory user.
func (a *Authenticator) Logout(ctx context.Context) {
	if err := a.store.Remove(ctx, sessionKey); err != nil {
		a.log.Warnw("session remove failed", "err", err)
	}
	a.mu.Lock()
	a.state = StateAnonymous
	a.user = nil
	a.err = ""
	a.mu.Unlock()
}

// ProfileUpdate is a shallow partial update of the signed-in user. Nil fields
// stay untouched.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateProfile merges the update into the signed-in user and rewrites both
// the collection entry and the session key.
func (a *Authenticator) UpdateProfile(ctx context.Context, upd ProfileUpdate) (models.User, bool) {
	a.mu.Lock()
	if a.state != StateAuthenticated || a.user == nil {
		a.mu.Unlock()
		return models.User{}, false
	}
	if upd.Name != nil {
		a.user.Name = *upd.Name
	}
	if upd.Email != nil {
		a.user.Email = *upd.Email
	}
	if upd.Avatar != nil {
		a.user.Avatar = *upd.Avatar
	}
	updated := *a.user
	a.mu.Unlock()

	users := a.loadUsers(ctx)
	for i := range users {
		if users[i].ID == updated.ID {
			hash := users[i].PasswordHash
			users[i] = userRecord{User: updated, PasswordHash: hash}
			a.writeSession(ctx, users[i])
			break
		}
	}
	a.saveUsers(ctx, users)
	return updated, true
}

// Users returns the stored collection without password material.
func (a *Authenticator) Users(ctx context.Context) []models.User {
	records := a.loadUsers(ctx)
	out := make([]models.User, 0, len(records))
	for _, r := range records {
		out = append(out, r.User)
	}
	return out
}

func (a *Authenticator) beginAttempt() {
	a.mu.Lock()
	a.state = StateAuthenticating
	a.err = ""
	a.mu.Unlock()
}

func (a *Authenticator) succeed(u models.User) models.User {
	a.mu.Lock()
	a.state = StateAuthenticated
	a.user = &u
	a.err = ""
	a.mu.Unlock()
	return u
}

func (a *Authenticator) fail(msg string) error {
	a.mu.Lock()
	a.state = StateError
	a.user = nil
	a.err = msg
	a.mu.Unlock()
	return &AuthError{Message: msg}
}

// AuthError is a user-facing authentication failure.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// loadUsers reads the collection; anything unreadable degrades to the seed
// rather than surfacing an error.
func (a *Authenticator) loadUsers(ctx context.Context) []userRecord {
	b, ok, err := a.store.Get(ctx, usersKey)
	if err != nil || !ok {
		if err != nil {
			a.log.Warnw("user collection read failed", "err", err)
		}
		return seedUsers()
	}
	var users []userRecord
	if err := json.Unmarshal(b, &users); err != nil {
		a.log.Warnw("user collection malformed, reseeding", "err", err)
		return seedUsers()
	}
	return users
}

func (a *Authenticator) saveUsers(ctx context.Context, users []userRecord) {
	b, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := a.store.Set(ctx, usersKey, b); err != nil {
		a.log.Warnw("user collection write failed", "err", err)
	}
}

func (a *Authenticator) writeSession(ctx context.Context, rec userRecord) {
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := a.store.Set(ctx, sessionKey, b); err != nil {
		a.log.Warnw("session write failed", "err", err)
	}
}

func (a *Authenticator) ensureSeeded(ctx context.Context) {
	_, ok, err := a.store.Get(ctx, usersKey)
	if ok && err == nil {
		// Malformed content is handled lazily by loadUsers.
		return
	}
	a.saveUsers(ctx, seedUsers())
	a.log.Infow("seeded canonical accounts")
}

func (a *Authenticator) restoreSession(ctx context.Context) {
	b, ok, err := a.store.Get(ctx, sessionKey)
	if err != nil || !ok {
		return
	}
	var rec userRecord
	if err := json.Unmarshal(b, &rec); err != nil || rec.ID == "" {
		// Stale or corrupt session: discard and stay anonymous.
		_ = a.store.Remove(ctx, sessionKey)
		return
	}
	a.mu.Lock()
	a.state = StateAuthenticated
	a.user = &rec.User
	a.mu.Unlock()
	a.log.Infow("session restored", "email", rec.Email)
}

func findByEmail(users []userRecord, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func mustHash(pw string) string {
	h, err := utils.HashPassword(pw)
	if err != nil {
		// bcrypt only fails on absurd cost values; keep the record usable.
		return ""
	}
	return h
}

// seedUsers returns the two canonical first-run accounts.
func seedUsers() []userRecord {
	hash := mustHash(mockPassword)
	return []userRecord{
		{
			User: models.User{
				ID:        "1",
				Email:     "admin@uwezo.ai",
				Name:      "Admin User",
				Role:      models.RoleAdmin,
				Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
				CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				LastLogin: time.Now().UTC(),
			},
			PasswordHash: hash,
		},
		{
			User: models.User{
				ID:        "2",
				Email:     "user@example.com",
				Name:      "John Doe",
				Role:      models.RoleUser,
				Avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
				CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				LastLogin: time.Now().UTC(),
			},
			PasswordHash: hash,
		},
	}
}
