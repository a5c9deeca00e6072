package auth

import (
	"context"
	"testing"

	"github.com/uwezo-ai/uwezo/kv"
	"github.com/uwezo-ai/uwezo/models"
)

func newTestAuth(t *testing.T) (*Authenticator, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	return New(context.Background(), store, nil), store
}

func TestSeededAdminLogin(t *testing.T) {
	a, store := newTestAuth(t)
	ctx := context.Background()

	u, err := a.Login(ctx, "admin@uwezo.ai", "password")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if u.ID != "1" || u.Role != models.RoleAdmin || u.Name != "Admin User" {
		t.Errorf("unexpected admin record: %+v", u)
	}
	snap := a.Snapshot()
	if snap.State != StateAuthenticated {
		t.Errorf("state = %s, want authenticated", snap.State)
	}
	if snap.User == nil || snap.User.Email != "admin@uwezo.ai" {
		t.Errorf("snapshot user = %+v", snap.User)
	}
	if _, ok, _ := store.Get(ctx, sessionKey); !ok {
		t.Error("session key not written on login")
	}
}

func TestLoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@uwezo.ai", "hunter2"},
		{"unknown email", "nobody@example.com", "password"},
		{"empty credentials", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAuth(t)
			_, err := a.Login(context.Background(), tt.email, tt.password)
			if err == nil {
				t.Fatal("login accepted")
			}
			if err.Error() != "Invalid email or password" {
				t.Errorf("error = %q", err.Error())
			}
			snap := a.Snapshot()
			if snap.State != StateError {
				t.Errorf("state = %s, want error", snap.State)
			}
			if snap.Error != "Invalid email or password" {
				t.Errorf("snapshot error = %q", snap.Error)
			}
			if _, ok := a.CurrentUser(); ok {
				t.Error("user reported after failed login")
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	a, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := a.Signup(ctx, "user@example.com", "whatever", "Dup User")
	if err == nil {
		t.Fatal("duplicate signup accepted")
	}
	if err.Error() != "User with this email already exists" {
		t.Errorf("error = %q", err.Error())
	}
	if got := len(a.Users(ctx)); got != 2 {
		t.Errorf("collection grew to %d on rejected signup", got)
	}
}

func TestSignupAndMockPassword(t *testing.T) {
	a, _ := newTestAuth(t)
	ctx := context.Background()

	u, err := a.Signup(ctx, "jane@example.com", "her-own-password", "Jane")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("new account role = %s, want user", u.Role)
	}
	if u.ID == "" || u.ID == "1" || u.ID == "2" {
		t.Errorf("new account id %q collides with seeds", u.ID)
	}
	if got := len(a.Users(ctx)); got != 3 {
		t.Errorf("collection has %d users, want 3", got)
	}

	// The chosen password is not retained; only the mock sentinel works.
	a.Logout(ctx)
	if _, err := a.Login(ctx, "jane@example.com", "her-own-password"); err == nil {
		t.Error("chosen password accepted after signup")
	}
	if _, err := a.Login(ctx, "jane@example.com", "password"); err != nil {
		t.Errorf("mock password rejected: %v", err)
	}
}

func TestLogout(t *testing.T) {
	a, store := newTestAuth(t)
	ctx := context.Background()

	if _, err := a.Login(ctx, "user@example.com", "password"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	a.Logout(ctx)

	if snap := a.Snapshot(); snap.State != StateAnonymous || snap.User != nil {
		t.Errorf("post-logout snapshot = %+v", snap)
	}
	if _, ok, _ := store.Get(ctx, sessionKey); ok {
		t.Error("session key survives logout")
	}
}

func TestSessionRestore(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	first := New(ctx, store, nil)
	if _, err := first.Login(ctx, "admin@uwezo.ai", "password"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A fresh authenticator over the same store picks the session up.
	second := New(ctx, store, nil)
	u, ok := second.CurrentUser()
	if !ok || u.Email != "admin@uwezo.ai" {
		t.Fatalf("session not restored: %+v ok=%v", u, ok)
	}
}

func TestCorruptSessionDiscarded(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, sessionKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	a := New(ctx, store, nil)
	if snap := a.Snapshot(); snap.State != StateAnonymous {
		t.Errorf("state = %s, want anonymous", snap.State)
	}
	if _, ok, _ := store.Get(ctx, sessionKey); ok {
		t.Error("corrupt session key not removed")
	}
}

func TestMalformedCollectionReseeds(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, usersKey, []byte("[[broken")); err != nil {
		t.Fatal(err)
	}

	a := New(ctx, store, nil)
	if _, err := a.Login(ctx, "admin@uwezo.ai", "password"); err != nil {
		t.Errorf("login against reseeded collection failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	a, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := a.Login(ctx, "user@example.com", "password"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	name := "Johnathan Doe"
	u, ok := a.UpdateProfile(ctx, ProfileUpdate{Name: &name})
	if !ok {
		t.Fatal("update rejected while authenticated")
	}
	if u.Name != "Johnathan Doe" {
		t.Errorf("name = %q", u.Name)
	}
	if u.Email != "user@example.com" {
		t.Errorf("email changed unexpectedly: %q", u.Email)
	}

	// The change lands in the collection too.
	for _, stored := range a.Users(ctx) {
		if stored.ID == u.ID && stored.Name != "Johnathan Doe" {
			t.Errorf("collection entry not updated: %+v", stored)
		}
	}

	// Survives a restart via the rewritten session.
	a.Logout(ctx)
	if _, err := a.Login(ctx, "user@example.com", "password"); err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	if got, _ := a.CurrentUser(); got.Name != "Johnathan Doe" {
		t.Errorf("name after relogin = %q", got.Name)
	}
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	a, _ := newTestAuth(t)
	name := "x"
	if _, ok := a.UpdateProfile(context.Background(), ProfileUpdate{Name: &name}); ok {
		t.Error("profile update accepted while anonymous")
	}
}

func TestUsersOmitPasswordMaterial(t *testing.T) {
	a, _ := newTestAuth(t)
	users := a.Users(context.Background())
	if len(users) != 2 {
		t.Fatalf("got %d seeded users, want 2", len(users))
	}
	for _, u := range users {
		if u.Email == "" || u.Name == "" || u.Role == "" {
			t.Errorf("incomplete public record: %+v", u)
		}
	}
}
