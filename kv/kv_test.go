package kv

import (
	"context"
	"testing"
)

// stores under test share one behavioral contract.
func contractTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "users", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "users")
	if err != nil || !ok {
		t.Fatalf("Get after Set = ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("round-trip value = %q", got)
	}

	// Overwrite replaces.
	if err := s.Set(ctx, "users", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _, _ = s.Get(ctx, "users")
	if string(got) != `[]` {
		t.Errorf("value after overwrite = %q", got)
	}

	if err := s.Remove(ctx, "users"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "users"); ok {
		t.Error("value present after Remove")
	}

	// Removing an absent key is not an error.
	if err := s.Remove(ctx, "never-set"); err != nil {
		t.Errorf("Remove(absent) = %v", err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	contractTest(t, NewMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	contractTest(t, s)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "current-session", []byte(`{"id":"1"}`)); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := second.Get(ctx, "current-session")
	if err != nil || !ok {
		t.Fatalf("reopened store missing value: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"id":"1"}` {
		t.Errorf("value = %q", got)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("original")
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatal(err)
	}
	in[0] = 'X'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("returned value aliased store buffer: %q", again)
	}
}
