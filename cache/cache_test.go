package cache

import (
	"path/filepath"
	"testing"
	"time"
)

type entry struct {
	Name string `json:"name"`
}

func TestSetGetRoundtrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "store"), 0)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Set(s, "k", entry{Name: "v"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := Get[entry](s, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got.Name != "v" {
		t.Fatalf("Get = %+v, %v, want {v}, true", got, ok)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := New(t.TempDir(), 0)
	_, ok, err := Get[entry](s, "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestIsValidRespectsMaxAge(t *testing.T) {
	s := New(t.TempDir(), time.Millisecond)
	if err := Set(s, "k", entry{Name: "v"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.IsValid("k") {
		t.Fatal("expected immediately-set key to be valid")
	}
	time.Sleep(5 * time.Millisecond)
	if s.IsValid("k") {
		t.Fatal("expected key to expire after max age")
	}
	_, ok, err := Get[entry](s, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected Get to report a miss once expired")
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New(t.TempDir(), 0)
	Set(s, "a", entry{Name: "a"})
	Set(s, "b", entry{Name: "b"})

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.IsValid("a") {
		t.Fatal("expected a to be gone after Remove")
	}
	if !s.IsValid("b") {
		t.Fatal("expected b to remain after removing a")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsValid("b") {
		t.Fatal("expected b to be gone after Clear")
	}
}

func TestInvalidateRemovesOnlyExpired(t *testing.T) {
	s := New(t.TempDir(), 10*time.Millisecond)
	Set(s, "old", entry{Name: "old"})
	time.Sleep(15 * time.Millisecond)
	Set(s, "fresh", entry{Name: "fresh"})

	if err := s.Invalidate(); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if s.IsValid("old") {
		t.Fatal("expected old entry to be invalidated")
	}
	if !s.IsValid("fresh") {
		t.Fatal("expected fresh entry to survive invalidation")
	}
}
