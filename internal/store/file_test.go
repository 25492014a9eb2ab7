package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credential.jwt")
	s := NewFileStore(path)

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("Load on empty store = (ok=%v, err=%v), want absent without error", ok, err)
	}

	if err := s.Save(ctx, "header.payload.sig"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = (ok=%v, err=%v), want present", ok, err)
	}
	if got != "header.payload.sig" {
		t.Errorf("Load = %q, want %q", got, "header.payload.sig")
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credential.jwt")

	if err := NewFileStore(path).Save(ctx, "persisted"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh store over the same path models a process restart.
	got, ok, err := NewFileStore(path).Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load after reopen = (ok=%v, err=%v), want present", ok, err)
	}
	if got != "persisted" {
		t.Errorf("Load = %q, want %q", got, "persisted")
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "credential.jwt"))

	if err := s.Save(ctx, "first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "second"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("Load = %q, want last write", got)
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "credential.jwt"))

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := s.Save(ctx, "value"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("Load after Clear = (ok=%v, err=%v), want absent", ok, err)
	}
}
