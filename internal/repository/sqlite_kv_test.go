package repository

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKVRoundTrip(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestKVAbsentKey(t *testing.T) {
	kv := openTestKV(t)

	_, ok, err := kv.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected absent key")
	}
}

func TestKVOverwrite(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "second" {
		t.Fatalf("got %q, want second", got)
	}
}

func TestKVSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kv.db")
	ctx := context.Background()

	kv, err := OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	kv, err = OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()

	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("expected durable value, got %q ok=%v err=%v", got, ok, err)
	}
}
