package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aynalab/chatsync/store"
)

func openTestSQLite(t *testing.T) store.KV {
	t.Helper()
	kv, err := store.OpenSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	return kv
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	if err := kv.Save(ctx, "chat/sessions.json", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := kv.Load(ctx, "chat/sessions.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Load() = %q, want %q", got, `[{"id":"1"}]`)
	}
}

func TestSQLiteStore_Upsert(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	if err := kv.Save(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := kv.Save(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := kv.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Load() = %q, want %q", got, "new")
	}

	keys, err := kv.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("List() returned %d keys after upsert, want 1", len(keys))
	}
}

func TestSQLiteStore_MissingKey(t *testing.T) {
	kv := openTestSQLite(t)

	_, err := kv.Load(context.Background(), "absent")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want ErrKeyNotFound", err)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	if err := kv.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}

	if _, err := kv.Load(ctx, "k"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() after Delete error = %v, want ErrKeyNotFound", err)
	}
}
