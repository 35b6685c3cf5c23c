package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "verdicts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey() Key {
	return Key{
		File:    "/media/movie.mkv",
		Size:    4096,
		ModTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Model:   "base",
	}
}

func TestGetMiss(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.Get(context.Background(), testKey())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("found = true on empty store")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := testKey()
	report := []byte(`{"file":"/media/movie.mkv","tracks":[]}`)

	if err := s.Put(ctx, key, report); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, found, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("found = false after Put")
	}
	if string(got) != string(report) {
		t.Errorf("report = %s, want %s", got, report)
	}
}

func TestKeyComponentsInvalidate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := testKey()
	if err := s.Put(ctx, key, []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	variants := []Key{
		{File: key.File, Size: key.Size + 1, ModTime: key.ModTime, Model: key.Model},
		{File: key.File, Size: key.Size, ModTime: key.ModTime.Add(time.Second), Model: key.Model},
		{File: key.File, Size: key.Size, ModTime: key.ModTime, Model: "small"},
	}
	for i, variant := range variants {
		_, found, err := s.Get(ctx, variant)
		if err != nil {
			t.Fatalf("Get variant %d: %v", i, err)
		}
		if found {
			t.Errorf("variant %d: stale hit for changed key component", i)
		}
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := testKey()

	if err := s.Put(ctx, key, []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, key, []byte("new")); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}
	got, _, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("report = %s, want new", got)
	}
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := testKey()

	if err := s.Put(ctx, key, []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Purge(ctx, key.File); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	_, found, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("verdict survived Purge")
	}
}
