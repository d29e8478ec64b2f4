package session

import (
	"context"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess := New("docs/synth.patch.json")
	sess.Viewport = Viewport{X: 100, Y: -40, Zoom: 1.5}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil session")
	}
	if got.Document != sess.Document {
		t.Errorf("Document = %q, want %q", got.Document, sess.Document)
	}
	if got.Viewport != sess.Viewport {
		t.Errorf("Viewport = %+v, want %+v", got.Viewport, sess.Viewport)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got != nil {
		t.Error("session still present after delete")
	}
}

func TestGetMissingSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil session for unknown ID")
	}
}

func TestCleanupRemovesStale(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	stale := New("old.patch.json")
	stale.UpdatedAt = time.Now().Add(-2 * DefaultRetention)
	fresh := New("new.patch.json")

	if err := store.Set(ctx, stale); err != nil {
		t.Fatalf("Set stale: %v", err)
	}
	if err := store.Set(ctx, fresh); err != nil {
		t.Fatalf("Set fresh: %v", err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if got, _ := store.Get(ctx, stale.ID); got != nil {
		t.Error("stale session survived cleanup")
	}
	if got, _ := store.Get(ctx, fresh.ID); got == nil {
		t.Error("fresh session removed by cleanup")
	}
}

func TestRecordFile(t *testing.T) {
	sess := New("a.patch.json")
	sess.RecordFile("b.patch.json")
	sess.RecordFile("a.patch.json")

	if sess.Document != "a.patch.json" {
		t.Errorf("Document = %q, want a.patch.json", sess.Document)
	}
	want := []string{"a.patch.json", "b.patch.json"}
	if len(sess.RecentFiles) != len(want) {
		t.Fatalf("RecentFiles = %v, want %v", sess.RecentFiles, want)
	}
	for i := range want {
		if sess.RecentFiles[i] != want[i] {
			t.Errorf("RecentFiles[%d] = %q, want %q", i, sess.RecentFiles[i], want[i])
		}
	}

	for i := 0; i < 20; i++ {
		sess.RecordFile(string(rune('a'+i)) + ".json")
	}
	if len(sess.RecentFiles) > maxRecentFiles {
		t.Errorf("RecentFiles length = %d, want <= %d", len(sess.RecentFiles), maxRecentFiles)
	}
}
