package store_test

import (
	"encoding/json"
	"testing"
	"time"

	"gold-splitter/domain"
	"gold-splitter/store"
)

func newSnapshot(id string, version int, purse domain.Amount) *domain.Snapshot {
	stateBytes, _ := json.Marshal(domain.SessionState{ID: id, Version: version, Purse: purse})
	return &domain.Snapshot{
		AggregateID: id,
		Version:     version,
		State:       stateBytes,
		Timestamp:   time.Now().UTC(),
	}
}

func purseOf(t *testing.T, snap *domain.Snapshot) domain.Amount {
	t.Helper()
	var state domain.SessionState
	if err := json.Unmarshal(snap.State, &state); err != nil {
		t.Fatalf("Snapshot state is not valid JSON: %v", err)
	}
	return state.Purse
}

func TestInMemorySnapshotStore_SaveAndGetSnapshot(t *testing.T) {
	ss := store.NewInMemorySnapshotStore()
	id := "snap-sess-1"

	t.Run("GetNotFound", func(t *testing.T) {
		snap, found, err := ss.GetLatestSnapshot(id)
		if err != nil {
			t.Fatalf("GetLatestSnapshot failed: %v", err)
		}
		if found || snap != nil {
			t.Errorf("Expected no snapshot, got %v", snap)
		}
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		if err := ss.SaveSnapshot(newSnapshot(id, 5, domain.NewAmount(0, 1, 0, 0))); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}

		retrieved, found, err := ss.GetLatestSnapshot(id)
		if err != nil || !found {
			t.Fatalf("Expected snapshot to be found, err=%v", err)
		}
		if retrieved.Version != 5 {
			t.Errorf("Expected Version 5, got %d", retrieved.Version)
		}
		if purseOf(t, retrieved) != domain.NewAmount(0, 1, 0, 0) {
			t.Errorf("Snapshot state content mismatch: %s", string(retrieved.State))
		}

		retrieved.State[0] = 'x'
		retrieved.Version = 99

		original, _, _ := ss.GetLatestSnapshot(id)
		if original.Version == 99 {
			t.Errorf("GetLatestSnapshot did not return a copy (version modified)")
		}
		if purseOf(t, original) != domain.NewAmount(0, 1, 0, 0) {
			t.Errorf("GetLatestSnapshot did not return a copy (state modified): %s", string(original.State))
		}
	})

	t.Run("SavedSnapshotIsCopied", func(t *testing.T) {
		snap := newSnapshot("snap-sess-2", 3, domain.NewAmount(0, 0, 0, 7))
		_ = ss.SaveSnapshot(snap)
		snap.Version = 42

		stored, _, _ := ss.GetLatestSnapshot("snap-sess-2")
		if stored.Version != 3 {
			t.Errorf("Caller mutation leaked into the store: version %d", stored.Version)
		}
	})

	t.Run("OverwriteSnapshot", func(t *testing.T) {
		if err := ss.SaveSnapshot(newSnapshot(id, 10, domain.NewAmount(0, 2, 0, 0))); err != nil {
			t.Fatalf("SaveSnapshot (overwrite) failed: %v", err)
		}
		retrieved, _, _ := ss.GetLatestSnapshot(id)
		if retrieved.Version != 10 {
			t.Errorf("Expected overwritten Version 10, got %d", retrieved.Version)
		}
	})

	t.Run("IgnoreOlderSnapshot", func(t *testing.T) {
		if err := ss.SaveSnapshot(newSnapshot(id, 4, domain.NewAmount(9, 9, 9, 9))); err != nil {
			t.Fatalf("SaveSnapshot (older) failed: %v", err)
		}
		retrieved, _, _ := ss.GetLatestSnapshot(id)
		if retrieved.Version != 10 {
			t.Errorf("Expected Version 10 to be kept, got %d", retrieved.Version)
		}
	})

	t.Run("SaveNilSnapshot", func(t *testing.T) {
		if err := ss.SaveSnapshot(nil); err == nil {
			t.Errorf("Expected error when saving nil snapshot, got nil")
		}
	})
}
