package app_test

import (
	"errors"
	"sync"
	"testing"

	"gold-splitter/app"
	"gold-splitter/domain"
	"gold-splitter/shared"
	"gold-splitter/store"
)

// setup initializes stores and a service snapshotting at the given frequency.
func setup(frequency int) (*app.SessionService, *store.InMemoryEventStore, *store.InMemorySnapshotStore) {
	eventStore := store.NewInMemoryEventStore()
	snapshotStore := store.NewInMemorySnapshotStore()
	service := app.NewSessionService(eventStore, snapshotStore, frequency)
	return service, eventStore, snapshotStore
}

func startSession(t *testing.T, service *app.SessionService, id string, parties int64) {
	t.Helper()
	if _, err := service.StartSession(app.StartSessionCommand{SessionID: id, Parties: &parties}); err != nil {
		t.Fatalf("StartSession(%s) failed: %v", id, err)
	}
}

func setCoins(t *testing.T, service *app.SessionService, id string, target shared.Target, d shared.Denomination, count int64) {
	t.Helper()
	err := service.SetCoins(app.SetCoinsCommand{SessionID: id, Target: target, Denomination: d, Count: count})
	if err != nil {
		t.Fatalf("SetCoins(%s %s %d) failed: %v", target, d, count, err)
	}
}

func getView(t *testing.T, service *app.SessionService, id string) *app.SessionView {
	t.Helper()
	view, err := service.GetView(app.GetViewQuery{SessionID: id})
	if err != nil {
		t.Fatalf("GetView(%s) failed: %v", id, err)
	}
	return view
}

func TestSessionService_StartSession(t *testing.T) {
	service, eventStore, _ := setup(0)

	t.Run("SuccessWithProvidedID", func(t *testing.T) {
		parties := int64(4)
		id, err := service.StartSession(app.StartSessionCommand{SessionID: "table-1", Parties: &parties})
		if err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		if id != "table-1" {
			t.Errorf("expected id table-1, got %s", id)
		}

		history, _ := eventStore.GetEvents(id)
		if len(history) != 1 {
			t.Fatalf("expected 1 event, got %d", len(history))
		}

		view := getView(t, service, id)
		if view.Version != 1 || view.Mode != shared.ModeDivide {
			t.Errorf("unexpected view header: version %d mode %s", view.Version, view.Mode)
		}
		if view.Split == nil || view.Split.Parties != 4 {
			t.Errorf("expected a split between 4 parties, got %+v", view.Split)
		}
	})

	t.Run("GeneratedIDAndDefaultParties", func(t *testing.T) {
		id, err := service.StartSession(app.StartSessionCommand{})
		if err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		if id == "" {
			t.Fatal("expected a generated session ID")
		}
		view := getView(t, service, id)
		if view.Split == nil || view.Split.Parties != app.DefaultParties {
			t.Errorf("expected default party count %d, got %+v", app.DefaultParties, view.Split)
		}
	})

	t.Run("ExplicitZeroPartiesKept", func(t *testing.T) {
		startSession(t, service, "table-0", 0)
		view := getView(t, service, "table-0")
		if view.Split != nil {
			t.Errorf("expected no split for a session started with zero parties, got %+v", view.Split)
		}
	})

	t.Run("FailAlreadyExists", func(t *testing.T) {
		_, err := service.StartSession(app.StartSessionCommand{SessionID: "table-1"})
		if !errors.Is(err, domain.ErrSessionExists) {
			t.Errorf("expected ErrSessionExists, got %v", err)
		}
	})
}

func TestSessionService_SessionNotFound(t *testing.T) {
	service, _, _ := setup(0)

	if _, err := service.GetView(app.GetViewQuery{SessionID: "missing"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetView: expected ErrSessionNotFound, got %v", err)
	}
	err := service.SetCoins(app.SetCoinsCommand{SessionID: "missing", Target: shared.TargetPurse, Denomination: shared.Gold, Count: 1})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("SetCoins: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.GetHistory(app.GetHistoryQuery{SessionID: "missing"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetHistory: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_DivideView(t *testing.T) {
	service, _, _ := setup(0)
	id := "split"
	startSession(t, service, id, 3)
	setCoins(t, service, id, shared.TargetPurse, shared.Copper, 100)

	view := getView(t, service, id)
	if !view.Dispersed.Equal(domain.NewAmount(0, 1, 0, 0)) {
		t.Errorf("expected dispersed purse 1 Gold, got %s", view.Dispersed)
	}
	if view.PurseTotals.Copper.IntPart() != 100 {
		t.Errorf("expected 100 copper in total, got %s", view.PurseTotals.Copper)
	}
	if view.Split == nil {
		t.Fatal("expected a split in divide mode")
	}
	if !view.Split.Share.Equal(domain.NewAmount(0, 0, 3, 3)) {
		t.Errorf("expected share 3 Silver, 3 Copper, got %s", view.Split.Share)
	}
	if view.Split.RemainderCopper != 1 || !view.Split.Remainder.Equal(domain.NewAmount(0, 0, 0, 1)) {
		t.Errorf("expected remainder of 1 copper, got %d (%s)", view.Split.RemainderCopper, view.Split.Remainder)
	}

	t.Run("ZeroPartiesHasNoSplit", func(t *testing.T) {
		if err := service.SetParties(app.SetPartiesCommand{SessionID: id, Parties: 0}); err != nil {
			t.Fatalf("SetParties failed: %v", err)
		}
		if view := getView(t, service, id); view.Split != nil {
			t.Errorf("expected no split with zero parties, got %+v", view.Split)
		}
	})
}

func TestSessionService_Commit(t *testing.T) {
	service, _, _ := setup(0)
	id := "commit"
	startSession(t, service, id, 1)
	setCoins(t, service, id, shared.TargetPurse, shared.Gold, 2)

	t.Run("FailInDivideMode", func(t *testing.T) {
		err := service.Commit(app.CommitCommand{SessionID: id})
		if !errors.Is(err, domain.ErrNothingToCommit) {
			t.Errorf("expected ErrNothingToCommit, got %v", err)
		}
	})

	t.Run("Add", func(t *testing.T) {
		if err := service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: shared.ModeAdd}); err != nil {
			t.Fatalf("SelectMode failed: %v", err)
		}
		setCoins(t, service, id, shared.TargetOperand, shared.Copper, 15)

		view := getView(t, service, id)
		if view.Split != nil {
			t.Errorf("expected no split outside divide mode")
		}
		if !view.Result.Equal(domain.NewAmount(0, 2, 1, 5)) {
			t.Errorf("expected result 2 Gold, 1 Silver, 5 Copper, got %s", view.Result)
		}

		if err := service.Commit(app.CommitCommand{SessionID: id}); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		view = getView(t, service, id)
		if !view.Purse.Equal(domain.NewAmount(0, 2, 0, 15)) {
			t.Errorf("expected committed purse (0,2,0,15), got %+v", view.Purse)
		}
		if !view.Operand.IsZero() {
			t.Errorf("expected operand to be cleared, got %s", view.Operand)
		}
	})

	t.Run("SubtractBelowZero", func(t *testing.T) {
		if err := service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: shared.ModeSubtract}); err != nil {
			t.Fatalf("SelectMode failed: %v", err)
		}
		setCoins(t, service, id, shared.TargetOperand, shared.Platinum, 1)
		if err := service.Commit(app.CommitCommand{SessionID: id}); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		view := getView(t, service, id)
		if view.Purse.TotalBaseUnits() != -785 {
			t.Errorf("expected purse total -785, got %d", view.Purse.TotalBaseUnits())
		}
		if !view.Dispersed.Equal(domain.NewAmount(0, -7, -8, -5)) {
			t.Errorf("expected dispersed (0,-7,-8,-5), got %+v", view.Dispersed)
		}
	})
}

func TestSessionService_GetHistory(t *testing.T) {
	service, _, _ := setup(0)
	id := "history"
	startSession(t, service, id, 2)
	setCoins(t, service, id, shared.TargetPurse, shared.Copper, 1)
	setCoins(t, service, id, shared.TargetPurse, shared.Silver, 2)
	setCoins(t, service, id, shared.TargetPurse, shared.Gold, 3)

	testCases := []struct {
		name         string
		skip, limit  int
		wantVersions []int
	}{
		{"All", 0, 0, []int{1, 2, 3, 4}},
		{"Limit", 0, 2, []int{1, 2}},
		{"SkipAndLimit", 1, 2, []int{2, 3}},
		{"LimitPastEnd", 3, 5, []int{4}},
		{"SkipPastEnd", 10, 0, []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			history, err := service.GetHistory(app.GetHistoryQuery{SessionID: id, Skip: tc.skip, Limit: tc.limit})
			if err != nil {
				t.Fatalf("GetHistory failed: %v", err)
			}
			if len(history) != len(tc.wantVersions) {
				t.Fatalf("expected %d events, got %d", len(tc.wantVersions), len(history))
			}
			for i, event := range history {
				if v := event.GetBase().Version; v != tc.wantVersions[i] {
					t.Errorf("event %d: expected version %d, got %d", i, tc.wantVersions[i], v)
				}
			}
		})
	}
}

func TestSessionService_ListSessions(t *testing.T) {
	service, _, _ := setup(0)
	if ids := service.ListSessions(); len(ids) != 0 {
		t.Fatalf("expected no sessions, got %v", ids)
	}
	startSession(t, service, "b", 1)
	startSession(t, service, "a", 1)

	ids := service.ListSessions()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected [a b], got %v", ids)
	}
}

func TestSessionService_Snapshotting(t *testing.T) {
	const frequency = 5
	service, eventStore, snapshotStore := setup(frequency)
	id := "snap"
	startSession(t, service, id, 2)

	// SessionStarted is v1; four more events reach the snapshot at v5.
	for i := int64(1); i < frequency; i++ {
		setCoins(t, service, id, shared.TargetPurse, shared.Copper, i*10)
	}

	snap, found, err := snapshotStore.GetLatestSnapshot(id)
	if err != nil {
		t.Fatalf("Error checking snapshot store: %v", err)
	}
	if !found {
		t.Fatalf("Expected snapshot to be saved at version %d, but not found", frequency)
	}
	if snap.Version != frequency {
		t.Errorf("Expected snapshot version %d, got %d", frequency, snap.Version)
	}

	setCoins(t, service, id, shared.TargetPurse, shared.Gold, 1)

	// Drop everything the snapshot covers; the session must still load.
	remaining, err := eventStore.GetEventsAfterVersion(id, frequency)
	if err != nil {
		t.Fatalf("GetEventsAfterVersion failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("Expected 1 event after snapshot version %d, found %d", frequency, len(remaining))
	}
	eventStore.ReplaceStream(id, remaining)

	reloaded := app.NewSessionService(eventStore, snapshotStore, frequency)
	view := getView(t, reloaded, id)
	if view.Version != frequency+1 {
		t.Errorf("Expected version %d after reload, got %d", frequency+1, view.Version)
	}
	if !view.Purse.Equal(domain.NewAmount(0, 1, 0, 40)) {
		t.Errorf("Expected purse (0,1,0,40) after reload, got %+v", view.Purse)
	}
	if view.Split == nil || view.Split.Parties != 2 {
		t.Errorf("Expected 2 parties restored from snapshot, got %+v", view.Split)
	}

	// The pruned session keeps accepting commands.
	setCoins(t, reloaded, id, shared.TargetPurse, shared.Silver, 7)
	if view := getView(t, reloaded, id); view.Version != frequency+2 {
		t.Errorf("Expected version %d, got %d", frequency+2, view.Version)
	}
}

// TestSessionService_OptimisticLocking runs concurrent updates against one session.
// Some may lose the race; those must fail with a lock conflict and nothing else.
func TestSessionService_OptimisticLocking(t *testing.T) {
	service, eventStore, _ := setup(0)
	id := "lock"
	startSession(t, service, id, 1)

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			err := service.SetParties(app.SetPartiesCommand{SessionID: id, Parties: int64(i + 1)})
			if err != nil {
				if !errors.Is(err, store.ErrOptimisticLock) {
					t.Errorf("Goroutine %d: unexpected error: %v", i, err)
				}
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	history, err := eventStore.GetEvents(id)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(history) != succeeded+1 {
		t.Errorf("expected %d events, got %d", succeeded+1, len(history))
	}
}
