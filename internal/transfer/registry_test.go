package transfer

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func runningStatus(id string) Status {
	return Status{
		ID:          id,
		State:       StateRunning,
		SourceTable: "users",
		StartedAt:   time.Now(),
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Create(runningStatus("txn_a")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	st, ok := r.Get("txn_a")
	if !ok {
		t.Fatal("Get(txn_a) not found")
	}
	if st.ID != "txn_a" || st.State != StateRunning {
		t.Errorf("Get = %+v", st)
	}

	if _, ok := r.Get("txn_missing"); ok {
		t.Error("Get should miss for unknown id")
	}
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Create(runningStatus("txn_a")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Create(runningStatus("txn_a")); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestRegistry_ListInsertionOrderSnapshot(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"txn_1", "txn_2", "txn_3"} {
		if err := r.Create(runningStatus(id)); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	snapshot := r.List()
	if len(snapshot) != 3 {
		t.Fatalf("List = %d entries, want 3", len(snapshot))
	}
	for i, id := range []string{"txn_1", "txn_2", "txn_3"} {
		if snapshot[i].ID != id {
			t.Errorf("List[%d].ID = %q, want %q", i, snapshot[i].ID, id)
		}
	}

	// Mutations after the call must not change the snapshot.
	r.Update("txn_2", func(st *Status) {
		st.RecordsTransferred = 999
	})
	if snapshot[1].RecordsTransferred != 0 {
		t.Error("List snapshot was retroactively mutated")
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Create(runningStatus("txn_a"))

	st, _ := r.Get("txn_a")
	st.RecordsTransferred = 42

	fresh, _ := r.Get("txn_a")
	if fresh.RecordsTransferred != 0 {
		t.Error("mutating a Get result leaked into the registry")
	}
}

func TestRegistry_UpdateAtomicMultiField(t *testing.T) {
	r := NewRegistry()
	r.Create(runningStatus("txn_a"))

	// A terminal transition touches three fields; readers must see either
	// none or all of them. Hammer reads while updating.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			st, _ := r.Get("txn_a")
			if st.State == StateFailed {
				if st.ErrorMessage == "" || st.CompletedAt == nil {
					t.Error("observed half-updated terminal transition")
					return
				}
			} else if st.ErrorMessage != "" || st.CompletedAt != nil {
				t.Error("observed terminal fields on a running status")
				return
			}
		}
	}()

	now := time.Now()
	r.Update("txn_a", func(st *Status) {
		st.State = StateFailed
		st.ErrorMessage = "boom"
		st.CompletedAt = &now
	})

	close(stop)
	wg.Wait()
}

func TestRegistry_UpdateUnknownID(t *testing.T) {
	r := NewRegistry()
	if r.Update("txn_missing", func(st *Status) {}) {
		t.Error("Update should report unknown ids")
	}
}

func TestRegistry_ConcurrentCreators(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("txn_%03d", i)
			if err := r.Create(runningStatus(id)); err != nil {
				t.Errorf("Create(%s): %v", id, err)
			}
			r.Update(id, func(st *Status) {
				st.RecordsTransferred = int64(i)
			})
		}(i)
	}
	wg.Wait()

	if r.Len() != 50 {
		t.Fatalf("Len = %d, want 50", r.Len())
	}
	// Every record kept its own value; nothing was overwritten across ids.
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("txn_%03d", i)
		st, ok := r.Get(id)
		if !ok {
			t.Fatalf("missing %s", id)
		}
		if st.RecordsTransferred != int64(i) {
			t.Errorf("%s RecordsTransferred = %d, want %d", id, st.RecordsTransferred, i)
		}
	}
}

func TestRegistry_Prune(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Minute)

	completedAt := func(ts time.Time) *time.Time { return &ts }

	r.Create(Status{ID: "txn_old", State: StateCompleted, CompletedAt: completedAt(old)})
	r.Create(Status{ID: "txn_recent", State: StateFailed, CompletedAt: completedAt(recent)})
	r.Create(Status{ID: "txn_running", State: StateRunning})

	removed := r.Prune(24*time.Hour, now)
	if removed != 1 {
		t.Fatalf("Prune removed %d, want 1", removed)
	}

	if _, ok := r.Get("txn_old"); ok {
		t.Error("old terminal status survived prune")
	}
	if _, ok := r.Get("txn_recent"); !ok {
		t.Error("recent terminal status was pruned")
	}
	if _, ok := r.Get("txn_running"); !ok {
		t.Error("running status was pruned")
	}

	// Order of survivors is preserved.
	got := r.List()
	if len(got) != 2 || got[0].ID != "txn_recent" || got[1].ID != "txn_running" {
		t.Errorf("List after prune = %v", got)
	}
}
