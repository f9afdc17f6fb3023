package journal

import (
	"context"
	"fmt"
	"testing"

	"whisperstudio/types"
)

func TestMemoryJournalNewestFirstAndCapped(t *testing.T) {
	j := NewMemoryJournal(3)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := j.Record(ctx, types.RunRecord{RunID: fmt.Sprintf("run-%d", i)}); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d; want 3", len(got))
	}
	for i, want := range []string{"run-5", "run-4", "run-3"} {
		if got[i].RunID != want {
			t.Fatalf("entry %d = %s; want %s", i, got[i].RunID, want)
		}
	}

	if got, _ := j.Recent(ctx, 1); len(got) != 1 || got[0].RunID != "run-5" {
		t.Fatalf("Recent(1) = %+v", got)
	}
	if got, _ := j.Recent(ctx, -1); len(got) != 0 {
		t.Fatalf("Recent(-1) = %+v", got)
	}
}

func TestNewWithoutAddrIsMemory(t *testing.T) {
	j := New(RedisConfig{})
	if _, ok := j.(*MemoryJournal); !ok {
		t.Fatalf("New = %T; want *MemoryJournal", j)
	}
}

func TestDecodeRecordsSkipsGarbage(t *testing.T) {
	good, err := encodeRecord(types.RunRecord{RunID: "run-1", State: types.StateDone, FailedStage: ""})
	if err != nil {
		t.Fatalf("encodeRecord error: %v", err)
	}
	got := decodeRecords([]string{string(good), "{broken", `{"run_id":"run-2","state":"error","failed_stage":"composing"}`})
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[1].FailedStage != "composing" || got[1].State != types.StateError {
		t.Fatalf("entry 1 = %+v", got[1])
	}
}
