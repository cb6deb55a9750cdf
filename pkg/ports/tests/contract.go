package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/ports"
)

// TraceSinkContractTest is a reusable test suite that verifies if an adapter complies with ports.TraceSink.
// The sink must be empty and retain at least 5 events per machine.
func TraceSinkContractTest(t *testing.T, sink ports.TraceSink) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	event := func(machineID string, i int) domain.TraceEvent {
		return domain.TraceEvent{
			ID:         fmt.Sprintf("%s-%d", machineID, i),
			MachineID:  machineID,
			Type:       domain.EventStateEnter,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			From:       fmt.Sprintf("s%d", i),
			To:         fmt.Sprintf("s%d", i+1),
			Generation: uint64(i + 1),
		}
	}

	// 1. Unknown machine
	t.Run("Recent_NotFound", func(t *testing.T) {
		_, err := sink.Recent(ctx, "missing", 10)
		if !errors.Is(err, domain.ErrTraceNotFound) {
			t.Errorf("expected ErrTraceNotFound, got %v", err)
		}
	})

	// 2. Emit then read back in order
	t.Run("Emit_Recent_Order", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if err := sink.Emit(ctx, event("m1", i)); err != nil {
				t.Fatalf("emit %d: %v", i, err)
			}
		}

		got, err := sink.Recent(ctx, "m1", 0)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		for i, e := range got {
			want := event("m1", i)
			if e.ID != want.ID || e.From != want.From || e.To != want.To || e.Generation != want.Generation {
				t.Errorf("event %d mismatch: got %+v, want %+v", i, e, want)
			}
			if !e.Timestamp.Equal(want.Timestamp) {
				t.Errorf("event %d timestamp: got %v, want %v", i, e.Timestamp, want.Timestamp)
			}
		}
	})

	// 3. Limit keeps the latest
	t.Run("Recent_Limit", func(t *testing.T) {
		got, err := sink.Recent(ctx, "m1", 2)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(got) != 2 || got[0].ID != "m1-1" || got[1].ID != "m1-2" {
			t.Errorf("expected the 2 latest events oldest first, got %+v", got)
		}
	})

	// 4. Machines are isolated
	t.Run("Isolation", func(t *testing.T) {
		if err := sink.Emit(ctx, event("m2", 0)); err != nil {
			t.Fatalf("emit: %v", err)
		}
		got, err := sink.Recent(ctx, "m2", 0)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(got) != 1 || got[0].MachineID != "m2" {
			t.Errorf("expected only m2 events, got %+v", got)
		}
	})
}
