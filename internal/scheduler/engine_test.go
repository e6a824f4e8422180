package scheduler

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Event{ID: "later", Kind: KindTask, At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ID: "sooner", Kind: KindWindow, At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineKeepsInsertionOrderForEqualTimes(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for _, id := range []string{"a", "b", "c"} {
		if err := engine.Schedule(Event{ID: id, At: at}); err != nil {
			t.Fatalf("schedule %s: %v", id, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		if got := waitEvent(t, engine.C(), time.Second); got.ID != want {
			t.Fatalf("expected %s, got %s", want, got.ID)
		}
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Event{ID: "evt", At: at}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestEngineResetClearsQueue(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Event{ID: "stale", At: time.Now().Add(50 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	engine.Reset()
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue after reset, got %d", engine.Pending())
	}
	if err := engine.Schedule(Event{ID: "fresh", At: time.Now().Add(10 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if got := waitEvent(t, engine.C(), time.Second); got.ID != "fresh" {
		t.Fatalf("expected fresh, got %s", got.ID)
	}
	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected event after reset: %s", ev.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Event{ID: "late", At: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected channel to be closed after stop")
	}
}

func TestStopBeforeStartClosesChannel(t *testing.T) {
	engine := NewEngine(1)
	engine.Stop()
	engine.Stop()
	engine.Start()

	select {
	case _, ok := <-engine.C():
		if ok {
			t.Fatal("expected closed channel, got an event")
		}
	case <-time.After(time.Second):
		t.Fatal("receiver blocked on an engine that was never started")
	}
	if err := engine.Schedule(Event{ID: "late", At: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
