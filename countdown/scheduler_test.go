package countdown

import (
	"reflect"
	"testing"
	"time"
)

func TestSchedulerRunsIndependentCountdowns(t *testing.T) {
	s := NewScheduler()
	var fired []string

	if _, err := s.After(2*time.Second, func() { fired = append(fired, "short") }); err != nil {
		t.Fatalf("after: %v", err)
	}
	long := &Countdown{OnExpire: func() { fired = append(fired, "long") }}
	if err := long.Start(5 * time.Second); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Add(long)
	s.Add(long)

	s.Tick(time.Second)
	if len(fired) != 0 || s.Len() != 2 {
		t.Fatalf("unexpected state after 1s: fired=%v len=%d", fired, s.Len())
	}
	s.Tick(time.Second)
	if !reflect.DeepEqual(fired, []string{"short"}) || s.Len() != 1 {
		t.Fatalf("unexpected state after 2s: fired=%v len=%d", fired, s.Len())
	}
	s.Tick(10 * time.Second)
	if !reflect.DeepEqual(fired, []string{"short", "long"}) || s.Len() != 0 {
		t.Fatalf("unexpected state after 12s: fired=%v len=%d", fired, s.Len())
	}
}

func TestSchedulerStopCancels(t *testing.T) {
	s := NewScheduler()
	fired := false
	c, err := s.After(time.Second, func() { fired = true })
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	c.Stop()
	s.Tick(2 * time.Second)
	if fired {
		t.Fatal("stopped countdown fired")
	}
	if s.Len() != 0 {
		t.Fatalf("expected stopped countdown to be pruned, len=%d", s.Len())
	}
}

func TestSchedulerAddDuringTickStartsNextTick(t *testing.T) {
	s := NewScheduler()
	var followUp *Countdown
	if _, err := s.After(time.Second, func() {
		followUp, _ = s.After(time.Second, func() {})
	}); err != nil {
		t.Fatalf("after: %v", err)
	}

	s.Tick(time.Second)
	if followUp == nil {
		t.Fatal("expected follow-up countdown")
	}
	if followUp.Elapsed() != 0 {
		t.Fatalf("follow-up ticked in the tick that created it: %v", followUp.Elapsed())
	}
	s.Tick(time.Second)
	if followUp.State() != StateExpired {
		t.Fatalf("expected follow-up to expire, got %s", followUp.State())
	}
}

func TestSchedulerAfterRejectsBadDuration(t *testing.T) {
	s := NewScheduler()
	if _, err := s.After(0, func() {}); err == nil {
		t.Fatal("expected error")
	}
	if s.Len() != 0 {
		t.Fatalf("expected nothing scheduled, len=%d", s.Len())
	}
}
