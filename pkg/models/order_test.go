package models

import (
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("boom")

func TestCanAdvanceToImmediateSuccessorOnly(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPlaced, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPlaced, OrderStatusShipped, false},
		{OrderStatusPlaced, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusPlaced, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusConfirmed, false},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusPlaced, "bogus", false},
	}
	for _, tc := range cases {
		o := Order{OrderStatus: tc.from}
		if got := o.CanAdvanceTo(tc.to); got != tc.want {
			t.Errorf("CanAdvanceTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAppendStatusGrowsHistory(t *testing.T) {
	var o Order
	o.AppendStatus(OrderStatusPlaced)
	o.AppendStatus(OrderStatusConfirmed)

	if len(o.StatusHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(o.StatusHistory))
	}
	if o.StatusHistory[0].Status != OrderStatusPlaced || o.StatusHistory[1].Status != OrderStatusConfirmed {
		t.Fatalf("history = %+v", o.StatusHistory)
	}
	if o.OrderStatus != OrderStatusConfirmed {
		t.Fatalf("OrderStatus = %q, want confirmed", o.OrderStatus)
	}
	if o.StatusHistory[1].Timestamp.Before(o.StatusHistory[0].Timestamp) {
		t.Fatal("history timestamps not monotonic")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped} {
		if (&Order{OrderStatus: status}).IsTerminal() {
			t.Errorf("%s reported terminal", status)
		}
	}
	for _, status := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		if !(&Order{OrderStatus: status}).IsTerminal() {
			t.Errorf("%s not reported terminal", status)
		}
	}
}

func TestOutboxBackoffCapped(t *testing.T) {
	entry := NewOutboxEntry(Order{ClientToken: "tok"})
	var prev time.Duration
	for i := 1; i <= 15; i++ {
		before := time.Now()
		entry.Backoff(nil)
		delay := entry.NextAttempt.Sub(before)

		if delay < time.Second-50*time.Millisecond {
			t.Fatalf("attempt %d: delay %v below floor", i, delay)
		}
		if delay > 5*time.Minute+50*time.Millisecond {
			t.Fatalf("attempt %d: delay %v above cap", i, delay)
		}
		if delay < prev-50*time.Millisecond {
			t.Fatalf("attempt %d: delay %v shrank from %v", i, delay, prev)
		}
		prev = delay
	}
	if entry.Attempts != 15 {
		t.Fatalf("attempts = %d, want 15", entry.Attempts)
	}
}

func TestOutboxBackoffRecordsError(t *testing.T) {
	entry := NewOutboxEntry(Order{ClientToken: "tok"})
	entry.Backoff(errTest)
	if entry.LastError != "boom" {
		t.Fatalf("LastError = %q, want boom", entry.LastError)
	}
}
