package trade

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusPendingPayment, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if Status("EXPIRED").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
	if Status("").Valid() {
		t.Fatal("expected empty status to be invalid")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusActive, StatusPendingPayment, true},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, true},
		{StatusPendingPayment, StatusCompleted, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusPendingPayment, StatusPendingPayment, false},
		{StatusPendingPayment, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPendingPayment, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusActive, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusActive.Terminal() || StatusPendingPayment.Terminal() {
		t.Fatal("open states must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("closed states must be terminal")
	}
}
