package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	t.Run("happy path edges", func(t *testing.T) {
		path := []Status{StatusPending, StatusConfirmed, StatusShipped, StatusOutForDelivery, StatusDelivered}
		for i := 0; i < len(path)-1; i++ {
			if !path[i].CanTransition(path[i+1]) {
				t.Fatalf("%s -> %s should be allowed", path[i], path[i+1])
			}
		}
	})

	t.Run("terminal states have no exits", func(t *testing.T) {
		for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
			for _, to := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
				if terminal.CanTransition(to) {
					t.Fatalf("%s -> %s should be blocked", terminal, to)
				}
			}
		}
	})
}

func TestCancellable(t *testing.T) {
	want := map[Status]bool{
		StatusPending:        true,
		StatusConfirmed:      true,
		StatusShipped:        false,
		StatusOutForDelivery: false,
		StatusDelivered:      false,
		StatusCancelled:      false,
	}
	for status, expect := range want {
		if got := status.Cancellable(); got != expect {
			t.Fatalf("%s: Cancellable()=%v, want %v", status, got, expect)
		}
	}
}

func TestAddressMutable(t *testing.T) {
	for _, blocked := range []Status{StatusShipped, StatusOutForDelivery, StatusDelivered} {
		if blocked.AddressMutable() {
			t.Fatalf("%s should block address changes", blocked)
		}
	}
	if !StatusConfirmed.AddressMutable() {
		t.Fatal("confirmed should allow address changes")
	}
}

func TestStatusValid(t *testing.T) {
	if Status("teleported").Valid() {
		t.Fatal("unknown status should not be valid")
	}
	if !StatusOutForDelivery.Valid() {
		t.Fatal("out_for_delivery should be valid")
	}
}
