package enums

import "testing"

func TestVerificationStatusInitialRoute(t *testing.T) {
	tests := []struct {
		status VerificationStatus
		route  Route
	}{
		{VerificationStatusApproved, RouteDashboard},
		{VerificationStatusRejected, RouteAccountRejected},
		{VerificationStatusPending, RoutePendingApproval},
		{VerificationStatus("garbled"), RoutePendingApproval},
		{VerificationStatus(""), RoutePendingApproval},
	}
	for _, tt := range tests {
		if got := tt.status.InitialRoute(); got != tt.route {
			t.Fatalf("status %q expected route %q got %q", tt.status, tt.route, got)
		}
	}
}

func TestParseVerificationStatus(t *testing.T) {
	if status, err := ParseVerificationStatus("approved"); err != nil || status != VerificationStatusApproved {
		t.Fatalf("expected approved, got %q err %v", status, err)
	}
	if _, err := ParseVerificationStatus("verified"); err == nil {
		t.Fatal("expected unknown status to error")
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	if status, err := ParseDeliveryStatus("picked_up"); err != nil || status != DeliveryStatusPickedUp {
		t.Fatalf("expected picked_up, got %q err %v", status, err)
	}
	if _, err := ParseDeliveryStatus("teleported"); err == nil {
		t.Fatal("expected unknown status to error")
	}
}

func TestParseAvailabilityStatus(t *testing.T) {
	if status, err := ParseAvailabilityStatus("available"); err != nil || status != AvailabilityStatusAvailable {
		t.Fatalf("expected available, got %q err %v", status, err)
	}
	if _, err := ParseAvailabilityStatus("asleep"); err == nil {
		t.Fatal("expected unknown status to error")
	}
}

func TestParseEarningsPeriod(t *testing.T) {
	if period, err := ParseEarningsPeriod("week"); err != nil || period != EarningsPeriodWeek {
		t.Fatalf("expected week, got %q err %v", period, err)
	}
	if _, err := ParseEarningsPeriod("quarter"); err == nil {
		t.Fatal("expected unknown period to error")
	}
}
