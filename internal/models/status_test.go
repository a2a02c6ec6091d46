package models

import "testing"

func TestDeliveryStatusSequence(t *testing.T) {
	tests := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryStatusPending, DeliveryStatusShipped, true},
		{DeliveryStatusShipped, DeliveryStatusOutForDelivery, true},
		{DeliveryStatusOutForDelivery, DeliveryStatusDelivered, true},
		{DeliveryStatusPending, DeliveryStatusOutForDelivery, false},
		{DeliveryStatusPending, DeliveryStatusDelivered, false},
		{DeliveryStatusShipped, DeliveryStatusPending, false},
		{DeliveryStatusDelivered, DeliveryStatusPending, false},
		{DeliveryStatusDelivered, DeliveryStatusDelivered, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestDeliveryStatusAllowedNext(t *testing.T) {
	next := DeliveryStatusOutForDelivery.AllowedNext()
	if len(next) != 1 || next[0] != DeliveryStatusDelivered {
		t.Fatalf("out_for_delivery allowed next = %v, want [delivered]", next)
	}

	if next := DeliveryStatusDelivered.AllowedNext(); next != nil {
		t.Fatalf("delivered allowed next = %v, want nil", next)
	}

	if next := DeliveryStatus("bogus").AllowedNext(); next != nil {
		t.Fatalf("unknown status allowed next = %v, want nil", next)
	}
}

func TestReturnStatusNormalize(t *testing.T) {
	tests := []struct {
		in   ReturnStatus
		want ReturnStatus
	}{
		{ReturnStatusLegacyPending, ReturnStatusRequested},
		{ReturnStatusLegacyApproved, ReturnStatusApproved},
		{ReturnStatusLegacyRejected, ReturnStatusRejected},
		{ReturnStatusLegacyCompleted, ReturnStatusCompleted},
		{ReturnStatusRequested, ReturnStatusRequested},
		{ReturnStatusRefundInitiated, ReturnStatusRefundInitiated},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ReturnStatus
		to      ReturnStatus
		allowed bool
	}{
		{ReturnStatusRequested, ReturnStatusApproved, true},
		{ReturnStatusRequested, ReturnStatusRejected, true},
		{ReturnStatusRequested, ReturnStatusPickupScheduled, false},
		{ReturnStatusApproved, ReturnStatusPickupScheduled, true},
		{ReturnStatusApproved, ReturnStatusRejected, true},
		{ReturnStatusPickupScheduled, ReturnStatusProductReceived, true},
		{ReturnStatusPickupScheduled, ReturnStatusRejected, false},
		{ReturnStatusProductReceived, ReturnStatusRefundInitiated, true},
		{ReturnStatusProductReceived, ReturnStatusCompleted, true},
		{ReturnStatusRefundInitiated, ReturnStatusRefundCompleted, true},
		{ReturnStatusRefundCompleted, ReturnStatusRequested, false},
		{ReturnStatusRejected, ReturnStatusApproved, false},
		{ReturnStatusCompleted, ReturnStatusRefundInitiated, false},

		// Legacy spellings are normalised on both sides.
		{ReturnStatusLegacyPending, ReturnStatusApproved, true},
		{ReturnStatusLegacyApproved, ReturnStatusPickupScheduled, true},
		{ReturnStatusRequested, ReturnStatusLegacyApproved, true},
		{ReturnStatusLegacyRejected, ReturnStatusApproved, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestReturnStatusRequiresRefundAmount(t *testing.T) {
	for _, s := range []ReturnStatus{ReturnStatusRefundInitiated, ReturnStatusRefundCompleted} {
		if !s.RequiresRefundAmount() {
			t.Errorf("%s should require a refund amount", s)
		}
	}
	for _, s := range []ReturnStatus{
		ReturnStatusRequested, ReturnStatusApproved, ReturnStatusPickupScheduled,
		ReturnStatusProductReceived, ReturnStatusCompleted, ReturnStatusRejected,
	} {
		if s.RequiresRefundAmount() {
			t.Errorf("%s should not require a refund amount", s)
		}
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestIssueTypeValidation(t *testing.T) {
	for _, issue := range []IssueType{
		IssueTypeDamaged, IssueTypeWrongItem, IssueTypeQualityIssue,
		IssueTypeLateDelivery, IssueTypeOthers,
	} {
		if !issue.IsValid() {
			t.Errorf("%s should be valid", issue)
		}
	}
	if IssueType("broken").IsValid() {
		t.Error("unknown issue type accepted")
	}

	if !IssueTypeOthers.RequiresDescription() {
		t.Error("others should require a description")
	}
	if IssueTypeDamaged.RequiresDescription() {
		t.Error("damaged should not require a description")
	}
}

func TestReturnRequestIsOpen(t *testing.T) {
	open := []ReturnStatus{
		ReturnStatusRequested, ReturnStatusApproved, ReturnStatusPickupScheduled,
		ReturnStatusProductReceived, ReturnStatusRefundInitiated,
		ReturnStatusLegacyPending,
	}
	for _, s := range open {
		r := ReturnRequest{Status: s}
		if !r.IsOpen() {
			t.Errorf("status %s should be open", s)
		}
	}

	closed := []ReturnStatus{
		ReturnStatusRefundCompleted, ReturnStatusCompleted, ReturnStatusRejected,
		ReturnStatusLegacyRejected, ReturnStatusLegacyCompleted,
	}
	for _, s := range closed {
		r := ReturnRequest{Status: s}
		if r.IsOpen() {
			t.Errorf("status %s should be closed", s)
		}
	}
}
