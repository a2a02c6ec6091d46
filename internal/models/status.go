package models

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether the order status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether an order may move to the given status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // terminal states
	default:
		return false
	}
}

// AllowedNext returns the ordered list of statuses an order may move to.
func (s OrderStatus) AllowedNext() []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusProcessing, OrderStatusCancelled}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusShipped, OrderStatusCancelled}
	case OrderStatusShipped:
		return []OrderStatus{OrderStatusDelivered}
	default:
		return nil
	}
}

// DeliveryStatus tracks the physical shipment of an order. It only ever
// advances forward through deliverySequence, one step at a time.
type DeliveryStatus string

const (
	DeliveryStatusPending        DeliveryStatus = "pending"
	DeliveryStatusShipped        DeliveryStatus = "shipped"
	DeliveryStatusOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
)

var deliverySequence = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusShipped,
	DeliveryStatusOutForDelivery,
	DeliveryStatusDelivered,
}

// IsValid reports whether the delivery status is a known value.
func (s DeliveryStatus) IsValid() bool {
	return s.sequenceIndex() >= 0
}

func (s DeliveryStatus) sequenceIndex() int {
	for i, v := range deliverySequence {
		if v == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo reports whether the shipment may move to the given status.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	from := s.sequenceIndex()
	to := next.sequenceIndex()
	return from >= 0 && to == from+1
}

// AllowedNext returns the single next delivery step, or nil when delivered.
func (s DeliveryStatus) AllowedNext() []DeliveryStatus {
	idx := s.sequenceIndex()
	if idx < 0 || idx == len(deliverySequence)-1 {
		return nil
	}
	return []DeliveryStatus{deliverySequence[idx+1]}
}

// ReturnStatus is the state of a return/refund request.
type ReturnStatus string

const (
	ReturnStatusRequested       ReturnStatus = "return_requested"
	ReturnStatusApproved        ReturnStatus = "return_approved"
	ReturnStatusPickupScheduled ReturnStatus = "pickup_scheduled"
	ReturnStatusProductReceived ReturnStatus = "product_received"
	ReturnStatusRefundInitiated ReturnStatus = "refund_initiated"
	ReturnStatusRefundCompleted ReturnStatus = "refund_completed"
	ReturnStatusCompleted       ReturnStatus = "return_completed"
	ReturnStatusRejected        ReturnStatus = "return_rejected"

	// Legacy short-form statuses still present in old rows. Accepted on
	// read, normalised before any transition check, never written back.
	ReturnStatusLegacyPending   ReturnStatus = "pending"
	ReturnStatusLegacyApproved  ReturnStatus = "approved"
	ReturnStatusLegacyRejected  ReturnStatus = "rejected"
	ReturnStatusLegacyCompleted ReturnStatus = "completed"
)

// Normalize maps legacy short-form statuses onto their long-form equivalents.
func (s ReturnStatus) Normalize() ReturnStatus {
	switch s {
	case ReturnStatusLegacyPending:
		return ReturnStatusRequested
	case ReturnStatusLegacyApproved:
		return ReturnStatusApproved
	case ReturnStatusLegacyRejected:
		return ReturnStatusRejected
	case ReturnStatusLegacyCompleted:
		return ReturnStatusCompleted
	default:
		return s
	}
}

// IsValid reports whether the return status is a known value, legacy included.
func (s ReturnStatus) IsValid() bool {
	switch s.Normalize() {
	case ReturnStatusRequested, ReturnStatusApproved, ReturnStatusPickupScheduled,
		ReturnStatusProductReceived, ReturnStatusRefundInitiated,
		ReturnStatusRefundCompleted, ReturnStatusCompleted, ReturnStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the return may move to the given status.
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	for _, allowed := range s.AllowedNext() {
		if allowed == next.Normalize() {
			return true
		}
	}
	return false
}

// AllowedNext returns the ordered list of statuses a return may move to.
// Unknown current statuses yield nil so callers fail closed.
func (s ReturnStatus) AllowedNext() []ReturnStatus {
	switch s.Normalize() {
	case ReturnStatusRequested:
		return []ReturnStatus{ReturnStatusApproved, ReturnStatusRejected}
	case ReturnStatusApproved:
		return []ReturnStatus{ReturnStatusPickupScheduled, ReturnStatusRejected}
	case ReturnStatusPickupScheduled:
		return []ReturnStatus{ReturnStatusProductReceived}
	case ReturnStatusProductReceived:
		return []ReturnStatus{ReturnStatusRefundInitiated, ReturnStatusCompleted}
	case ReturnStatusRefundInitiated:
		return []ReturnStatus{ReturnStatusRefundCompleted}
	case ReturnStatusRefundCompleted, ReturnStatusCompleted, ReturnStatusRejected:
		return nil // terminal states
	default:
		return nil
	}
}

// RequiresRefundAmount reports whether entering this status needs a positive
// refund amount on the request.
func (s ReturnStatus) RequiresRefundAmount() bool {
	n := s.Normalize()
	return n == ReturnStatusRefundInitiated || n == ReturnStatusRefundCompleted
}

// ReturnAction is what the customer asked for.
type ReturnAction string

const (
	ReturnActionReturn       ReturnAction = "return"
	ReturnActionReturnRefund ReturnAction = "return_refund"
)

// IsValid reports whether the action type is a known value.
func (a ReturnAction) IsValid() bool {
	return a == ReturnActionReturn || a == ReturnActionReturnRefund
}

// IssueType is the customer's stated reason for a return.
type IssueType string

const (
	IssueTypeDamaged      IssueType = "damaged"
	IssueTypeWrongItem    IssueType = "wrong-item"
	IssueTypeQualityIssue IssueType = "quality-issue"
	IssueTypeLateDelivery IssueType = "late-delivery"
	IssueTypeOthers       IssueType = "others"
)

// IsValid reports whether the issue type is a known value.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueTypeDamaged, IssueTypeWrongItem, IssueTypeQualityIssue,
		IssueTypeLateDelivery, IssueTypeOthers:
		return true
	default:
		return false
	}
}

// RequiresDescription reports whether a free-text description is mandatory.
func (t IssueType) RequiresDescription() bool {
	return t == IssueTypeOthers
}
