package models

import (
	"time"

	"github.com/google/uuid"
)

// ReturnRequest is a customer's request to return (and optionally be
// refunded for) one delivered order item. Status transitions are owned by
// the ReturnStatus table in status.go; every applied transition appends a
// ReturnStatusHistory row.
type ReturnRequest struct {
	BaseModel
	ReturnNumber     string                `gorm:"uniqueIndex" json:"return_number"`
	OrderID          uuid.UUID             `gorm:"type:uuid;index" json:"order_id"`
	Order            *Order                `json:"order,omitempty"`
	OrderItemID      uuid.UUID             `gorm:"type:uuid;index" json:"order_item_id"`
	ProductID        *uuid.UUID            `gorm:"type:uuid" json:"product_id"`
	UserID           uuid.UUID             `gorm:"type:uuid;index" json:"user_id"`
	User             *User                 `json:"user,omitempty"`
	ActionType       ReturnAction          `gorm:"type:varchar(32)" json:"action_type"`
	IssueType        IssueType             `gorm:"type:varchar(32)" json:"issue_type"`
	IssueDescription string                `json:"issue_description"`
	Status           ReturnStatus          `gorm:"type:varchar(32);index" json:"status"`
	RefundAmount     float64               `json:"refund_amount"`
	History          []ReturnStatusHistory `json:"status_history,omitempty"`
}

type ReturnStatusHistory struct {
	BaseModel
	ReturnRequestID uuid.UUID    `gorm:"type:uuid;index" json:"return_request_id"`
	Status          ReturnStatus `gorm:"type:varchar(32)" json:"status"`
	Notes           string       `json:"notes"`
	OccurredAt      time.Time    `json:"timestamp"`
}

// IsOpen reports whether the return is still in a non-terminal state.
func (r *ReturnRequest) IsOpen() bool {
	switch r.Status.Normalize() {
	case ReturnStatusRefundCompleted, ReturnStatusCompleted, ReturnStatusRejected:
		return false
	default:
		return true
	}
}
