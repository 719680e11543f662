package entity

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType is the closed set of business events a user can be told
// about.
type NotificationType string

const (
	NotifNewOrder               NotificationType = "new_order"
	NotifOrderStatus            NotificationType = "order_status"
	NotifPaymentSuccess         NotificationType = "payment_success"
	NotifPaymentRefund          NotificationType = "payment_refund"
	NotifOrderCancelled         NotificationType = "order_cancelled"
	NotifOrderCancelledRefunded NotificationType = "order_cancelled_refunded"
	NotifReviewReply            NotificationType = "review_reply"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is a fire-and-forget side effect of a transition. Failure to
// write one never fails the parent transition, and delivery (push/email) is a
// downstream consumer's problem.
type Notification struct {
	gorm.Model
	Type    NotificationType `gorm:"size:48;not null" json:"type"`
	Title   string           `gorm:"size:120" json:"title"`
	Message string           `gorm:"size:500" json:"message"`

	// JSON payload: order/restaurant/review ids, amount, tracking code.
	Data string `gorm:"type:text" json:"data"`

	IsRead   bool   `gorm:"default:false" json:"isRead"`
	Priority string `gorm:"size:12;default:normal" json:"priority"`

	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`
}
