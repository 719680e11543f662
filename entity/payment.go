package entity

import (
	"time"

	"gorm.io/gorm"
)

// Payment records one monetary transaction attempt against an Order. Actual
// money movement is delegated to the external gateway; the gateway ids here
// are opaque strings.
type Payment struct {
	gorm.Model
	Amount   int64  `json:"amount"`
	Currency string `gorm:"size:8;default:PKR" json:"currency"`

	Method PaymentMethod `gorm:"size:32" json:"method"`
	Status PaymentStatus `gorm:"size:32;not null;default:Pending" json:"status"`

	TransactionID string `gorm:"size:64;uniqueIndex;not null" json:"transactionId"`

	IntentID string `gorm:"size:128;index" json:"intentId"`
	ChargeID string `gorm:"size:128" json:"chargeId"`
	RefundID string `gorm:"size:128" json:"refundId"`

	RefundAmount int64  `json:"refundAmount"`
	RefundReason string `json:"refundReason"`

	ReceiptURL     string `json:"receiptUrl"`
	FailureMessage string `json:"failureMessage"`

	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	RefundedAt  *time.Time `json:"refundedAt,omitempty"`

	Revision uint `gorm:"not null;default:1" json:"revision"`

	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	// Denormalized for reporting.
	RestaurantID uint `gorm:"index" json:"restaurantId"`
}
