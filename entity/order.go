package entity

import (
	"time"

	"gorm.io/gorm"
)

// Order is a priced, immutable snapshot of a checkout. Line items copy the
// menu price and name at creation time; later menu edits never touch history.
type Order struct {
	gorm.Model
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`

	Currency string `gorm:"size:8;default:PKR" json:"currency"`

	Status       OrderStatus   `gorm:"size:32;not null;default:Pending" json:"status"`
	PaymentState PaymentState  `gorm:"size:16;not null;default:Pending" json:"paymentState"`
	Method       PaymentMethod `gorm:"size:32" json:"paymentMethod"`

	DeliveryAddress     string `json:"deliveryAddress"`
	SpecialInstructions string `json:"specialInstructions"`

	TrackingCode string `gorm:"size:24;uniqueIndex;not null" json:"trackingCode"`

	ActualDeliveryTime *time.Time `json:"actualDeliveryTime,omitempty"`

	// Optimistic lock: every status-changing write bumps this and CASes on
	// the previous value.
	Revision uint `gorm:"not null;default:1" json:"revision"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	// Set when the order was created by reordering a previous one.
	ReorderOfID *uint `json:"reorderOfId,omitempty"`

	Items    []OrderItem `json:"-"`
	Payments []Payment   `json:"-"`
}

type OrderItem struct {
	gorm.Model
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPrice"` // snapshot at checkout
	Total     int64  `json:"total"`
	Name      string `json:"name"` // snapshot at checkout
	Note      string `json:"note"`

	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
