package entity

import (
	"time"

	"gorm.io/gorm"
)

// Review attaches a rating to a restaurant. One per (user, restaurant);
// creation is gated on a Delivered order.
type Review struct {
	gorm.Model
	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Title   string `gorm:"size:120" json:"title"`
	Comment string `json:"comment"`

	UserID       uint `gorm:"uniqueIndex:idx_review_user_restaurant" json:"userId"`
	User         User `json:"-"`
	RestaurantID uint `gorm:"uniqueIndex:idx_review_user_restaurant" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	// The delivered order that made the reviewer eligible.
	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	OwnerReply string     `json:"ownerReply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`

	// Hidden reviews are excluded from the rating rollup.
	Hidden bool `gorm:"default:false" json:"-"`
}
