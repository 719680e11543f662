package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null" json:"price"` // whole PKR
	Available   bool   `gorm:"default:true" json:"available"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	OrderItems []OrderItem `json:"-"`
}
