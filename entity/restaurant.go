package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Address     string  `json:"address"`
	Cuisine     string  `json:"cuisine"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	IsOpen      bool    `gorm:"default:true" json:"isOpen"`

	// Rating rollup. Written only by the review rollup, never by ad hoc
	// increments elsewhere.
	AvgRating   float64 `json:"avgRating"`
	ReviewCount int64   `json:"reviewCount"`

	OwnerID uint `gorm:"index" json:"ownerId"`
	Owner   User `json:"-"`

	MenuItems []MenuItem `json:"-"`
	Orders    []Order    `json:"-"`
	Reviews   []Review   `json:"-"`
}
