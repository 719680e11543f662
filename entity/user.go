package entity

import (
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:user" json:"role"`

	RestaurantsOwned []Restaurant   `gorm:"foreignKey:OwnerID" json:"-"`
	Orders           []Order        `json:"-"`
	Reviews          []Review       `json:"-"`
	Notifications    []Notification `json:"-"`
}
