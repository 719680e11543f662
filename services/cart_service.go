package services

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"gorm.io/gorm"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	MenuRepo *repository.MenuRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, mr *repository.MenuRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, MenuRepo: mr}
}

type AddToCartIn struct {
	RestaurantID uint   `json:"restaurantId" binding:"required"`
	MenuItemID   uint   `json:"menuItemId" binding:"required"`
	Qty          int    `json:"qty" binding:"min=1"`
	Note         string `json:"note"`
}

func (s *CartService) Get(userID uint) (*entity.Cart, int64, error) {
	c, err := s.CartRepo.GetCartWithItems(userID)
	if err != nil {
		return nil, 0, err
	}
	var subtotal int64
	for _, it := range c.Items {
		subtotal += it.Total
	}
	return c, subtotal, nil
}

func (s *CartService) Add(userID uint, in *AddToCartIn) error {
	if in.Qty <= 0 {
		in.Qty = 1
	}

	c, err := s.CartRepo.GetOrCreateCart(userID, in.RestaurantID)
	if err != nil {
		return err
	}

	// A non-empty cart is locked to one restaurant.
	if c.RestaurantID != 0 && c.RestaurantID != in.RestaurantID {
		return apperr.New(apperr.CrossRestaurant, "cart holds items from another restaurant")
	}
	if c.RestaurantID == 0 {
		c.RestaurantID = in.RestaurantID
		if err := s.CartRepo.DB.Save(c).Error; err != nil {
			return err
		}
	}

	m, err := s.MenuRepo.GetBasics(in.MenuItemID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "menu item not found", err)
	}
	if m.RestaurantID != in.RestaurantID {
		return apperr.New(apperr.CrossRestaurant, "menu item not in this restaurant")
	}
	if !m.Available {
		return apperr.New(apperr.Validation, "menu item unavailable")
	}

	line := &entity.CartItem{
		MenuItemID: m.ID,
		Qty:        in.Qty,
		UnitPrice:  m.Price,
		Total:      m.Price * int64(in.Qty),
		Note:       in.Note,
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.UpsertItem(tx, c.ID, line)
	})
}

func (s *CartService) UpdateQty(userID, itemID uint, qty int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.UpdateQty(tx, userID, itemID, qty)
	})
}

func (s *CartService) RemoveItem(userID, itemID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.RemoveItem(tx, userID, itemID)
	})
}

func (s *CartService) Clear(userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.ClearCart(tx, userID)
	})
}
