package repository

import (
	"errors"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// GetCartWithItems returns the user's cart, or an empty unsaved one so the
// client can always render something.
func (r *CartRepository) GetCartWithItems(userID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.MenuItem").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Cart{UserID: userID}, nil
	}
	return &c, err
}

func (r *CartRepository) GetOrCreateCart(userID, restaurantID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{UserID: userID, RestaurantID: restaurantID}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	return &c, err
}

// UpsertItem merges into an existing line for the same item+note, else
// appends a new line.
func (r *CartRepository) UpsertItem(tx *gorm.DB, cartID uint, row *entity.CartItem) error {
	var exist entity.CartItem
	err := tx.Where("cart_id = ? AND menu_item_id = ? AND note = ?", cartID, row.MenuItemID, row.Note).
		First(&exist).Error
	if err == nil {
		exist.Qty += row.Qty
		exist.Total = int64(exist.Qty) * exist.UnitPrice
		return tx.Save(&exist).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row.CartID = cartID
	return tx.Create(row).Error
}

func (r *CartRepository) UpdateQty(tx *gorm.DB, userID, itemID uint, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(tx, userID, itemID)
	}
	return tx.Exec(`
		UPDATE cart_items
		   SET qty = ?, total = unit_price * ?
		 WHERE id = ?
		   AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)
	`, qty, qty, itemID, userID).Error
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, userID, itemID uint) error {
	if err := tx.
		Where("id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)", itemID, userID).
		Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	// Empty cart unlocks its restaurant.
	return tx.Exec(`
		UPDATE carts SET restaurant_id = 0
		 WHERE user_id = ?
		   AND NOT EXISTS (SELECT 1 FROM cart_items ci WHERE ci.cart_id = carts.id AND ci.deleted_at IS NULL)
	`, userID).Error
}

func (r *CartRepository) ClearCart(tx *gorm.DB, userID uint) error {
	var c entity.Cart
	if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Where("cart_id = ?", c.ID).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Model(&entity.Cart{}).Where("id = ?", c.ID).Update("restaurant_id", 0).Error
}
