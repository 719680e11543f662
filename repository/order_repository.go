package repository

import (
	"strings"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderByTrackingCode(code string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("tracking_code = ?", code).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint               `json:"id"`
	RestaurantID uint               `json:"restaurantId"`
	Total        int64              `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	PaymentState entity.PaymentState `json:"paymentState"`
	TrackingCode string             `json:"trackingCode"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, restaurant_id, total, status, payment_state, tracking_code, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

type OwnerOrderSummary struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"userId"`
	CustomerName string             `json:"customerName"`
	Total        int64              `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	TrackingCode string             `json:"trackingCode"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForRestaurant(restID uint, status *entity.OrderStatus, page, limit int) ([]OwnerOrderSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	dbCount := r.DB.Table("orders AS o").Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		dbCount = dbCount.Where("o.status = ?", *status)
	}
	if err := dbCount.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []struct {
		ID           uint
		UserID       uint
		Total        int64
		Status       entity.OrderStatus
		TrackingCode string
		CreatedAt    time.Time
		FirstName    string
		LastName     string
	}
	db := r.DB.Table("orders AS o").
		Select("o.id, o.user_id, o.total, o.status, o.tracking_code, o.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = o.user_id").
		Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		db = db.Where("o.status = ?", *status)
	}
	if err := db.Order("o.id DESC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]OwnerOrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, OwnerOrderSummary{
			ID:           row.ID,
			UserID:       row.UserID,
			CustomerName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			Total:        row.Total,
			Status:       row.Status,
			TrackingCode: row.TrackingCode,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, total, nil
}

func (r *OrderRepository) GetOrderForRestaurant(restID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND restaurant_id = ?", orderID, restID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// TransitionCAS moves status from → to only when the row still carries the
// expected status and revision; the revision is bumped in the same write.
// Zero rows affected means a race was lost or the transition no longer
// applies.
func (r *OrderRepository) TransitionCAS(tx *gorm.DB, orderID uint, from, to entity.OrderStatus, revision uint, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"status":   to,
		"revision": revision + 1,
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ? AND revision = ?", orderID, from, revision).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkPaid flips the order's payment state and, when it is still Pending,
// confirms it. Used by payment confirmation and the reconciliation sweep.
func (r *OrderRepository) MarkPaid(tx *gorm.DB, orderID uint) error {
	if err := tx.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"payment_state": entity.PayStatePaid}).Error; err != nil {
		return err
	}
	return tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, entity.OrderPending).
		Updates(map[string]any{"status": entity.OrderConfirmed, "revision": gorm.Expr("revision + 1")}).Error
}

func (r *OrderRepository) SetPaymentState(tx *gorm.DB, orderID uint, state entity.PaymentState) error {
	return tx.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("payment_state", state).Error
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Model(&entity.OrderItem{}).
		Select("id, qty, unit_price, total, name, note, menu_item_id, order_id").
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

// ---------------- Validations / Helpers ----------------

func (r *OrderRepository) RestaurantExists(id uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// HasDeliveredOrder is the review-eligibility check.
func (r *OrderRepository) HasDeliveredOrder(userID, restID uint) (uint, error) {
	var row struct{ ID uint }
	err := r.DB.Model(&entity.Order{}).
		Select("id").
		Where("user_id = ? AND restaurant_id = ? AND status = ?", userID, restID, entity.OrderDelivered).
		Order("id DESC").Limit(1).
		Scan(&row).Error
	return row.ID, err
}
