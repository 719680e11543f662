package repository

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type PaymentRepository struct{ DB *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(tx *gorm.DB, p *entity.Payment) error {
	return tx.Create(p).Error
}

func (r *PaymentRepository) Get(id uint) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetForUser(id, userID uint) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestCompletedForOrder finds the payment a refund applies to.
func (r *PaymentRepository) LatestCompletedForOrder(orderID uint) (*entity.Payment, error) {
	var p entity.Payment
	err := r.DB.Where("order_id = ? AND status = ?", orderID, entity.PaymentCompleted).
		Order("id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestActionableForOrder returns the newest Pending/Processing payment; only
// that record may still be confirmed.
func (r *PaymentRepository) LatestActionableForOrder(orderID uint) (*entity.Payment, error) {
	var p entity.Payment
	err := r.DB.Where("order_id = ? AND status IN ?", orderID,
		[]entity.PaymentStatus{entity.PaymentPending, entity.PaymentProcessing}).
		Order("id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateCAS writes updates only when the revision still matches, bumping it.
func (r *PaymentRepository) UpdateCAS(tx *gorm.DB, paymentID, revision uint, updates map[string]any) (bool, error) {
	all := map[string]any{"revision": revision + 1}
	for k, v := range updates {
		all[k] = v
	}
	res := tx.Model(&entity.Payment{}).
		Where("id = ? AND revision = ?", paymentID, revision).
		Updates(all)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListUnreconciled finds completed payments whose order never got marked
// paid: the crash window between the two writes in payment confirmation.
func (r *PaymentRepository) ListUnreconciled(limit int) ([]entity.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []entity.Payment
	err := r.DB.
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("payments.status = ? AND orders.payment_state <> ?",
			entity.PaymentCompleted, entity.PayStatePaid).
		Where("orders.status NOT IN ?", []entity.OrderStatus{entity.OrderCancelled}).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListForUser(userID uint, limit int) ([]entity.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []entity.Payment
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
