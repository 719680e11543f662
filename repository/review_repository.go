package repository

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct{ DB *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(tx *gorm.DB, rev *entity.Review) error {
	return tx.Create(rev).Error
}

func (r *ReviewRepository) Get(id uint) (*entity.Review, error) {
	var rev entity.Review
	if err := r.DB.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) GetByUserAndRestaurant(userID, restID uint) (*entity.Review, error) {
	var rev entity.Review
	err := r.DB.Where("user_id = ? AND restaurant_id = ?", userID, restID).First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) ListForRestaurant(restID uint, limit, offset int) ([]entity.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var out []entity.Review
	err := r.DB.Where("restaurant_id = ? AND hidden = ?", restID, false).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *ReviewRepository) ListForUser(userID uint, limit, offset int) ([]entity.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var out []entity.Review
	err := r.DB.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *ReviewRepository) Update(tx *gorm.DB, id uint, updates map[string]any) error {
	return tx.Model(&entity.Review{}).Where("id = ?", id).Updates(updates).Error
}

func (r *ReviewRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&entity.Review{}, id).Error
}

// Aggregate recomputes the rollup from current non-hidden rows. Always from
// scratch, never incremental.
func (r *ReviewRepository) Aggregate(tx *gorm.DB, restID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&entity.Review{}).
		Where("restaurant_id = ? AND hidden = ?", restID, false).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&row).Error
	return row.Avg, row.Count, err
}
