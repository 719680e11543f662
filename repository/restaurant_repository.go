package repository

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type RestaurantRepository struct{ DB *gorm.DB }

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(rest *entity.Restaurant) error {
	return r.DB.Create(rest).Error
}

func (r *RestaurantRepository) Get(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) GetWithMenu(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	err := r.DB.Preload("MenuItems", "available = ?", true).First(&rest, id).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(search string, page, limit int) ([]entity.Restaurant, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.DB.Model(&entity.Restaurant{}).Where("is_open = ?", true)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR cuisine LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Restaurant
	err := q.Order("avg_rating DESC, id").Limit(limit).Offset((page - 1) * limit).Find(&out).Error
	return out, total, err
}

func (r *RestaurantRepository) ListForOwner(ownerID uint) ([]entity.Restaurant, error) {
	var out []entity.Restaurant
	err := r.DB.Where("owner_id = ?", ownerID).Find(&out).Error
	return out, err
}

func (r *RestaurantRepository) IsOwnedBy(restID, userID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Restaurant{}).
		Where("id = ? AND owner_id = ?", restID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *RestaurantRepository) Update(id uint, updates map[string]any) error {
	return r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateRating writes the rollup result. Nothing else touches these columns.
func (r *RestaurantRepository) UpdateRating(tx *gorm.DB, restID uint, avg float64, count int64) error {
	return tx.Model(&entity.Restaurant{}).Where("id = ?", restID).
		Updates(map[string]any{"avg_rating": avg, "review_count": count}).Error
}
