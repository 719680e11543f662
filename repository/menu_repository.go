package repository

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type MenuRepository struct{ DB *gorm.DB }

func NewMenuRepository(db *gorm.DB) *MenuRepository { return &MenuRepository{DB: db} }

// GetBasics loads just what pricing needs: id, price, name, restaurant,
// availability.
func (r *MenuRepository) GetBasics(id uint) (entity.MenuItem, error) {
	var m entity.MenuItem
	err := r.DB.Select("id, name, price, restaurant_id, available").First(&m, id).Error
	return m, err
}

func (r *MenuRepository) ListForRestaurant(restID uint) ([]entity.MenuItem, error) {
	var out []entity.MenuItem
	err := r.DB.Where("restaurant_id = ?", restID).Order("id").Find(&out).Error
	return out, err
}

func (r *MenuRepository) Create(m *entity.MenuItem) error {
	return r.DB.Create(m).Error
}

func (r *MenuRepository) Update(id, restID uint, updates map[string]any) (int64, error) {
	res := r.DB.Model(&entity.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", id, restID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) Delete(id, restID uint) (int64, error) {
	res := r.DB.Where("id = ? AND restaurant_id = ?", id, restID).Delete(&entity.MenuItem{})
	return res.RowsAffected, res.Error
}
