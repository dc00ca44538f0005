package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ==================== BlacklistRepository 黑名单仓库 ====================

// BlacklistRepository 黑名单仓库接口
type BlacklistRepository interface {
	// Create 重复拉黑返回 ErrDuplicate
	Create(ctx context.Context, entry *model.Blacklist) error
	// Delete 返回是否删除了记录
	Delete(ctx context.Context, restaurantID, userID int64) (bool, error)
	Exists(ctx context.Context, restaurantID, userID int64) (bool, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Blacklist, error)
}

type blacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository 创建黑名单仓库
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (r *blacklistRepository) Create(ctx context.Context, entry *model.Blacklist) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *blacklistRepository) Delete(ctx context.Context, restaurantID, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		Delete(&model.Blacklist{})
	return res.RowsAffected > 0, res.Error
}

func (r *blacklistRepository) Exists(ctx context.Context, restaurantID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Blacklist{}).
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *blacklistRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Blacklist, error) {
	var entries []model.Blacklist
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
