package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ==================== DishRepository 菜品仓库 ====================

// DishRepository 菜品仓库接口
type DishRepository interface {
	Create(ctx context.Context, dish *model.Dish) error
	GetByID(ctx context.Context, id int64) (*model.Dish, error)
	// GetInRestaurant 获取属于指定餐厅的菜品
	GetInRestaurant(ctx context.Context, restaurantID, dishID int64) (*model.Dish, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Dish, error)
	// ListByIDs 批量获取指定餐厅下的菜品，结果以 ID 为键
	ListByIDs(ctx context.Context, restaurantID int64, ids []int64) (map[int64]model.Dish, error)
	ExistsByName(ctx context.Context, restaurantID int64, name string) (bool, error)
}

type dishRepository struct {
	db *gorm.DB
}

// NewDishRepository 创建菜品仓库
func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

// Create 创建菜品，同餐厅同名返回 ErrDuplicate
func (r *dishRepository) Create(ctx context.Context, dish *model.Dish) error {
	return translate(r.db.WithContext(ctx).Create(dish).Error)
}

func (r *dishRepository) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	var dish model.Dish
	if err := r.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *dishRepository) GetInRestaurant(ctx context.Context, restaurantID, dishID int64) (*model.Dish, error) {
	var dish model.Dish
	err := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", dishID, restaurantID).
		First(&dish).Error
	if err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *dishRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category_id ASC, id DESC").
		Find(&dishes).Error
	return dishes, err
}

func (r *dishRepository) ListByIDs(ctx context.Context, restaurantID int64, ids []int64) (map[int64]model.Dish, error) {
	result := make(map[int64]model.Dish, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var dishes []model.Dish
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	for _, d := range dishes {
		result[d.ID] = d
	}
	return result, nil
}

func (r *dishRepository) ExistsByName(ctx context.Context, restaurantID int64, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dish{}).
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		Count(&count).Error
	return count > 0, err
}
