package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ==================== RestaurantRepository 餐厅仓库 ====================

// RestaurantRepository 餐厅仓库接口
type RestaurantRepository interface {
	// CreateWithCategories 在同一事务中创建餐厅及其分类
	CreateWithCategories(ctx context.Context, restaurant *model.Restaurant, categoryNames []string) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
	GetByManagerID(ctx context.Context, managerID int64) (*model.Restaurant, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository 创建餐厅仓库
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) CreateWithCategories(ctx context.Context, restaurant *model.Restaurant, categoryNames []string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		if len(categoryNames) == 0 {
			return nil
		}
		categories = make([]model.Category, 0, len(categoryNames))
		for _, name := range categoryNames {
			categories = append(categories, model.Category{RestaurantID: restaurant.ID, Name: name})
		}
		return tx.Create(&categories).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetByManagerID(ctx context.Context, managerID int64) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).Where("manager_id = ?", managerID).First(&restaurant).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *restaurantRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Restaurant{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	err := r.db.WithContext(ctx).Order("id ASC").Find(&restaurants).Error
	return restaurants, err
}

// ==================== CategoryRepository 分类仓库 ====================

// CategoryRepository 分类仓库接口
type CategoryRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Category, error)
	// GetInRestaurant 获取属于指定餐厅的分类，不属于时返回 ErrNotFound
	GetInRestaurant(ctx context.Context, restaurantID, categoryID int64) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetInRestaurant(ctx context.Context, restaurantID, categoryID int64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", categoryID, restaurantID).
		First(&category).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}
