package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件，零值字段不参与过滤
type OrderFilter struct {
	UserID       int64
	RestaurantID int64
	Page         int
	PageSize     int
}

const defaultOrderPageSize = 20

func (f OrderFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID > 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.RestaurantID > 0 {
		db = db.Where("restaurant_id = ?", f.RestaurantID)
	}
	return db
}

func (f OrderFilter) paginate(db *gorm.DB) *gorm.DB {
	size := f.PageSize
	if size <= 0 {
		size = defaultOrderPageSize
	}
	page := max(f.Page, 1)
	return db.Offset((page - 1) * size).Limit(size)
}

func itemsByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
// 删除订单涉及订单项，见 Store.DeleteOrder
type OrderRepository interface {
	// Create 在同一事务中写入订单及订单项
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// GetByIDWithItems 预加载订单项
	GetByIDWithItems(ctx context.Context, id int64) (*model.Order, error)
	// List 按时间倒序分页，订单项随订单一并加载
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
}

// ==================== 实现 ====================

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	return translate(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) GetByIDWithItems(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items", itemsByID).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	base := filter.scope(r.db.WithContext(ctx).Model(&model.Order{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	var orders []model.Order
	err := filter.paginate(base).
		Preload("Items", itemsByID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, total, translate(err)
}
