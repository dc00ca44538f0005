package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 实体存储工作单元
// 聚合全部仓库，并负责跨表的事务操作（见 cascade.go）
type Store struct {
	db          *gorm.DB
	Users       UserRepository
	Restaurants RestaurantRepository
	Categories  CategoryRepository
	Dishes      DishRepository
	Orders      OrderRepository
	Blacklists  BlacklistRepository
	Chats       ChatRepository
}

// NewStore 创建工作单元
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Restaurants: NewRestaurantRepository(db),
		Categories:  NewCategoryRepository(db),
		Dishes:      NewDishRepository(db),
		Orders:      NewOrderRepository(db),
		Blacklists:  NewBlacklistRepository(db),
		Chats:       NewChatRepository(db),
	}
}

// DB 底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction 执行事务，fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
