package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ChatFilter 聊天记录过滤条件，零值字段不参与过滤
type ChatFilter struct {
	RestaurantID int64
	UserID       int64
	Scene        string
	DishID       *int64
	Limit        int
}

// ==================== ChatRepository 聊天记录仓库 ====================

// ChatRepository 聊天记录仓库接口
type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// List 按时间正序返回
	List(ctx context.Context, filter ChatFilter) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天记录仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *chatRepository) List(ctx context.Context, filter ChatFilter) ([]model.ChatMessage, error) {
	query := r.db.WithContext(ctx).Model(&model.ChatMessage{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Scene != "" {
		query = query.Where("scene = ?", filter.Scene)
	}
	if filter.DishID != nil {
		query = query.Where("dish_id = ?", *filter.DishID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var messages []model.ChatMessage
	err := query.Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}
