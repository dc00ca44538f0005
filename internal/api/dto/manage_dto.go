package dto

import "time"

// ==================== 餐厅 ====================

// RestaurantResponse 餐厅信息
type RestaurantResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	LogoURL    string             `json:"logo_url"`
	ManagerID  int64              `json:"manager_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Categories []CategoryResponse `json:"categories,omitempty"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ==================== 黑名单 ====================

// BlockUserRequest 拉黑请求
type BlockUserRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// BlacklistEntry 黑名单条目
type BlacklistEntry struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ==================== 聊天 ====================

// PostChatRequest 发送消息
type PostChatRequest struct {
	DishID  *int64 `json:"dish_id"`
	Role    string `json:"role" binding:"required"`
	Scene   string `json:"scene" binding:"required"`
	Content string `json:"content"`
}

// ListChatRequest 查询消息
type ListChatRequest struct {
	Scene  string `form:"scene"`
	DishID *int64 `form:"dish_id"`
}
