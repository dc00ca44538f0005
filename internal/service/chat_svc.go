package service

import (
	"context"
	"strings"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/logger"
)

// ChatContentMax 单条消息最大字符数
const ChatContentMax = 2000

// PostChatInput 发送消息参数
type PostChatInput struct {
	UserID       int64
	RestaurantID int64
	DishID       *int64
	Role         string
	Scene        string
	Content      string
}

// ChatService 聊天记录
// 只负责落库，不做实时投递
type ChatService struct {
	store *repository.Store
}

// NewChatService 创建聊天服务
func NewChatService(store *repository.Store) *ChatService {
	return &ChatService{store: store}
}

// Post 保存一条消息；dish 场景必须绑定本餐厅菜品，advisor 场景不得绑定
func (s *ChatService) Post(ctx context.Context, in PostChatInput) (*model.ChatMessage, error) {
	if !model.ValidChatRole(in.Role) {
		return nil, newValidation(CodeBadRole, "role", "角色只能是 user 或 assistant")
	}
	if !model.ValidChatScene(in.Scene) {
		return nil, newValidation(CodeBadScene, "scene", "场景只能是 dish 或 advisor")
	}
	if (in.Scene == model.ChatSceneDish) != (in.DishID != nil) {
		return nil, newValidation(CodeSceneDish, "dish_id", "菜品询问必须指定菜品，顾问对话不能指定菜品")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, newValidation(CodeContentEmpty, "content", "消息内容不能为空")
	}
	if len([]rune(content)) > ChatContentMax {
		return nil, newValidation(CodeContentTooLong, "content", "消息内容过长")
	}

	if _, err := s.store.Restaurants.GetByID(ctx, in.RestaurantID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("餐厅不存在")
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	if in.DishID != nil {
		if _, err := s.store.Dishes.GetInRestaurant(ctx, in.RestaurantID, *in.DishID); err != nil {
			if repository.IsNotFound(err) {
				return nil, newNotFound("菜品不存在")
			}
			return nil, s.storageFailure("查询菜品失败", err)
		}
	}

	msg := &model.ChatMessage{
		RestaurantID: in.RestaurantID,
		UserID:       in.UserID,
		DishID:       in.DishID,
		Role:         in.Role,
		Scene:        in.Scene,
		Content:      content,
	}
	if err := s.store.Chats.Create(ctx, msg); err != nil {
		return nil, s.storageFailure("保存消息失败", err)
	}
	return msg, nil
}

// List 用户在某餐厅的聊天记录，按时间正序
func (s *ChatService) List(ctx context.Context, userID, restaurantID int64, scene string, dishID *int64) ([]model.ChatMessage, error) {
	if scene != "" && !model.ValidChatScene(scene) {
		return nil, newValidation(CodeBadScene, "scene", "场景只能是 dish 或 advisor")
	}
	msgs, err := s.store.Chats.List(ctx, repository.ChatFilter{
		RestaurantID: restaurantID,
		UserID:       userID,
		Scene:        scene,
		DishID:       dishID,
	})
	if err != nil {
		return nil, s.storageFailure("查询消息失败", err)
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

func (s *ChatService) storageFailure(msg string, err error) error {
	logger.L().Errorw("[Chat] "+msg, "error", err)
	return newStorage(err)
}
