package service

import (
	"context"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/logger"
)

// BlacklistService 餐厅黑名单
type BlacklistService struct {
	store *repository.Store
}

// NewBlacklistService 创建黑名单服务
func NewBlacklistService(store *repository.Store) *BlacklistService {
	return &BlacklistService{store: store}
}

// Block 经理拉黑用户
func (s *BlacklistService) Block(ctx context.Context, managerID, userID int64) (*model.Blacklist, error) {
	restaurant, err := s.myRestaurant(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if userID == managerID {
		return nil, newValidation(CodeSelfBlock, "user_id", "不能拉黑自己")
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("用户不存在")
		}
		return nil, s.storageFailure("查询用户失败", err)
	}

	entry := &model.Blacklist{RestaurantID: restaurant.ID, UserID: userID}
	if err := s.store.Blacklists.Create(ctx, entry); err != nil {
		if repository.IsDuplicate(err) {
			return nil, newDuplicate(CodeAlreadyBlocked, "user_id", "该用户已在黑名单中", err)
		}
		return nil, s.storageFailure("拉黑失败", err)
	}
	return entry, nil
}

// Unblock 移出黑名单
func (s *BlacklistService) Unblock(ctx context.Context, managerID, userID int64) error {
	restaurant, err := s.myRestaurant(ctx, managerID)
	if err != nil {
		return err
	}
	removed, err := s.store.Blacklists.Delete(ctx, restaurant.ID, userID)
	if err != nil {
		return s.storageFailure("移出黑名单失败", err)
	}
	if !removed {
		return newNotFound("该用户不在黑名单中")
	}
	return nil
}

// List 本餐厅黑名单
func (s *BlacklistService) List(ctx context.Context, managerID int64) ([]model.Blacklist, error) {
	restaurant, err := s.myRestaurant(ctx, managerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Blacklists.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, s.storageFailure("查询黑名单失败", err)
	}
	return entries, nil
}

// IsBlocked 用户是否被餐厅拉黑
func (s *BlacklistService) IsBlocked(ctx context.Context, restaurantID, userID int64) (bool, error) {
	blocked, err := s.store.Blacklists.Exists(ctx, restaurantID, userID)
	if err != nil {
		return false, s.storageFailure("查询黑名单失败", err)
	}
	return blocked, nil
}

func (s *BlacklistService) myRestaurant(ctx context.Context, managerID int64) (*model.Restaurant, error) {
	restaurant, err := s.store.Restaurants.GetByManagerID(ctx, managerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &BizError{Kind: KindNotFound, Code: CodeNoRestaurant, Message: "您还没有创建餐厅"}
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	return restaurant, nil
}

func (s *BlacklistService) storageFailure(msg string, err error) error {
	logger.L().Errorw("[Blacklist] "+msg, "error", err)
	return newStorage(err)
}
