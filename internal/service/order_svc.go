package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/logger"
)

// 下单约束
const (
	// OrderQuantityMax 单个菜品合并后的最大数量
	OrderQuantityMax = 999
)

// OrderTotalMax 订单总额上限，与 decimal(10,2) 列对齐
var OrderTotalMax = decimal.RequireFromString("99999999.99")

// OrderLine 下单行
type OrderLine struct {
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

// OrderPage 分页结果
type OrderPage struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// ==================== OrderService 订单账本 ====================

// OrderService 订单账本
// 下单时冻结菜品单价，之后菜品改价或删除都不影响订单总额
type OrderService struct {
	store *repository.Store
}

// NewOrderService 创建订单服务
func NewOrderService(store *repository.Store) *OrderService {
	return &OrderService{store: store}
}

// PlaceOrder 提交订单
// 同一菜品出现多次时合并数量
func (s *OrderService) PlaceOrder(ctx context.Context, userID, restaurantID int64, lines []OrderLine) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, newValidation(CodeEmptyOrder, "items", "订单不能为空")
	}
	quantities := make(map[int64]int, len(lines))
	dishIDs := make([]int64, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, newValidation(CodeBadQuantity, "quantity", "数量至少为 1")
		}
		if l.Quantity > OrderQuantityMax-quantities[l.DishID] {
			return nil, newValidation(CodeBadQuantity, "quantity", fmt.Sprintf("同一菜品数量最多 %d", OrderQuantityMax))
		}
		if _, seen := quantities[l.DishID]; !seen {
			dishIDs = append(dishIDs, l.DishID)
		}
		quantities[l.DishID] += l.Quantity
	}

	if _, err := s.store.Restaurants.GetByID(ctx, restaurantID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("餐厅不存在")
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	blocked, err := s.store.Blacklists.Exists(ctx, restaurantID, userID)
	if err != nil {
		return nil, s.storageFailure("查询黑名单失败", err)
	}
	if blocked {
		return nil, newForbidden(CodeBlocked, "您已被该餐厅拉黑，无法下单")
	}

	var order *model.Order
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		dishes, err := tx.Dishes.ListByIDs(ctx, restaurantID, dishIDs)
		if err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(dishIDs))
		total := decimal.Zero
		for _, id := range dishIDs {
			dish, ok := dishes[id]
			if !ok {
				return newNotFound("菜品不存在")
			}
			item := model.OrderItem{DishID: id, Quantity: quantities[id], UnitPrice: dish.Price}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		if total.GreaterThan(OrderTotalMax) {
			return newValidation(CodeOrderTooLarge, "items", "订单总额超出上限 "+OrderTotalMax.StringFixed(2))
		}

		order = &model.Order{
			UserID:       userID,
			RestaurantID: restaurantID,
			TotalAmount:  total.Round(2),
			Items:        items,
		}
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		if _, ok := AsBizError(err); ok {
			return nil, err
		}
		return nil, s.storageFailure("创建订单失败", err)
	}

	logger.L().Infow("[Order] 下单成功", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

// GetOrder 查看订单：下单人或餐厅经理可见，其他人一律视为不存在
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	order, err := s.store.Orders.GetByIDWithItems(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("订单不存在")
		}
		return nil, s.storageFailure("查询订单失败", err)
	}
	if order.UserID == userID {
		return order, nil
	}
	restaurant, err := s.store.Restaurants.GetByManagerID(ctx, userID)
	if err == nil && restaurant.ID == order.RestaurantID {
		return order, nil
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	return nil, newNotFound("订单不存在")
}

// ListOrders 我的订单
func (s *OrderService) ListOrders(ctx context.Context, userID int64, page, size int) (*OrderPage, error) {
	return s.list(ctx, repository.OrderFilter{UserID: userID, Page: page, PageSize: size})
}

// ListRestaurantOrders 经理查看本餐厅订单
func (s *OrderService) ListRestaurantOrders(ctx context.Context, managerID int64, page, size int) (*OrderPage, error) {
	restaurant, err := s.store.Restaurants.GetByManagerID(ctx, managerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &BizError{Kind: KindNotFound, Code: CodeNoRestaurant, Message: "您还没有创建餐厅"}
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	return s.list(ctx, repository.OrderFilter{RestaurantID: restaurant.ID, Page: page, PageSize: size})
}

// DeleteOrder 删除自己的订单及其订单项
func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID int64) (*repository.CascadeReport, error) {
	order, err := s.store.Orders.GetByID(ctx, orderID)
	if err != nil || order.UserID != userID {
		if err == nil || repository.IsNotFound(err) {
			return nil, newNotFound("订单不存在")
		}
		return nil, s.storageFailure("查询订单失败", err)
	}

	report, err := s.store.DeleteOrder(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("订单不存在")
		}
		return nil, s.storageFailure("删除订单失败", err)
	}
	return report, nil
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	orders, total, err := s.store.Orders.List(ctx, filter)
	if err != nil {
		return nil, s.storageFailure("查询订单失败", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &OrderPage{Items: orders, Total: total, Page: filter.Page, Size: filter.PageSize}, nil
}

func (s *OrderService) storageFailure(msg string, err error) error {
	logger.L().Errorw("[Order] "+msg, "error", err)
	return newStorage(err)
}
