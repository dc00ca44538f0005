package dto

import "time"

// ==================== 下单 ====================

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderLineRequest 下单行
type OrderLineRequest struct {
	DishID   int64 `json:"dish_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"omitempty,max=999"`
}

// ==================== 订单列表查询 ====================

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// OrderResponse 订单详情
type OrderResponse struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"user_id"`
	RestaurantID int64               `json:"restaurant_id"`
	TotalAmount  string              `json:"total_amount"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

// OrderItemResponse 订单项
type OrderItemResponse struct {
	DishID    int64  `json:"dish_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	List  []OrderResponse `json:"list"`
}
