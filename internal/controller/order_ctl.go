package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_hub_202601/internal/api/dto"
	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/service"
)

// ==================== OrderController 订单 ====================

// OrderController 顾客侧订单接口
type OrderController struct {
	orders *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orders *service.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// PlaceOrder 下单
// @Summary 下单
// @Description 按当前菜品价格冻结单价，同一菜品多行会合并
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "餐厅 ID"
// @Param request body dto.PlaceOrderRequest true "订单行"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "已被餐厅拉黑"
// @Failure 404 {object} map[string]interface{}
// @Router /restaurants/{id}/orders [post]
func (c *OrderController) PlaceOrder(ctx *gin.Context) {
	restaurantID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{DishID: item.DishID, Quantity: item.Quantity})
	}

	order, err := c.orders.PlaceOrder(ctx.Request.Context(), middleware.GetUserID(ctx), restaurantID, lines)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "下单成功", orderResponse(order))
}

// List 我的订单
// @Summary 我的订单
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ListOrdersResponse
// @Router /orders [get]
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}
	page, err := c.orders.ListOrders(ctx.Request.Context(), middleware.GetUserID(ctx), req.Page, req.PageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", listOrdersResponse(page))
}

// Get 订单详情
// @Summary 订单详情
// @Description 下单人或该餐厅经理可见
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id} [get]
func (c *OrderController) Get(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	order, err := c.orders.GetOrder(ctx.Request.Context(), middleware.GetUserID(ctx), orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", orderResponse(order))
}

// Delete 删除订单
// @Summary 删除订单
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id} [delete]
func (c *OrderController) Delete(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	report, err := c.orders.DeleteOrder(ctx.Request.Context(), middleware.GetUserID(ctx), orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "订单已删除", deleteResponse(report))
}

// ==================== 转换 ====================

func orderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		TotalAmount:  o.TotalAmount.StringFixed(2),
		CreatedAt:    o.CreatedAt,
		Items:        make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			DishID:    it.DishID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return resp
}

func listOrdersResponse(page *service.OrderPage) dto.ListOrdersResponse {
	resp := dto.ListOrdersResponse{
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
		List:  make([]dto.OrderResponse, 0, len(page.Items)),
	}
	for i := range page.Items {
		resp.List = append(resp.List, orderResponse(&page.Items[i]))
	}
	return resp
}
