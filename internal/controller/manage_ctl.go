package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_hub_202601/internal/api/dto"
	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/service"
)

// ==================== ManageController 餐厅管理 ====================

// ManageController 经理侧接口：餐厅、菜品、黑名单、订单
type ManageController struct {
	catalog   *service.CatalogService
	blacklist *service.BlacklistService
	orders    *service.OrderService
}

// NewManageController 创建管理控制器
func NewManageController(catalog *service.CatalogService, blacklist *service.BlacklistService, orders *service.OrderService) *ManageController {
	return &ManageController{catalog: catalog, blacklist: blacklist, orders: orders}
}

// CreateRestaurant 创建餐厅
// @Summary 创建餐厅
// @Description 同时创建 菜品/主食/甜品/饮品 四个分类；已有餐厅时返回 409 与跳转地址
// @Tags Manage
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "餐厅名（全局唯一）"
// @Param logo formData file true "Logo"
// @Success 201 {object} dto.RestaurantResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /manage/restaurant [post]
func (c *ManageController) CreateRestaurant(ctx *gin.Context) {
	logo, closeFn, err := formUpload(ctx, "logo")
	if err != nil {
		respondBadRequest(ctx, "读取 Logo 失败: "+err.Error())
		return
	}
	defer closeFn()

	restaurant, categories, err := c.catalog.CreateRestaurant(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.PostForm("name"), logo)
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp := c.restaurantResponse(restaurant)
	for _, cat := range categories {
		resp.Categories = append(resp.Categories, dto.CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	respondOK(ctx, http.StatusCreated, "餐厅创建成功", resp)
}

// Index 管理首页：本餐厅菜单
// @Summary 我的餐厅
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Menu
// @Failure 404 {object} map[string]interface{}
// @Router /manage [get]
func (c *ManageController) Index(ctx *gin.Context) {
	restaurant, ok := c.myRestaurant(ctx)
	if !ok {
		return
	}
	menu, err := c.catalog.GetMenu(ctx.Request.Context(), restaurant.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", menu)
}

// DeleteRestaurant 删除餐厅
// @Summary 删除餐厅
// @Description 级联删除分类、菜品、订单、黑名单与聊天记录
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DeleteResponse
// @Router /manage/restaurant [delete]
func (c *ManageController) DeleteRestaurant(ctx *gin.Context) {
	report, err := c.catalog.DeleteRestaurant(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "餐厅已删除", deleteResponse(report))
}

// AddDish 新增菜品
// @Summary 新增菜品
// @Tags Manage
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param category_id path int true "分类 ID"
// @Param name formData string true "菜名"
// @Param description formData string true "介绍（1-500 字）"
// @Param price formData string true "价格，最多两位小数"
// @Param image formData file true "菜品图片"
// @Success 201 {object} service.DishView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /manage/categories/{category_id}/dishes [post]
func (c *ManageController) AddDish(ctx *gin.Context) {
	categoryID, ok := parseIDParam(ctx, "category_id")
	if !ok {
		return
	}
	restaurant, ok := c.myRestaurant(ctx)
	if !ok {
		return
	}
	image, closeFn, err := formUpload(ctx, "image")
	if err != nil {
		respondBadRequest(ctx, "读取图片失败: "+err.Error())
		return
	}
	defer closeFn()

	dish, err := c.catalog.AddDish(ctx.Request.Context(), restaurant.ID, service.AddDishInput{
		CategoryID:  categoryID,
		Name:        ctx.PostForm("name"),
		Description: ctx.PostForm("description"),
		Price:       ctx.PostForm("price"),
		Image:       image,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "菜品添加成功", c.catalog.ViewDish(dish))
}

// DeleteDish 删除菜品
// @Summary 删除菜品
// @Description 同时删除引用该菜品的订单项，订单总额不变
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Param dish_id path int true "菜品 ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} map[string]interface{}
// @Router /manage/dishes/{dish_id} [delete]
func (c *ManageController) DeleteDish(ctx *gin.Context) {
	dishID, ok := parseIDParam(ctx, "dish_id")
	if !ok {
		return
	}
	restaurant, ok := c.myRestaurant(ctx)
	if !ok {
		return
	}
	report, err := c.catalog.DeleteDish(ctx.Request.Context(), restaurant.ID, dishID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "菜品已删除", deleteResponse(report))
}

// ==================== 黑名单 ====================

// ListBlacklist 黑名单列表
// @Summary 黑名单列表
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BlacklistEntry
// @Router /manage/blacklist [get]
func (c *ManageController) ListBlacklist(ctx *gin.Context) {
	entries, err := c.blacklist.List(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	list := make([]dto.BlacklistEntry, 0, len(entries))
	for _, e := range entries {
		list = append(list, dto.BlacklistEntry{UserID: e.UserID, CreatedAt: e.CreatedAt})
	}
	respondOK(ctx, http.StatusOK, "success", list)
}

// Block 拉黑用户
// @Summary 拉黑用户
// @Tags Manage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BlockUserRequest true "用户"
// @Success 201 {object} dto.BlacklistEntry
// @Failure 409 {object} map[string]interface{}
// @Router /manage/blacklist [post]
func (c *ManageController) Block(ctx *gin.Context) {
	var req dto.BlockUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}
	entry, err := c.blacklist.Block(ctx.Request.Context(), middleware.GetUserID(ctx), req.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "已拉黑", dto.BlacklistEntry{UserID: entry.UserID, CreatedAt: entry.CreatedAt})
}

// Unblock 移出黑名单
// @Summary 移出黑名单
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /manage/blacklist/{user_id} [delete]
func (c *ManageController) Unblock(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "user_id")
	if !ok {
		return
	}
	if err := c.blacklist.Unblock(ctx.Request.Context(), middleware.GetUserID(ctx), userID); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "已移出黑名单", nil)
}

// ListOrders 本餐厅订单
// @Summary 本餐厅订单
// @Tags Manage
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ListOrdersResponse
// @Router /manage/orders [get]
func (c *ManageController) ListOrders(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}
	page, err := c.orders.ListRestaurantOrders(ctx.Request.Context(), middleware.GetUserID(ctx), req.Page, req.PageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", listOrdersResponse(page))
}

// ==================== 辅助 ====================

func (c *ManageController) myRestaurant(ctx *gin.Context) (*model.Restaurant, bool) {
	restaurant, err := c.catalog.GetMyRestaurant(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return restaurant, true
}

func (c *ManageController) restaurantResponse(r *model.Restaurant) *dto.RestaurantResponse {
	return &dto.RestaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		LogoURL:   c.catalog.LogoURL(r),
		ManagerID: r.ManagerID,
		CreatedAt: r.CreatedAt,
	}
}
