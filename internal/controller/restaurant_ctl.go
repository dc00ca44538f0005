package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_hub_202601/internal/api/dto"
	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/service"
)

// ==================== RestaurantController 顾客侧 ====================

// RestaurantController 菜单与聊天
type RestaurantController struct {
	catalog *service.CatalogService
	chat    *service.ChatService
}

// NewRestaurantController 创建控制器
func NewRestaurantController(catalog *service.CatalogService, chat *service.ChatService) *RestaurantController {
	return &RestaurantController{catalog: catalog, chat: chat}
}

// Menu 餐厅菜单
// @Summary 餐厅菜单
// @Tags Restaurant
// @Produce json
// @Param id path int true "餐厅 ID"
// @Success 200 {object} service.Menu
// @Failure 404 {object} map[string]interface{}
// @Router /restaurants/{id}/menu [get]
func (c *RestaurantController) Menu(ctx *gin.Context) {
	restaurantID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	menu, err := c.catalog.GetMenu(ctx.Request.Context(), restaurantID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", menu)
}

// PostChat 保存一条聊天消息
// @Summary 发送消息
// @Description scene=dish 时必须带 dish_id，scene=advisor 时不能带
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "餐厅 ID"
// @Param request body dto.PostChatRequest true "消息"
// @Success 201 {object} model.ChatMessage
// @Failure 400 {object} map[string]interface{}
// @Router /restaurants/{id}/chats [post]
func (c *RestaurantController) PostChat(ctx *gin.Context) {
	restaurantID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.PostChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}

	msg, err := c.chat.Post(ctx.Request.Context(), service.PostChatInput{
		UserID:       middleware.GetUserID(ctx),
		RestaurantID: restaurantID,
		DishID:       req.DishID,
		Role:         req.Role,
		Scene:        req.Scene,
		Content:      req.Content,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "success", msg)
}

// ListChat 聊天记录
// @Summary 聊天记录
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "餐厅 ID"
// @Param scene query string false "dish | advisor"
// @Param dish_id query int false "菜品 ID"
// @Success 200 {array} model.ChatMessage
// @Router /restaurants/{id}/chats [get]
func (c *RestaurantController) ListChat(ctx *gin.Context) {
	restaurantID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ListChatRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}

	msgs, err := c.chat.List(ctx.Request.Context(), middleware.GetUserID(ctx), restaurantID, req.Scene, req.DishID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", msgs)
}
