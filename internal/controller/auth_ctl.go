package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_hub_202601/internal/api/dto"
	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/service"
)

// ==================== AuthController 账号 ====================

// AuthController 注册、登录与账号管理
type AuthController struct {
	userSvc *service.UserService
}

// NewAuthController 创建账号控制器
func NewAuthController(userSvc *service.UserService) *AuthController {
	return &AuthController{userSvc: userSvc}
}

// Register 注册
// @Summary 用户注册
// @Description multipart 表单：username、password、confirm、avatar（必填图片）
// @Tags Auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码，至少 4 位"
// @Param confirm formData string true "确认密码"
// @Param avatar formData file true "头像"
// @Success 201 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	avatar, closeFn, err := formUpload(ctx, "avatar")
	if err != nil {
		respondBadRequest(ctx, "读取头像失败: "+err.Error())
		return
	}
	defer closeFn()

	user, err := c.userSvc.Register(ctx.Request.Context(), service.RegisterInput{
		Username: ctx.PostForm("username"),
		Password: ctx.PostForm("password"),
		Confirm:  ctx.PostForm("confirm"),
		Avatar:   avatar,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, "注册成功", c.userInfo(user))
}

// Login 登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "参数错误: "+err.Error())
		return
	}

	result, err := c.userSvc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, "登录成功", dto.LoginResponse{
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
		User:        c.userInfo(result.User),
	})
}

// Profile 当前用户资料
// @Summary 当前用户资料
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Router /auth/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	user, err := c.userSvc.GetProfile(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "success", c.userInfo(user))
}

// DeleteAccount 注销账号
// @Summary 注销账号
// @Description 级联删除名下餐厅、订单、聊天记录与黑名单
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DeleteResponse
// @Router /auth/account [delete]
func (c *AuthController) DeleteAccount(ctx *gin.Context) {
	report, err := c.userSvc.DeleteAccount(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "账号已注销", deleteResponse(report))
}

func (c *AuthController) userInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: c.userSvc.AvatarURL(user),
		CreatedAt: user.CreatedAt,
	}
}
