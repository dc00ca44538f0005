package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"restaurant_hub_202601/internal/controller"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/internal/service"
	"restaurant_hub_202601/pkg/database"
)

// ==================== 测试辅助 ====================

type apiEnv struct {
	router *gin.Engine
	store  *repository.Store
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory("router_" + strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	root := t.TempDir()
	storage, err := service.NewLocalStorage(service.StorageConfig{Provider: "local", BasePath: root, URLPrefix: "/uploads"})
	require.NoError(t, err)

	store := repository.NewStore(db)
	media := service.NewMediaService(storage, 1<<20)
	userSvc := service.NewUserService(store, media, service.NewBcryptHasher(bcrypt.MinCost), nil)
	catalog := service.NewCatalogService(store, media, nil)
	orders := service.NewOrderService(store)

	ctls := &Controllers{
		Auth:       controller.NewAuthController(userSvc),
		Manage:     controller.NewManageController(catalog, service.NewBlacklistService(store), orders),
		Restaurant: controller.NewRestaurantController(catalog, service.NewChatService(store)),
		Order:      controller.NewOrderController(orders),
	}
	r := SetupRouter(ctls, Options{
		Resolve:        userSvc.ResolveIdentity,
		HealthCheck:    func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
		MediaDir:       root,
		MediaURLPrefix: "/uploads",
		MaxUploadBytes: 1 << 20,
	})
	return &apiEnv{router: r, store: store}
}

type apiResp struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

func (e *apiEnv) do(t *testing.T, req *http.Request, token string) (int, apiResp) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var resp apiResp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func (e *apiEnv) json(t *testing.T, method, path, token string, body interface{}) (int, apiResp) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req, token)
}

func (e *apiEnv) multipart(t *testing.T, path, token string, fields map[string]string, fileField, filename string) (int, apiResp) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		require.NoError(t, png.Encode(fw, image.NewNRGBA(image.Rect(0, 0, 300, 200))))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(t, req, token)
}

func (e *apiEnv) register(t *testing.T, username string) string {
	t.Helper()
	status, resp := e.multipart(t, "/api/auth/register", "", map[string]string{
		"username": username, "password": "secret", "confirm": "secret",
	}, "avatar", "me.png")
	require.Equal(t, http.StatusCreated, status, resp.Message)

	status, resp = e.json(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, status, resp.Message)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	return login.AccessToken
}

// ==================== 测试用例 ====================

func TestAPI_HealthAndAuth(t *testing.T) {
	env := setupAPI(t)

	status, _ := env.json(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.json(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := env.register(t, "alice")
	status, resp := env.json(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "alice", profile.Username)
	assert.True(t, strings.HasPrefix(profile.AvatarURL, "/uploads/avatars/"))

	// 静态文件可访问
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, profile.AvatarURL, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	status, resp = env.json(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.CodeBadCredentials, resp.Code)

	status, resp = env.multipart(t, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "secret", "confirm": "secret",
	}, "avatar", "me.png")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.CodeUsernameTaken, resp.Code)

	status, resp = env.multipart(t, "/api/auth/register", "", map[string]string{
		"username": "bob", "password": "secret", "confirm": "secret",
	}, "avatar", "me.bmp")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.CodeBadFormat, resp.Code)
}

func TestAPI_RestaurantOrderFlow(t *testing.T) {
	env := setupAPI(t)
	manager := env.register(t, "alice")
	customer := env.register(t, "carol")

	status, resp := env.json(t, http.MethodGet, "/api/manage", manager, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, service.CodeNoRestaurant, resp.Code)

	status, resp = env.multipart(t, "/api/manage/restaurant", manager, map[string]string{"name": "Noodle Bar"}, "logo", "logo.png")
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var created struct {
		ID         int64 `json:"id"`
		Categories []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Len(t, created.Categories, 4)

	// 重复创建给出跳转提示
	status, resp = env.multipart(t, "/api/manage/restaurant", manager, map[string]string{"name": "Other"}, "logo", "logo.png")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.CodeAlreadyManages, resp.Code)
	assert.JSONEq(t, `{"redirect":"/api/manage"}`, string(resp.Data))

	dishPath := fmt.Sprintf("/api/manage/categories/%d/dishes", created.Categories[0].ID)
	status, resp = env.multipart(t, dishPath, manager, map[string]string{"name": "Ramen", "description": "浓汤", "price": "0"}, "image", "r.png")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.CodeBadPrice, resp.Code)
	assert.Equal(t, "price", resp.Field)

	status, resp = env.multipart(t, dishPath, manager, map[string]string{"name": "Ramen", "description": "浓汤", "price": "12.50"}, "image", "r.png")
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var dish struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &dish))
	assert.Equal(t, "12.50", dish.Price)

	status, resp = env.multipart(t, dishPath, manager, map[string]string{"name": "Ramen", "description": "x", "price": "1"}, "image", "r.png")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = env.json(t, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/menu", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, status)

	ordersPath := fmt.Sprintf("/api/restaurants/%d/orders", created.ID)
	status, resp = env.json(t, http.MethodPost, ordersPath, customer, map[string]interface{}{
		"items": []map[string]interface{}{{"dish_id": dish.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var order struct {
		ID          int64  `json:"id"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	assert.Equal(t, "25.00", order.TotalAmount)

	status, _ = env.json(t, http.MethodGet, "/api/manage/orders", manager, nil)
	assert.Equal(t, http.StatusOK, status)

	// 删除菜品后订单总额不变
	status, _ = env.json(t, http.MethodDelete, fmt.Sprintf("/api/manage/dishes/%d", dish.ID), manager, nil)
	require.Equal(t, http.StatusOK, status)
	status, resp = env.json(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), customer, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	assert.Equal(t, "25.00", order.TotalAmount)

	// 拉黑后无法下单
	var carolID int64
	require.NoError(t, env.store.DB().Model(&model.User{}).Where("username = ?", "carol").Pluck("id", &carolID).Error)
	status, _ = env.json(t, http.MethodPost, "/api/manage/blacklist", manager, map[string]int64{"user_id": carolID})
	require.Equal(t, http.StatusCreated, status)
	status, resp = env.json(t, http.MethodPost, ordersPath, customer, map[string]interface{}{
		"items": []map[string]interface{}{{"dish_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, service.CodeBlocked, resp.Code)

	status, _ = env.json(t, http.MethodDelete, fmt.Sprintf("/api/manage/blacklist/%d", carolID), manager, nil)
	assert.Equal(t, http.StatusOK, status)

	status, resp = env.json(t, http.MethodDelete, "/api/manage/restaurant", manager, nil)
	require.Equal(t, http.StatusOK, status)
	var report struct {
		Rows map[string]int64 `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, int64(1), report.Rows["restaurants"])
	assert.Equal(t, int64(4), report.Rows["categories"])
}

func TestAPI_ChatAndAccountDeletion(t *testing.T) {
	env := setupAPI(t)
	manager := env.register(t, "alice")
	customer := env.register(t, "carol")

	status, resp := env.multipart(t, "/api/manage/restaurant", manager, map[string]string{"name": "Cafe"}, "logo", "logo.png")
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	chatPath := fmt.Sprintf("/api/restaurants/%d/chats", created.ID)
	status, resp = env.json(t, http.MethodPost, chatPath, customer, map[string]interface{}{"role": "user", "scene": "dish", "content": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.CodeSceneDish, resp.Code)

	status, _ = env.json(t, http.MethodPost, chatPath, customer, map[string]interface{}{"role": "user", "scene": "advisor", "content": "推荐一下"})
	require.Equal(t, http.StatusCreated, status)

	status, resp = env.json(t, http.MethodGet, chatPath+"?scene=advisor", customer, nil)
	require.Equal(t, http.StatusOK, status)
	var msgs []model.ChatMessage
	require.NoError(t, json.Unmarshal(resp.Data, &msgs))
	require.Len(t, msgs, 1)

	status, resp = env.json(t, http.MethodDelete, "/api/auth/account", manager, nil)
	require.Equal(t, http.StatusOK, status)
	var report struct {
		Rows map[string]int64 `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, int64(1), report.Rows["chat_messages"])

	// 账号删除后旧 Token 失效
	status, _ = env.json(t, http.MethodGet, "/api/auth/profile", manager, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
