package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/logger"
)

// 名称长度上限（按字符计）
const (
	RestaurantNameMax = 80
	DishNameMax       = 80
)

// ==================== 视图 ====================

// Menu 餐厅菜单：分类按 ID 正序，分类下菜品按 ID 倒序
type Menu struct {
	RestaurantID int64          `json:"restaurant_id"`
	Name         string         `json:"name"`
	LogoURL      string         `json:"logo_url"`
	ManagerID    int64          `json:"manager_id"`
	Categories   []MenuCategory `json:"categories"`
}

type MenuCategory struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Dishes []DishView `json:"dishes"`
}

type DishView struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

// AddDishInput 新增菜品参数
type AddDishInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       string
	Image       *Upload
}

// ==================== CatalogService 餐厅与菜品 ====================

// CatalogService 编排餐厅、菜品的创建与删除
// 所有校验先于图片入库与持久化
type CatalogService struct {
	store *repository.Store
	media *MediaService
	cache MenuCache
	box   BoundingBox
}

// NewCatalogService 创建目录服务，cache 为 nil 时不缓存
func NewCatalogService(store *repository.Store, media *MediaService, cache MenuCache) *CatalogService {
	if cache == nil {
		cache = NewNoopMenuCache()
	}
	return &CatalogService{store: store, media: media, cache: cache, box: DefaultBoundingBox}
}

// WithBoundingBox 覆盖缩略图尺寸
func (s *CatalogService) WithBoundingBox(box BoundingBox) *CatalogService {
	s.box = box
	return s
}

// CreateRestaurant 创建餐厅及四个固定分类
// 经理已有餐厅时返回该餐厅与 CodeAlreadyManages 错误，调用方据此跳转
func (s *CatalogService) CreateRestaurant(ctx context.Context, managerID int64, name string, logo *Upload) (*model.Restaurant, []model.Category, error) {
	existing, err := s.store.Restaurants.GetByManagerID(ctx, managerID)
	if err == nil {
		return existing, nil, newForbidden(CodeAlreadyManages, "您已经管理一家餐厅")
	}
	if !repository.IsNotFound(err) {
		return nil, nil, s.storageFailure("查询餐厅失败", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, newValidation(CodeNameEmpty, "name", "餐厅名不能为空")
	}
	if utf8.RuneCountInString(name) > RestaurantNameMax {
		return nil, nil, newValidation(CodeNameTooLong, "name", "餐厅名过长")
	}
	taken, err := s.store.Restaurants.ExistsByName(ctx, name)
	if err != nil {
		return nil, nil, s.storageFailure("查询餐厅名失败", err)
	}
	if taken {
		return nil, nil, newDuplicate(CodeNameTaken, "name", "餐厅名已存在，请换一个", nil)
	}
	if !logo.Present() {
		return nil, nil, newValidation(CodeLogoRequired, "logo", "请上传餐厅 Logo")
	}

	logoRef, err := s.media.Ingest(ctx, logo, MediaLogo, s.box)
	if err != nil {
		return nil, nil, err
	}

	restaurant := &model.Restaurant{Name: name, LogoPath: logoRef, ManagerID: managerID}
	categories, err := s.store.Restaurants.CreateWithCategories(ctx, restaurant, model.DefaultCategories)
	if err != nil {
		s.media.Discard(ctx, logoRef)
		if repository.IsDuplicate(err) {
			// 并发创建：区分“已管理餐厅”与“重名”
			if existing, lookupErr := s.store.Restaurants.GetByManagerID(ctx, managerID); lookupErr == nil {
				return existing, nil, newForbidden(CodeAlreadyManages, "您已经管理一家餐厅")
			}
			return nil, nil, newDuplicate(CodeNameTaken, "name", "餐厅名已存在，请换一个", err)
		}
		return nil, nil, s.storageFailure("创建餐厅失败", err)
	}

	logger.L().Infow("[Catalog] 餐厅已创建", "restaurant_id", restaurant.ID, "manager_id", managerID)
	return restaurant, categories, nil
}

// GetMyRestaurant 经理管理的餐厅
func (s *CatalogService) GetMyRestaurant(ctx context.Context, managerID int64) (*model.Restaurant, error) {
	restaurant, err := s.store.Restaurants.GetByManagerID(ctx, managerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &BizError{Kind: KindNotFound, Code: CodeNoRestaurant, Message: "您还没有创建餐厅"}
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	return restaurant, nil
}

// LogoURL 餐厅 Logo 访问地址
func (s *CatalogService) LogoURL(restaurant *model.Restaurant) string {
	return s.media.URL(restaurant.LogoPath)
}

// GetMenu 餐厅菜单
func (s *CatalogService) GetMenu(ctx context.Context, restaurantID int64) (*Menu, error) {
	if menu, ok := s.cache.Get(ctx, restaurantID); ok {
		return menu, nil
	}

	restaurant, err := s.store.Restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("餐厅不存在")
		}
		return nil, s.storageFailure("查询餐厅失败", err)
	}
	categories, err := s.store.Categories.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, s.storageFailure("查询分类失败", err)
	}
	dishes, err := s.store.Dishes.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, s.storageFailure("查询菜品失败", err)
	}

	byCategory := make(map[int64][]DishView, len(categories))
	for _, d := range dishes {
		byCategory[d.CategoryID] = append(byCategory[d.CategoryID], s.ViewDish(&d))
	}

	menu := &Menu{
		RestaurantID: restaurant.ID,
		Name:         restaurant.Name,
		LogoURL:      s.media.URL(restaurant.LogoPath),
		ManagerID:    restaurant.ManagerID,
		Categories:   make([]MenuCategory, 0, len(categories)),
	}
	for _, c := range categories {
		views := byCategory[c.ID]
		if views == nil {
			views = []DishView{}
		}
		menu.Categories = append(menu.Categories, MenuCategory{ID: c.ID, Name: c.Name, Dishes: views})
	}

	s.cache.Set(ctx, restaurantID, menu)
	return menu, nil
}

// AddDish 在餐厅的某个分类下新增菜品
// 校验顺序：分类归属、名称、同名、介绍、价格、图片，首个失败即返回
func (s *CatalogService) AddDish(ctx context.Context, restaurantID int64, in AddDishInput) (*model.Dish, error) {
	if _, err := s.store.Categories.GetInRestaurant(ctx, restaurantID, in.CategoryID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("分类不存在")
		}
		return nil, s.storageFailure("查询分类失败", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newValidation(CodeNameEmpty, "name", "菜品名称不能为空")
	}
	if utf8.RuneCountInString(name) > DishNameMax {
		return nil, newValidation(CodeNameTooLong, "name", "菜品名称过长")
	}
	taken, err := s.store.Dishes.ExistsByName(ctx, restaurantID, name)
	if err != nil {
		return nil, s.storageFailure("查询菜品失败", err)
	}
	if taken {
		return nil, newDuplicate(CodeNameTaken, "name", "该餐厅已存在同名菜品，请换一个名称", nil)
	}

	desc := strings.TrimSpace(in.Description)
	if n := utf8.RuneCountInString(desc); n < model.DishDescriptionMin || n > model.DishDescriptionMax {
		return nil, newValidation(CodeDescriptionLength, "description", "菜品介绍不能为空，且不得超过 500 字")
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	if !in.Image.Present() {
		return nil, newValidation(CodeImageRequired, "image", "必须上传菜品图片（系统会自动缩略到 100×100 内）")
	}

	imageRef, err := s.media.Ingest(ctx, in.Image, MediaDish, s.box)
	if err != nil {
		return nil, err
	}

	dish := &model.Dish{
		RestaurantID: restaurantID,
		CategoryID:   in.CategoryID,
		Name:         name,
		Description:  desc,
		Price:        price,
		ImagePath:    imageRef,
	}
	if err := s.store.Dishes.Create(ctx, dish); err != nil {
		s.media.Discard(ctx, imageRef)
		if repository.IsDuplicate(err) {
			return nil, newDuplicate(CodeNameTaken, "name", "该餐厅已存在同名菜品，请换一个名称", err)
		}
		return nil, s.storageFailure("创建菜品失败", err)
	}

	s.cache.Invalidate(ctx, restaurantID)
	return dish, nil
}

// DeleteDish 删除本餐厅的菜品，非本餐厅菜品一律视为不存在
func (s *CatalogService) DeleteDish(ctx context.Context, restaurantID, dishID int64) (*repository.CascadeReport, error) {
	dish, err := s.store.Dishes.GetInRestaurant(ctx, restaurantID, dishID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("菜品不存在")
		}
		return nil, s.storageFailure("查询菜品失败", err)
	}

	report, err := s.store.DeleteDish(ctx, dish.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("菜品不存在")
		}
		return nil, s.storageFailure("删除菜品失败", err)
	}

	s.media.DiscardAll(ctx, report.Media)
	s.cache.Invalidate(ctx, restaurantID)
	logger.L().Infow("[Catalog] 菜品已删除", "dish_id", dish.ID, "rows", report.Rows)
	return report, nil
}

// DeleteRestaurant 删除经理的餐厅及其全部数据
func (s *CatalogService) DeleteRestaurant(ctx context.Context, managerID int64) (*repository.CascadeReport, error) {
	restaurant, err := s.GetMyRestaurant(ctx, managerID)
	if err != nil {
		return nil, err
	}
	report, err := s.store.DeleteRestaurant(ctx, restaurant.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("餐厅不存在")
		}
		return nil, s.storageFailure("删除餐厅失败", err)
	}

	s.media.DiscardAll(ctx, report.Media)
	s.cache.Invalidate(ctx, restaurant.ID)
	logger.L().Infow("[Catalog] 餐厅已删除", "restaurant_id", restaurant.ID, "rows", report.Rows)
	return report, nil
}

// ViewDish 菜品展示视图
func (s *CatalogService) ViewDish(d *model.Dish) DishView {
	return DishView{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
		ImageURL:    s.media.URL(d.ImagePath),
	}
}

func (s *CatalogService) storageFailure(msg string, err error) error {
	logger.L().Errorw("[Catalog] "+msg, "error", err)
	return newStorage(err)
}
