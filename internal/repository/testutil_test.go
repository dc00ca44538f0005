package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/pkg/database"
)

func setupStoreTestDB(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(name)
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x", AvatarPath: "avatars/" + username + ".png"}
	if err := s.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func seedRestaurant(t *testing.T, s *Store, managerID int64, name string) (*model.Restaurant, []model.Category) {
	t.Helper()
	r := &model.Restaurant{Name: name, ManagerID: managerID, LogoPath: "restaurants/" + name + ".png"}
	cats, err := s.Restaurants.CreateWithCategories(context.Background(), r, model.DefaultCategories)
	if err != nil {
		t.Fatalf("创建餐厅失败: %v", err)
	}
	return r, cats
}

func seedDish(t *testing.T, s *Store, restaurantID, categoryID int64, name, price string) *model.Dish {
	t.Helper()
	d := &model.Dish{
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
		Name:         name,
		Description:  name + " desc",
		ImagePath:    "dishes/" + name + ".jpg",
		Price:        decimal.RequireFromString(price),
	}
	if err := s.Dishes.Create(context.Background(), d); err != nil {
		t.Fatalf("创建菜品失败: %v", err)
	}
	return d
}

func seedOrder(t *testing.T, s *Store, userID, restaurantID int64, items ...model.OrderItem) *model.Order {
	t.Helper()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	o := &model.Order{UserID: userID, RestaurantID: restaurantID, TotalAmount: total, Items: items}
	if err := s.Orders.Create(context.Background(), o); err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	return o
}

func countRows(t *testing.T, s *Store, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := s.DB().Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	return n
}
