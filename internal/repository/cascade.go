package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_hub_202601/internal/model"
)

// ==================== 级联删除 ====================
//
// 依赖关系：
//   User ─┬─ Restaurant(manager) ─┬─ Category ── Dish ─┬─ OrderItem
//         │                       ├─ Order ── OrderItem └─ ChatMessage
//         │                       ├─ Blacklist
//         │                       └─ ChatMessage
//         ├─ Order ── OrderItem
//         ├─ ChatMessage
//         └─ Blacklist
//
// 每个删除流程在单个事务中按“子表先于父表”的顺序执行，
// 任一步失败则整体回滚。外键同样声明了 ON DELETE CASCADE。

// 表名
const (
	TableUsers        = "users"
	TableRestaurants  = "restaurants"
	TableCategories   = "categories"
	TableDishes       = "dishes"
	TableOrders       = "orders"
	TableOrderItems   = "order_items"
	TableBlacklists   = "blacklists"
	TableChatMessages = "chat_messages"
)

// CascadeReport 一次级联删除各表删除的行数
// Media 与 Restaurants 在同一事务内收集，调用方提交后据此清理文件与缓存
type CascadeReport struct {
	Rows        map[string]int64 `json:"rows"`
	Media       []string         `json:"-"`
	Restaurants []int64          `json:"-"`
}

func newCascadeReport() *CascadeReport {
	return &CascadeReport{Rows: make(map[string]int64)}
}

func (r *CascadeReport) add(table string, n int64) {
	if n > 0 {
		r.Rows[table] += n
	}
}

func (r *CascadeReport) addMedia(refs ...string) {
	for _, ref := range refs {
		if ref != "" {
			r.Media = append(r.Media, ref)
		}
	}
}

// Count 指定表删除的行数
func (r *CascadeReport) Count(table string) int64 {
	return r.Rows[table]
}

// Total 删除的总行数
func (r *CascadeReport) Total() int64 {
	var total int64
	for _, n := range r.Rows {
		total += n
	}
	return total
}

// ==================== 对外入口 ====================

// DeleteUser 删除用户及其管理的餐厅、订单、聊天记录、黑名单
func (s *Store) DeleteUser(ctx context.Context, userID int64) (*CascadeReport, error) {
	return s.cascade(ctx, func(tx *gorm.DB, rep *CascadeReport) error {
		if err := mustExist(tx, &model.User{}, userID); err != nil {
			return err
		}
		var restaurantIDs []int64
		if err := tx.Model(&model.Restaurant{}).Where("manager_id = ?", userID).Pluck("id", &restaurantIDs).Error; err != nil {
			return err
		}
		if err := deleteRestaurants(tx, restaurantIDs, rep); err != nil {
			return err
		}

		var orderIDs []int64
		if err := tx.Model(&model.Order{}).Where("user_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if err := deleteOrders(tx, orderIDs, rep); err != nil {
			return err
		}
		if err := deleteWhere(tx, &model.ChatMessage{}, TableChatMessages, rep, "user_id = ?", userID); err != nil {
			return err
		}
		if err := deleteWhere(tx, &model.Blacklist{}, TableBlacklists, rep, "user_id = ?", userID); err != nil {
			return err
		}
		var avatars []string
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Pluck("avatar_path", &avatars).Error; err != nil {
			return err
		}
		rep.addMedia(avatars...)
		return deleteWhere(tx, &model.User{}, TableUsers, rep, "id = ?", userID)
	})
}

// DeleteRestaurant 删除餐厅及其分类、菜品、订单、黑名单、聊天记录
func (s *Store) DeleteRestaurant(ctx context.Context, restaurantID int64) (*CascadeReport, error) {
	return s.cascade(ctx, func(tx *gorm.DB, rep *CascadeReport) error {
		if err := mustExist(tx, &model.Restaurant{}, restaurantID); err != nil {
			return err
		}
		return deleteRestaurants(tx, []int64{restaurantID}, rep)
	})
}

// DeleteCategory 删除分类及其下菜品
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) (*CascadeReport, error) {
	return s.cascade(ctx, func(tx *gorm.DB, rep *CascadeReport) error {
		if err := mustExist(tx, &model.Category{}, categoryID); err != nil {
			return err
		}
		var dishIDs []int64
		if err := tx.Model(&model.Dish{}).Where("category_id = ?", categoryID).Pluck("id", &dishIDs).Error; err != nil {
			return err
		}
		if err := deleteDishes(tx, dishIDs, rep); err != nil {
			return err
		}
		return deleteWhere(tx, &model.Category{}, TableCategories, rep, "id = ?", categoryID)
	})
}

// DeleteDish 删除菜品及引用它的订单项、聊天记录
// 订单总额保持不变
func (s *Store) DeleteDish(ctx context.Context, dishID int64) (*CascadeReport, error) {
	return s.cascade(ctx, func(tx *gorm.DB, rep *CascadeReport) error {
		if err := mustExist(tx, &model.Dish{}, dishID); err != nil {
			return err
		}
		return deleteDishes(tx, []int64{dishID}, rep)
	})
}

// DeleteOrder 删除订单及其订单项
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) (*CascadeReport, error) {
	return s.cascade(ctx, func(tx *gorm.DB, rep *CascadeReport) error {
		if err := mustExist(tx, &model.Order{}, orderID); err != nil {
			return err
		}
		return deleteOrders(tx, []int64{orderID}, rep)
	})
}

// ==================== 内部流程 ====================

func (s *Store) cascade(ctx context.Context, fn func(tx *gorm.DB, rep *CascadeReport) error) (*CascadeReport, error) {
	rep := newCascadeReport()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, rep)
	})
	if err != nil {
		return nil, translate(err)
	}
	return rep, nil
}

func mustExist(tx *gorm.DB, m interface{}, id int64) error {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteWhere(tx *gorm.DB, m interface{}, table string, rep *CascadeReport, query string, args ...interface{}) error {
	res := tx.Where(query, args...).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	rep.add(table, res.RowsAffected)
	return nil
}

func deleteRestaurants(tx *gorm.DB, restaurantIDs []int64, rep *CascadeReport) error {
	if len(restaurantIDs) == 0 {
		return nil
	}

	var orderIDs []int64
	if err := tx.Model(&model.Order{}).Where("restaurant_id IN ?", restaurantIDs).Pluck("id", &orderIDs).Error; err != nil {
		return err
	}
	var dishIDs []int64
	if err := tx.Model(&model.Dish{}).Where("restaurant_id IN ?", restaurantIDs).Pluck("id", &dishIDs).Error; err != nil {
		return err
	}

	if err := deleteOrders(tx, orderIDs, rep); err != nil {
		return err
	}
	if err := deleteDishes(tx, dishIDs, rep); err != nil {
		return err
	}

	steps := []struct {
		model interface{}
		table string
	}{
		{&model.ChatMessage{}, TableChatMessages},
		{&model.Blacklist{}, TableBlacklists},
		{&model.Category{}, TableCategories},
	}
	for _, step := range steps {
		if err := deleteWhere(tx, step.model, step.table, rep, "restaurant_id IN ?", restaurantIDs); err != nil {
			return err
		}
	}
	var logos []string
	if err := tx.Model(&model.Restaurant{}).Where("id IN ?", restaurantIDs).Pluck("logo_path", &logos).Error; err != nil {
		return err
	}
	rep.addMedia(logos...)
	rep.Restaurants = append(rep.Restaurants, restaurantIDs...)
	return deleteWhere(tx, &model.Restaurant{}, TableRestaurants, rep, "id IN ?", restaurantIDs)
}

func deleteDishes(tx *gorm.DB, dishIDs []int64, rep *CascadeReport) error {
	if len(dishIDs) == 0 {
		return nil
	}
	if err := deleteWhere(tx, &model.OrderItem{}, TableOrderItems, rep, "dish_id IN ?", dishIDs); err != nil {
		return err
	}
	if err := deleteWhere(tx, &model.ChatMessage{}, TableChatMessages, rep, "dish_id IN ?", dishIDs); err != nil {
		return err
	}
	var images []string
	if err := tx.Model(&model.Dish{}).Where("id IN ?", dishIDs).Pluck("image_path", &images).Error; err != nil {
		return err
	}
	rep.addMedia(images...)
	return deleteWhere(tx, &model.Dish{}, TableDishes, rep, "id IN ?", dishIDs)
}

func deleteOrders(tx *gorm.DB, orderIDs []int64, rep *CascadeReport) error {
	if len(orderIDs) == 0 {
		return nil
	}
	if err := deleteWhere(tx, &model.OrderItem{}, TableOrderItems, rep, "order_id IN ?", orderIDs); err != nil {
		return err
	}
	return deleteWhere(tx, &model.Order{}, TableOrders, rep, "id IN ?", orderIDs)
}
