package model

// 每家餐厅固定的四个分类，与餐厅在同一事务中创建
var DefaultCategories = []string{"菜品", "主食", "甜品", "饮品"}

// Restaurant 餐厅
type Restaurant struct {
	BaseModel
	// 全局唯一
	Name     string `gorm:"size:80;uniqueIndex:uq_restaurants_name;not null" json:"name"`
	LogoPath string `gorm:"size:255" json:"logo_path"`

	// 一个用户最多管理一家餐厅
	ManagerID int64 `gorm:"not null;uniqueIndex:uq_restaurants_manager" json:"manager_id"`
	Manager   *User `gorm:"foreignKey:ManagerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// Category 菜品分类
type Category struct {
	BaseModel
	RestaurantID int64       `gorm:"not null;uniqueIndex:uq_category_restaurant_name,priority:1" json:"restaurant_id"`
	Name         string      `gorm:"size:20;not null;uniqueIndex:uq_category_restaurant_name,priority:2" json:"name"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
