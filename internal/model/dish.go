package model

import "github.com/shopspring/decimal"

// 菜品介绍长度限制（按字符计）
const (
	DishDescriptionMin = 1
	DishDescriptionMax = 500
)

// Dish 菜品
type Dish struct {
	BaseModel
	RestaurantID int64  `gorm:"not null;index;uniqueIndex:uq_dish_restaurant_name,priority:1" json:"restaurant_id"`
	CategoryID   int64  `gorm:"not null;index" json:"category_id"`
	Name         string `gorm:"size:80;not null;uniqueIndex:uq_dish_restaurant_name,priority:2" json:"name"`
	ImagePath    string `gorm:"size:255" json:"image_path"`
	Description  string `gorm:"size:500;not null" json:"description"`

	// 两位小数定点数
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Category   *Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Dish) TableName() string {
	return "dishes"
}
