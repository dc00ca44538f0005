package model

import "gorm.io/gorm"

// AllModels 按依赖顺序列出全部实体
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Category{},
		&Dish{},
		&Order{},
		&OrderItem{},
		&Blacklist{},
		&ChatMessage{},
	}
}

// AutoMigrate 建表 / 迁移：外键与唯一约束随表一起创建
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
