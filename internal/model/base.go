package model

import (
	"time"
)

// BaseModel 主键与时间戳
// 所有实体均为硬删除，依赖行由级联流程显式删除
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
