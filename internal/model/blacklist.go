package model

// Blacklist 某餐厅拉黑某用户
type Blacklist struct {
	BaseModel
	RestaurantID int64 `gorm:"not null;uniqueIndex:uq_blacklist_restaurant_user,priority:1" json:"restaurant_id"`
	UserID       int64 `gorm:"not null;index;uniqueIndex:uq_blacklist_restaurant_user,priority:2" json:"user_id"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Blacklist) TableName() string {
	return "blacklists"
}
