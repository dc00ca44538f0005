package model

// User 注册用户
type User struct {
	BaseModel
	Username     string `gorm:"size:64;uniqueIndex:uq_users_username;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	AvatarPath   string `gorm:"size:255" json:"avatar_path"` // 相对媒体根目录，例如 avatars/<id>.png
}

func (User) TableName() string {
	return "users"
}
