package model

// 聊天角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// 聊天场景：菜品询问必须绑定菜品，顾问对话不绑定
const (
	ChatSceneDish    = "dish"
	ChatSceneAdvisor = "advisor"
)

// ChatMessage 聊天记录
type ChatMessage struct {
	BaseModel
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"`
	DishID       *int64 `gorm:"index;check:chk_chat_scene_dish,(scene = 'dish' AND dish_id IS NOT NULL) OR (scene <> 'dish' AND dish_id IS NULL)" json:"dish_id,omitempty"`

	Role    string `gorm:"size:20;not null;check:chk_chat_role,role IN ('user', 'assistant')" json:"role"`
	Scene   string `gorm:"size:20;not null;check:chk_chat_scene,scene IN ('dish', 'advisor')" json:"scene"`
	Content string `gorm:"type:text;not null" json:"content"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Dish       *Dish       `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ValidChatRole 角色是否合法
func ValidChatRole(role string) bool {
	return role == ChatRoleUser || role == ChatRoleAssistant
}

// ValidChatScene 场景是否合法
func ValidChatScene(scene string) bool {
	return scene == ChatSceneDish || scene == ChatSceneAdvisor
}
