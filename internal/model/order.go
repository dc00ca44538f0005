package model

import "github.com/shopspring/decimal"

// ==================== Order 订单 ====================

// Order 一次付款生成一条订单
// TotalAmount 在提交时由订单项汇总得出，之后不随菜品变化
type Order struct {
	BaseModel
	UserID       int64           `gorm:"not null;index" json:"user_id"`
	RestaurantID int64           `gorm:"not null;index" json:"restaurant_id"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// ==================== OrderItem 订单项 ====================

// OrderItem 订单中的一道菜
// UnitPrice 是下单时菜品价格的快照
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	DishID    int64           `gorm:"not null;index" json:"dish_id"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity >= 1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Dish  *Dish  `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal 单价 × 数量
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
