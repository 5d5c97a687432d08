package model

import "time"

// OrderStatus represents the fulfilment state of an order. Only staff may
// move an order out of pending.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
)

// PizzaSize represents the pizza size choice on an order.
type PizzaSize string

const (
	PizzaSizeSmall      PizzaSize = "small"
	PizzaSizeMedium     PizzaSize = "medium"
	PizzaSizeLarge      PizzaSize = "large"
	PizzaSizeExtraLarge PizzaSize = "extra-large"
)

// Order represents a pizza order placed by a user. The owning user is fixed
// at creation from the authenticated subject.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"-" gorm:"not null;index"`
	Quantity    int         `json:"quantity" gorm:"not null"`
	PizzaSize   PizzaSize   `json:"pizza_size" gorm:"type:varchar(20);not null"`
	Flavour     bool        `json:"flavour" gorm:"not null"`
	OrderStatus OrderStatus `json:"order_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// OwnerUsername returns the username of the order's owner. The User relation
// must be preloaded by the repository.
func (o *Order) OwnerUsername() string {
	return o.User.Username
}
