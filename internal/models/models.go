package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Stock       uint    `json:"stock"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	CreatorID   uint    `gorm:"index;not null"           json:"creator_id"`
}

type Order struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint    `gorm:"index;not null"           json:"user_id"`
	TotalAmount float64 `gorm:"not null"                 json:"total_amount"`
	CreatedAt   int64   `gorm:"not null"                 json:"created_at"`
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"                 json:"id"`
	OrderID   uint `gorm:"index;not null"             json:"order_id"`
	ProductID uint `gorm:"not null"                   json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0" json:"quantity"`
}
