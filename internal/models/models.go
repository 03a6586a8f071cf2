package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

// Product carries explicit foreign-key ids; seller and category are
// resolved with explicit queries at the point of use, never preloaded.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       int64     `gorm:"not null"                 json:"price"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	CategoryID  uint      `gorm:"index;not null"           json:"categoryId"`
	SellerID    uint      `gorm:"index;not null"           json:"sellerId"`
	CreatedAt   time.Time `json:"createdAt"`
}
