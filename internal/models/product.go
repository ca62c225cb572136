package models

import "time"

// Product represents a listing in a vendor's catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"id"`
	VendorID    string    `json:"vendor_id" gorm:"index;type:varchar(36);not null" bson:"vendor_id"`
	Name        string    `json:"nome" gorm:"type:varchar(200);not null" bson:"nome"`
	Description string    `json:"descricao" gorm:"type:text" bson:"descricao"`
	Price       float64   `json:"preco" gorm:"not null" bson:"preco"`
	Quantity    int       `json:"quantidade" gorm:"not null;default:0" bson:"quantidade"`
	Category    string    `json:"categoria" gorm:"index;type:varchar(100)" bson:"categoria"`
	Image       *string   `json:"imagem" gorm:"type:text" bson:"imagem,omitempty"` // base64 encoded
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
