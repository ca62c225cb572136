package models

import "time"

// Vendor represents a seller account and its public storefront.
type Vendor struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"id"`
	Name         string    `json:"nome" gorm:"type:varchar(100);not null" bson:"nome"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" bson:"email"`
	Phone        string    `json:"telefone" gorm:"type:varchar(40)" bson:"telefone"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null" bson:"senha"` // No json tag for security
	StoreName    string    `json:"nome_loja" gorm:"uniqueIndex;type:varchar(100);not null" bson:"nome_loja"`
	CreatedAt    time.Time `json:"created_at" gorm:"index" bson:"created_at"`
}

// StoreSummary is the public listing entry for a storefront.
type StoreSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	StoreName    string    `json:"nome_loja"`
	Phone        string    `json:"telefone"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}
