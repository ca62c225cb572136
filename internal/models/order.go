package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "novo"
	OrderStatusAccepted  OrderStatus = "aceito"
	OrderStatusPreparing OrderStatus = "em_preparo"
	OrderStatusDelivered OrderStatus = "entregue"
	OrderStatusCancelled OrderStatus = "cancelado"
)

var statusAliases = map[string]OrderStatus{
	"novo":       OrderStatusNew,
	"new":        OrderStatusNew,
	"aceito":     OrderStatusAccepted,
	"accepted":   OrderStatusAccepted,
	"em_preparo": OrderStatusPreparing,
	"preparing":  OrderStatusPreparing,
	"entregue":   OrderStatusDelivered,
	"delivered":  OrderStatusDelivered,
	"cancelado":  OrderStatusCancelled,
	"cancelled":  OrderStatusCancelled,
	"canceled":   OrderStatusCancelled,
}

// orderTransitions lists, for each status, the statuses it may move to.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: nil,
	OrderStatusCancelled: nil,
}

// ParseOrderStatus maps a wire value (Portuguese or English) to its canonical status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem represents a single line of an order. Name and Price are
// snapshots taken when the order was placed.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement" bson:"-"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36);not null" bson:"-"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null" bson:"product_id"`
	Name      string  `json:"nome" gorm:"type:varchar(200)" bson:"nome"`
	Price     float64 `json:"preco" bson:"preco"` // Price at the time of order
	Quantity  int     `json:"quantidade" bson:"quantidade"`
}

// Order represents a customer order placed against one vendor.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"id"`
	VendorID        string      `json:"vendor_id" gorm:"index;type:varchar(36);not null" bson:"vendor_id"`
	CustomerName    string      `json:"cliente_nome" gorm:"type:varchar(200)" bson:"cliente_nome"`
	CustomerPhone   string      `json:"cliente_telefone" gorm:"type:varchar(40)" bson:"cliente_telefone"`
	CustomerAddress string      `json:"cliente_endereco" gorm:"type:text" bson:"cliente_endereco"`
	Notes           *string     `json:"observacoes" gorm:"type:text" bson:"observacoes,omitempty"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items"`
	Total           float64     `json:"total" bson:"total"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);index" bson:"status"`
	CreatedAt       time.Time   `json:"created_at" gorm:"index" bson:"created_at"`
}
