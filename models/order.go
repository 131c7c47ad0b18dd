package models

import "time"

// Order is an append-only purchase record. Amount and ProductTitle are snapshots taken
// when the order is placed.
type Order struct {
	ID            string    `bson:"_id" firestore:"-" json:"id"`
	ProductID     string    `bson:"product_id" firestore:"product_id" json:"product_id"`
	PayPalOrderID string    `bson:"paypal_order_id" firestore:"paypal_order_id" json:"paypal_order_id"` // asserted by the client, not verified
	Email         string    `bson:"email" firestore:"email" json:"email"`
	Name          string    `bson:"name" firestore:"name" json:"name"`
	Amount        float64   `bson:"amount" firestore:"amount" json:"amount"`
	ProductTitle  string    `bson:"product_title" firestore:"product_title" json:"product_title"`
	CreatedAt     time.Time `bson:"timestamp" firestore:"timestamp" json:"timestamp"`
}

func (o *Order) SetID(id string) { o.ID = id }

// OrderRequest is the public order payload.
type OrderRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Name          string `json:"name" binding:"required"`
}

// OrderConfirmation reports the stored order and whether a download link was delivered.
type OrderConfirmation struct {
	OrderID      string
	DownloadLink string
}
