package models

import "time"

// Booking represents a consultation booking. One booking consumes the whole day.
type Booking struct {
	ID        string    `bson:"_id" firestore:"-" json:"id"`
	Date      string    `bson:"date" firestore:"date" json:"date"`                                  // Calendar day, "YYYY-MM-DD"
	Hour      int       `bson:"hour" firestore:"hour" json:"hour"`                                  // 9..17
	Name      string    `bson:"name" firestore:"name" json:"name"`
	Email     string    `bson:"email" firestore:"email" json:"email"`
	Phone     string    `bson:"phone" firestore:"phone" json:"phone"`
	Notes     string    `bson:"notes,omitempty" firestore:"notes,omitempty" json:"notes,omitempty"` // Optional free text from the client
	CreatedAt time.Time `bson:"timestamp" firestore:"timestamp" json:"timestamp"`                   // Server-assigned
}

func (b *Booking) SetID(id string) { b.ID = id }

// BookingRequest is the public booking payload.
type BookingRequest struct {
	Date  string `json:"date" binding:"required"`
	Hour  int    `json:"hour"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
	Notes string `json:"notes"`
}

// AvailabilityResponse lists the bookable hours of one day.
type AvailabilityResponse struct {
	AvailableHours []int `json:"available_hours"`
}

// StatusResponse is the generic {status, message} acknowledgement.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// BookingConfirmation is returned once a booking is persisted.
type BookingConfirmation struct {
	BookingID string
	Date      string
	Hour      int
}
