package models

import "time"

// Article is a blog post shown on the public site.
type Article struct {
	ID        string    `bson:"_id" firestore:"-" json:"id"`
	Title     string    `bson:"title" firestore:"title" json:"title"`
	Content   string    `bson:"content" firestore:"content" json:"content"` // HTML from the admin editor
	ImageURL  string    `bson:"image_url" firestore:"image_url" json:"image_url"`
	CreatedAt time.Time `bson:"created_at" firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" firestore:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (a *Article) SetID(id string) { a.ID = id }

// ArticleInput is used for both create and update.
type ArticleInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL string  `json:"image_url"`
	Password string  `json:"password"`
	Image    *Upload `json:"-"`
}
