package models

import "time"

const DefaultProductCategory = "General"

// Product is a digital product. DownloadRef is private and must never leave the server
// except through a resolved download link.
type Product struct {
	ID          string    `bson:"_id" firestore:"-" json:"id"`
	Title       string    `bson:"title" firestore:"title" json:"title"`
	Description string    `bson:"description" firestore:"description" json:"description"`
	Price       float64   `bson:"price" firestore:"price" json:"price"`
	Category    string    `bson:"category" firestore:"category" json:"category"`
	ImageURL    string    `bson:"image_url" firestore:"image_url" json:"image_url"`
	DownloadRef string    `bson:"download_ref" firestore:"download_ref" json:"-"` // drive file id, storage URL or media public id
	CreatedAt   time.Time `bson:"created_at" firestore:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" firestore:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (p *Product) SetID(id string) { p.ID = id }

// ProductView is the public projection of a Product.
type ProductView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url"`
}

// View strips the private download reference.
func (p Product) View() ProductView {
	return ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}

// ProductInput carries admin-supplied product metadata. ImageURL and DownloadRef are set
// when the assets were uploaded by the client beforehand.
type ProductInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	DownloadRef string
	Image       *Upload
	Document    *Upload
}

// ProductUpdate changes metadata only; assets are immutable once ingested.
type ProductUpdate struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Password    string  `json:"password"`
}

// ProductJSONRequest is the JSON variant of the admin create payload.
type ProductJSONRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Password    string  `json:"password"`
	ImageURL    string  `json:"image_url"`
	PDFPublicID string  `json:"pdf_public_id"`
}
