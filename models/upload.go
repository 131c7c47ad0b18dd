package models

import "io"

// Upload is a file received from the admin UI, ready to be pushed to the asset store.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
