package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"astrodesk/models"
	"astrodesk/utils"

	"github.com/gin-gonic/gin"
)

// allowedUploadTypes maps a form field to the extensions it accepts.
var allowedUploadTypes = map[string]map[string]bool{
	"image": {".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true},
	"pdf":   {".pdf": true},
}

// isMultipart reports whether the request carries a multipart form.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formUpload opens the file sent in field. A missing file yields nil, nil.
// The returned closer must be called once the upload is done.
func formUpload(c *gin.Context, field string) (*models.Upload, io.Closer, error) {
	fileHeader, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, utils.InvalidInput(fmt.Sprintf("Could not read file %q: %v", field, err))
	}
	if allowed, ok := allowedUploadTypes[field]; ok {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowed[ext] {
			return nil, nil, utils.InvalidInput(fmt.Sprintf("File %q has an unsupported type %q", field, ext))
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, nil, utils.InvalidInput(fmt.Sprintf("Could not open file %q: %v", field, err))
	}
	return &models.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType(fileHeader),
		Size:        fileHeader.Size,
		Body:        f,
	}, f, nil
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// closeAll closes every non-nil closer.
func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}
