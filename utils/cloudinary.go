package utils

import (
	"fmt"

	"astrodesk/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary initializes a Cloudinary client from CLOUDINARY_URL
// (cloudinary://<api_key>:<api_secret>@<cloud_name>).
func Cloudinary(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	if cld.Config.Cloud.CloudName == "" || cld.Config.Cloud.APISecret == "" {
		return nil, fmt.Errorf("utils.Cloudinary: CLOUDINARY_URL is missing the cloud name or api secret")
	}
	cld.Config.URL.Secure = true
	return cld, nil
}
