package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"astrodesk/config"
	"astrodesk/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	cloudinaryAPIBase     = "https://api.cloudinary.com/v1_1"
	cloudinaryRawResource = "raw"
	cloudinaryPrivateType = "private"
)

// CloudinaryStore uploads images as public media and documents as private raw assets that
// are only reachable through signed, expiring download URLs.
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
	linkTTL   time.Duration
	now       func() time.Time
}

// NewCloudinaryStore creates a CloudinaryStore from CLOUDINARY_URL.
func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	cld, err := utils.Cloudinary(cfg)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{
		cld:       cld,
		cloudName: cld.Config.Cloud.CloudName,
		apiKey:    cld.Config.Cloud.APIKey,
		apiSecret: cld.Config.Cloud.APISecret,
		linkTTL:   cfg.DownloadLinkTTL,
		now:       time.Now,
	}, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

// Upload uploads a file into the given folder. Private objects return their public id as Ref.
func (s *CloudinaryStore) Upload(ctx context.Context, obj Object) (StoredObject, error) {
	params := uploader.UploadParams{Folder: obj.Folder}
	if obj.Visibility == Private {
		// Raw public ids keep their extension, so the downloaded file opens as a PDF.
		params.PublicID = objectName(obj.Name)
		params.ResourceType = cloudinaryRawResource
		params.Type = api.DeliveryType(cloudinaryPrivateType)
	}

	result, err := s.cld.Upload.Upload(ctx, obj.Body, params)
	if err != nil {
		return StoredObject{}, fmt.Errorf("CloudinaryStore: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return StoredObject{}, fmt.Errorf("CloudinaryStore: no public ID returned")
	}

	if obj.Visibility == Private {
		return StoredObject{Ref: result.PublicID}, nil
	}
	return StoredObject{Ref: result.PublicID, URL: result.SecureURL}, nil
}

// DownloadLink generates a signed private download URL valid for the configured TTL.
func (s *CloudinaryStore) DownloadLink(_ context.Context, ref, _ string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("CloudinaryStore: empty public id")
	}
	return s.privateDownloadURL(ref, s.now()), nil
}

func (s *CloudinaryStore) Close() error { return nil }

func (s *CloudinaryStore) privateDownloadURL(publicID string, now time.Time) string {
	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("type", cloudinaryPrivateType)
	params.Set("timestamp", strconv.FormatInt(now.Unix(), 10))
	params.Set("expires_at", strconv.FormatInt(now.Add(s.linkTTL).Unix(), 10))
	params.Set("signature", signParams(params, s.apiSecret))
	params.Set("api_key", s.apiKey)

	return fmt.Sprintf("%s/%s/%s/download?%s",
		cloudinaryAPIBase, url.PathEscape(s.cloudName), cloudinaryRawResource, params.Encode())
}

// signParams signs the sorted, unescaped key=value pairs joined by '&' followed by the API secret.
func signParams(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}
	return computeSHA1(strings.Join(pairs, "&") + secret)
}

// computeSHA1 computes the SHA-1 hash of the input and returns its hex encoding.
func computeSHA1(input string) string {
	h := sha1.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
