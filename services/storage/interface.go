package storage

//go:generate go run go.uber.org/mock/mockgen -source=./interface.go -destination=./mocks/store_mock.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"astrodesk/config"

	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
)

// Visibility decides how an uploaded object can be reached.
type Visibility int

const (
	// Public objects are readable by anyone through StoredObject.URL.
	Public Visibility = iota
	// Private objects are only reachable through DownloadLink.
	Private
)

// Object is a file to upload.
type Object struct {
	Folder      string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	Visibility  Visibility
}

// StoredObject is the result of an upload. Ref is what callers persist for private objects;
// URL is set for public ones.
type StoredObject struct {
	Ref string
	URL string
}

// AssetStore is the file hosting backend. Each implementation resolves download links its own way:
// per-user sharing grants, stable public URLs, or signed expiring URLs.
type AssetStore interface {
	Name() string
	Upload(ctx context.Context, obj Object) (StoredObject, error)
	// DownloadLink makes ref readable for recipient and returns the link to send them.
	DownloadLink(ctx context.Context, ref, recipient string) (string, error)
	Close() error
}

// New builds the asset store selected by ASSET_STORE. app is only used by the firebase backend.
func New(ctx context.Context, cfg *config.Config, app *firebase.App) (AssetStore, error) {
	switch cfg.AssetStore {
	case config.AssetStoreDrive:
		return NewDriveStore(ctx, cfg.GoogleCredentials(), cfg.DriveFolderID)
	case config.AssetStoreFirebase:
		if app == nil {
			return nil, fmt.Errorf("storage: firebase backend requires a firebase app")
		}
		return NewFirebaseStore(ctx, app, cfg.FirebaseBucket)
	case config.AssetStoreCloudinary:
		return NewCloudinaryStore(cfg)
	case config.AssetStoreS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown asset store %q", cfg.AssetStore)
	}
}

// objectName prefixes the sanitized base name with a random id so uploads never collide.
func objectName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "/" {
		base = "file"
	}
	return uuid.New().String() + "-" + base
}
