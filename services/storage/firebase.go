package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// FirebaseStore writes publicly readable objects to the Firebase Storage bucket. Download
// links are the stable object URLs, so the stored reference is the URL itself.
// The bucket must allow object ACLs (fine-grained access control).
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStore(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("storage.NewFirebaseStore: FIREBASE_BUCKET is not set")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("firebase: error opening bucket %s: %w", bucketName, err)
	}
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

func (s *FirebaseStore) Name() string { return "firebase" }

// Upload writes obj world-readable whatever its Visibility. This backend collapses the
// public/private split on purpose: the stable public URL is the download reference, so
// private documents are only as hidden as their unguessable object names.
func (s *FirebaseStore) Upload(ctx context.Context, obj Object) (StoredObject, error) {
	objectPath := path.Join(obj.Folder, objectName(obj.Name))
	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ACL = firebaseACL(obj.Visibility)
	w.ContentType = obj.ContentType

	if _, err := io.Copy(w, obj.Body); err != nil {
		_ = w.Close()
		return StoredObject{}, fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return StoredObject{}, fmt.Errorf("failed to close writer: %w", err)
	}

	publicURL := s.publicURL(objectPath)
	return StoredObject{Ref: publicURL, URL: publicURL}, nil
}

// DownloadLink returns the stored URL unchanged.
func (s *FirebaseStore) DownloadLink(_ context.Context, ref, _ string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("FirebaseStore: empty download reference")
	}
	return ref, nil
}

func (s *FirebaseStore) Close() error { return nil }

func firebaseACL(Visibility) []gcs.ACLRule {
	return []gcs.ACLRule{{Entity: gcs.AllUsers, Role: gcs.RoleReader}}
}

func (s *FirebaseStore) publicURL(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, strings.Join(segments, "/"))
}
