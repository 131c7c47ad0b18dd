package storage

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStore keeps assets in a Google Drive folder. Private files are shared per buyer.
type DriveStore struct {
	svc      *drive.Service
	folderID string
}

func NewDriveStore(ctx context.Context, creds option.ClientOption, folderID string) (*DriveStore, error) {
	svc, err := drive.NewService(ctx, creds, option.WithScopes(drive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("storage.NewDriveStore: failed to create drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: folderID}, nil
}

func (s *DriveStore) Name() string { return "drive" }

func (s *DriveStore) Upload(ctx context.Context, obj Object) (StoredObject, error) {
	file := &drive.File{Name: objectName(obj.Name), MimeType: obj.ContentType}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	created, err := s.svc.Files.Create(file).
		Media(obj.Body, googleapi.ContentType(obj.ContentType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return StoredObject{}, fmt.Errorf("DriveStore: failed to upload %s: %w", obj.Name, err)
	}

	if obj.Visibility == Private {
		return StoredObject{Ref: created.Id}, nil
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := s.svc.Permissions.Create(created.Id, perm).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return StoredObject{}, fmt.Errorf("DriveStore: failed to publish %s: %w", created.Id, err)
	}
	return StoredObject{Ref: created.Id, URL: driveViewURL(created.Id)}, nil
}

// DownloadLink grants recipient read access to the file and returns its viewer link.
func (s *DriveStore) DownloadLink(ctx context.Context, ref, recipient string) (string, error) {
	if recipient == "" {
		return "", errors.New("DriveStore: recipient email is required to share a file")
	}
	perm := &drive.Permission{Type: "user", Role: "reader", EmailAddress: recipient}
	_, err := s.svc.Permissions.Create(ref, perm).
		SendNotificationEmail(false).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("DriveStore: failed to share %s with %s: %w", ref, recipient, err)
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", ref), nil
}

func (s *DriveStore) Close() error { return nil }

func driveViewURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", id)
}
