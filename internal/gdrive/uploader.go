package gdrive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mduse88/family-expenses/internal/config"
)

// Uploader puts backup files into a fixed Drive folder.
type Uploader struct {
	svc      *drive.Service
	folderID string
}

// NewUploader builds a Drive client from the stored refresh token. The
// access token is minted on demand by the token source; nothing is cached
// on disk.
func NewUploader(ctx context.Context, cfg config.GoogleDrive) (*Uploader, error) {
	if !cfg.IsConfigured() {
		return nil, errors.New("google drive is not configured (set GDRIVE_CLIENT_ID, GDRIVE_CLIENT_SECRET, GDRIVE_REFRESH_TOKEN, GDRIVE_FOLDER_ID)")
	}

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Uploader{svc: svc, folderID: cfg.FolderID}, nil
}

// UploadFile uploads the local file into the configured folder and returns
// the created file ID.
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload file %q: %w", localPath, err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:    filepath.Base(localPath),
		Parents: []string{u.folderID},
	}
	created, err := u.svc.Files.Create(meta).Media(f).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %q to drive: %w", meta.Name, err)
	}
	return created.Id, nil
}
