package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const MaxLogoSize = 2 << 20

var (
	ErrUnsupportedLogoType = errors.New("logo must be a png, jpeg, webp or svg image")
	ErrLogoTooLarge        = errors.New("logo exceeds the size limit")
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// LogoKey returns the object key for a team logo. version keeps keys unique
// across re-uploads so CDN caches never serve a stale image.
func LogoKey(teamID int, contentType string, version int64) (string, error) {
	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLogoType, contentType)
	}
	return path.Join("logos", "teams", fmt.Sprintf("%d-%d%s", teamID, version, ext)), nil
}
