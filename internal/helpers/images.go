package helpers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryHost = "res.cloudinary.com"

// CloudinaryUploader re-hosts event card images on Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	if folder == "" {
		folder = EventsFolder
	}
	return &CloudinaryUploader{cld: cld, folder: folder}
}

// UploadImage uploads src (a remote URL, data URI or local path) and returns
// the secure URL. Images already on Cloudinary are returned untouched.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("image source is empty")
	}
	if IsHostedImage(src) {
		return src, nil
	}

	uploadResult, err := u.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: u.folder,
		Tags:   []string{"gatherly"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %v", src, err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image %s: %s", src, uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}

// IsHostedImage reports whether src already points at Cloudinary.
func IsHostedImage(src string) bool {
	parsed, err := url.Parse(src)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, cloudinaryHost)
}
