package plant

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PhotoUploader stores a photo and returns its public URL. key prefixes the
// stored object's name.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, file interface{}) (string, error)
}

// CloudinaryUploader stores images under one Cloudinary folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, key string, file interface{}) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       key + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_1080,h_1080,q_auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
