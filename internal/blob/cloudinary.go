package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const uploadTimeout = 5 * time.Minute

// Cloudinary stores blobs as raw resources in a Cloudinary folder. The
// public ID is the generated filename, so the delivery URL doubles as the
// persisted location.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		ResourceType: "raw",
		Folder:       c.folder,
		PublicID:     filename,
	})
	if err != nil {
		return "", fmt.Errorf("error uploading blob: %w", err)
	}

	location := result.SecureURL
	if location == "" {
		location = result.URL
	}
	if location == "" {
		return "", errors.New("cloudinary returned no blob URL")
	}
	return location, nil
}

func (c *Cloudinary) Remove(ctx context.Context, location string) error {
	publicID, err := c.publicIDFromLocation(location)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err = c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("error removing blob %s: %w", location, err)
	}
	return nil
}

func (c *Cloudinary) Redirectable() bool {
	return true
}

func (c *Cloudinary) publicIDFromLocation(location string) (string, error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid blob location %q: %w", location, err)
	}
	return path.Join(c.folder, path.Base(parsed.Path)), nil
}
