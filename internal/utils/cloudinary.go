package utils

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"jobportal/internal/config"
)

// Asset is a stored file reference
type Asset struct {
	URL      string
	PublicID string
}

// UploadOptions selects where and how a file is stored
type UploadOptions struct {
	Folder       string
	ResourceType string // "image" or "raw"
}

// AssetStore stores profile images and resumes
type AssetStore interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type disabledStore struct{}

// NewDisabledStore returns an asset store that rejects every operation. Used
// when no cloudinary credentials are configured.
func NewDisabledStore() AssetStore {
	return disabledStore{}
}

func (disabledStore) Upload(context.Context, io.Reader, UploadOptions) (*Asset, error) {
	return nil, fmt.Errorf("asset storage is not configured")
}

func (disabledStore) Delete(context.Context, string) error {
	return fmt.Errorf("asset storage is not configured")
}

type cloudinaryStore struct {
	client *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryStore creates the cloudinary-backed asset store
func NewCloudinaryStore(cfg *config.CloudinaryConfig, logger *zap.Logger) (AssetStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &cloudinaryStore{client: client, logger: logger}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*Asset, error) {
	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = "image"
	}

	result, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info("Asset uploaded",
		zap.String("public_id", result.PublicID),
		zap.String("folder", opts.Folder),
	)
	return &Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete asset %q: %w", publicID, err)
	}
	return nil
}
