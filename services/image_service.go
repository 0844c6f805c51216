package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/foodhub/foodhub-api/utils"
)

// ImageService stores catalog and profile images
type ImageService interface {
	// UploadImage validates, normalizes and stores an image, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a URL clients can fetch the image from
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

var imageServiceInstance ImageService

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{s3Service: s3Service}
	return imageServiceInstance
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	data, err := utils.NormalizeImage(fileHeader)
	if err != nil {
		return "", err
	}

	key := "uploads/" + utils.NewImageName()
	if err := s.s3Service.UploadFile(ctx, key, data, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// LocalImageService stores images on disk and serves them through the uploads route
type LocalImageService struct {
	dir string
}

// InitLocalImageService initializes the image service with a local directory backend
func InitLocalImageService(dir string) ImageService {
	imageServiceInstance = &LocalImageService{dir: dir}
	return imageServiceInstance
}

// UploadImage validates, normalizes and writes an image to the upload directory
func (s *LocalImageService) UploadImage(_ context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	data, err := utils.NormalizeImage(fileHeader)
	if err != nil {
		return "", err
	}
	return utils.SaveImage(data, s.dir)
}

// GetImageURL returns the uploads route path of an image
func (s *LocalImageService) GetImageURL(_ context.Context, imageKey string) (string, error) {
	return utils.GetImageURL(imageKey), nil
}

// DeleteImage removes an image file
func (s *LocalImageService) DeleteImage(_ context.Context, imageKey string) error {
	return utils.RemoveImage(imageKey, s.dir)
}
