package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// MaxImageWidth is the width images are scaled down to before storage
	MaxImageWidth = 800
	// ImageQuality is the JPEG quality of stored images
	ImageQuality = 80
)

// AllowedImageFormats lists the accepted upload extensions
var AllowedImageFormats = []string{".png", ".jpg", ".jpeg"}

var (
	// UploadDir is the directory where uploaded files are stored
	// Can be overridden for testing
	UploadDir = "./uploads"
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	if !isAllowedFormat(filepath.Ext(fileHeader.Filename)) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG, JPG and JPEG files are allowed",
		}
	}

	return nil
}

func isAllowedFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedImageFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

// NormalizeImage decodes an uploaded PNG or JPEG, scales it down to MaxImageWidth
// keeping the aspect ratio, and re-encodes it as JPEG
func NormalizeImage(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".png":
		img, err = png.Decode(src)
	default:
		img, err = jpeg.Decode(src)
	}
	if err != nil {
		return nil, &FileUploadError{Code: "INVALID_IMAGE", Message: "Failed to decode image"}
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = resize.Resize(MaxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ImageQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// NewImageName returns a unique file name for a stored image
func NewImageName() string {
	return uuid.NewString() + ".jpg"
}

// SaveImage writes image bytes to uploadDir under a fresh name and returns the name
func SaveImage(data []byte, uploadDir string) (string, error) {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := NewImageName()
	if err := os.WriteFile(filepath.Join(uploadDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filename, nil
}

// RemoveImage deletes a stored image; a missing file is not an error
func RemoveImage(filename, uploadDir string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(uploadDir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetImageURL returns the URL path for accessing the uploaded image
func GetImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}
