package service

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/platera-api/internal/config"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// Upload bounds enforced before a signature is issued.
const (
	MaxUploadFiles    = 5
	MaxUploadFileSize = 5 * 1024 * 1024 // 5MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// UploadFile describes one candidate file of an upload batch.
type UploadFile struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
	Size int64  `json:"size" binding:"required"`
}

// ValidationResult reports ok or the first violation found.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// UploadSignature carries everything the client needs for a signed direct
// upload to the media host.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
}

// UploadService validates upload batches and issues signed upload
// credentials for the media host.
type UploadService struct {
	cfg config.MediaConfig
	now func() time.Time
}

// NewUploadService creates a new upload service.
func NewUploadService(cfg config.MediaConfig) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// ValidateImages checks count, MIME type and size bounds and reports the
// first violation. Static bounds only, no content inspection.
func (s *UploadService) ValidateImages(files []UploadFile) ValidationResult {
	if len(files) == 0 {
		return ValidationResult{Error: "no images selected"}
	}
	if len(files) > MaxUploadFiles {
		return ValidationResult{Error: fmt.Sprintf("maximum %d images allowed", MaxUploadFiles)}
	}

	for _, f := range files {
		if !allowedImageTypes[strings.ToLower(strings.TrimSpace(f.Type))] {
			return ValidationResult{Error: fmt.Sprintf("invalid file type: %s. Only JPEG, PNG, and WebP allowed", f.Name)}
		}
		if f.Size > MaxUploadFileSize {
			return ValidationResult{Error: fmt.Sprintf("file too large: %s. Maximum size is 5MB", f.Name)}
		}
	}

	return ValidationResult{Valid: true}
}

// CreateSignature validates the batch and returns signed upload parameters.
// Each batch gets its own folder under the configured root, so parallel
// uploads cannot collide.
func (s *UploadService) CreateSignature(files []UploadFile) (*UploadSignature, error) {
	if result := s.ValidateImages(files); !result.Valid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, result.Error)
	}

	timestamp := s.now().Unix()
	folder := s.cfg.Folder + "/" + uuid.NewString()

	return &UploadSignature{
		Signature: s.sign(map[string]string{
			"folder":    folder,
			"timestamp": fmt.Sprintf("%d", timestamp),
		}),
		Timestamp: timestamp,
		CloudName: s.cfg.CloudName,
		APIKey:    s.cfg.APIKey,
		Folder:    folder,
	}, nil
}

// sign computes the media host's upload signature: SHA-1 over the sorted
// params serialized as key=value joined with '&', with the API secret
// appended.
func (s *UploadService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}
