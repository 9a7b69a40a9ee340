package service

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/platera-api/internal/config"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "secret456",
		Folder:    "platera/recipes",
	}
}

func TestValidateImages(t *testing.T) {
	svc := NewUploadService(testMediaConfig())

	jpeg := func(size int64) UploadFile {
		return UploadFile{Name: "a.jpg", Type: "image/jpeg", Size: size}
	}

	tests := []struct {
		name      string
		files     []UploadFile
		wantValid bool
		wantErr   string
	}{
		{
			name:      "single valid jpeg",
			files:     []UploadFile{jpeg(1024)},
			wantValid: true,
		},
		{
			name: "all allowed types",
			files: []UploadFile{
				{Name: "a.jpg", Type: "image/jpeg", Size: 1},
				{Name: "b.jpg", Type: "image/jpg", Size: 1},
				{Name: "c.png", Type: "image/png", Size: 1},
				{Name: "d.webp", Type: "image/webp", Size: 1},
			},
			wantValid: true,
		},
		{
			name:      "type is case-insensitive",
			files:     []UploadFile{{Name: "a.jpg", Type: "IMAGE/JPEG", Size: 1}},
			wantValid: true,
		},
		{
			name:    "no files",
			files:   nil,
			wantErr: "no images selected",
		},
		{
			name:    "too many files",
			files:   []UploadFile{jpeg(1), jpeg(1), jpeg(1), jpeg(1), jpeg(1), jpeg(1)},
			wantErr: "maximum 5 images",
		},
		{
			name:    "gif rejected",
			files:   []UploadFile{{Name: "anim.gif", Type: "image/gif", Size: 1}},
			wantErr: "invalid file type: anim.gif",
		},
		{
			name:      "exactly 5MB passes",
			files:     []UploadFile{jpeg(MaxUploadFileSize)},
			wantValid: true,
		},
		{
			name:    "over 5MB rejected",
			files:   []UploadFile{jpeg(MaxUploadFileSize + 1)},
			wantErr: "file too large: a.jpg",
		},
		{
			name: "first violation wins",
			files: []UploadFile{
				{Name: "bad.gif", Type: "image/gif", Size: 1},
				{Name: "huge.jpg", Type: "image/jpeg", Size: MaxUploadFileSize + 1},
			},
			wantErr: "invalid file type: bad.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.ValidateImages(tt.files)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantErr != "" {
				assert.Contains(t, result.Error, tt.wantErr)
			}
		})
	}
}

func TestCreateSignature(t *testing.T) {
	svc := NewUploadService(testMediaConfig())
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sig, err := svc.CreateSignature([]UploadFile{{Name: "a.jpg", Type: "image/jpeg", Size: 100}})
	require.NoError(t, err)

	assert.Equal(t, fixed.Unix(), sig.Timestamp)
	assert.Equal(t, "demo", sig.CloudName)
	assert.Equal(t, "key123", sig.APIKey)
	assert.True(t, strings.HasPrefix(sig.Folder, "platera/recipes/"))
	assert.Greater(t, len(sig.Folder), len("platera/recipes/"))

	// Signature is SHA-1 over the sorted params with the secret appended.
	payload := fmt.Sprintf("folder=%s&timestamp=%d%s", sig.Folder, sig.Timestamp, "secret456")
	sum := sha1.Sum([]byte(payload))
	assert.Equal(t, hex.EncodeToString(sum[:]), sig.Signature)
}

func TestCreateSignature_InvalidBatch(t *testing.T) {
	svc := NewUploadService(testMediaConfig())

	_, err := svc.CreateSignature([]UploadFile{{Name: "a.gif", Type: "image/gif", Size: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCreateSignature_FoldersDoNotCollide(t *testing.T) {
	svc := NewUploadService(testMediaConfig())
	files := []UploadFile{{Name: "a.jpg", Type: "image/jpeg", Size: 1}}

	first, err := svc.CreateSignature(files)
	require.NoError(t, err)
	second, err := svc.CreateSignature(files)
	require.NoError(t, err)

	assert.NotEqual(t, first.Folder, second.Folder)
}
