package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/platera-api/internal/config"
	"github.com/yourusername/platera-api/internal/service"
)

func newUploadTestHandler() *UploadHandler {
	return NewUploadHandler(service.NewUploadService(config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "platera/recipes",
	}))
}

func TestCreateSignature_EmptyBatchRejected(t *testing.T) {
	h := newUploadTestHandler()

	c, w := newTestGinContext(http.MethodPost, "/api/upload/signature", map[string]interface{}{
		"files": []interface{}{},
	})
	h.CreateSignature(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSignature_InvalidTypeRejected(t *testing.T) {
	h := newUploadTestHandler()

	c, w := newTestGinContext(http.MethodPost, "/api/upload/signature", map[string]interface{}{
		"files": []map[string]interface{}{
			{"name": "clip.mp4", "type": "video/mp4", "size": 1024},
		},
	})
	h.CreateSignature(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Contains(t, resp["error"], "invalid file type")
}

func TestCreateSignature_ValidBatch(t *testing.T) {
	h := newUploadTestHandler()

	c, w := newTestGinContext(http.MethodPost, "/api/upload/signature", map[string]interface{}{
		"files": []map[string]interface{}{
			{"name": "a.jpg", "type": "image/jpeg", "size": 1024},
			{"name": "b.png", "type": "image/png", "size": 2048},
		},
	})
	h.CreateSignature(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["signature"])
	assert.Equal(t, "demo", resp["cloud_name"])
	assert.Equal(t, "key", resp["api_key"])
}
