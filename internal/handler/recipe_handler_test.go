package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext builds a *gin.Context with an optional JSON body.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests: the handler rejects before touching the service
// ============================================================================

func TestCreateRecipe_ValidationErrors(t *testing.T) {
	h := &RecipeHandler{} // nil service, binding fails first

	valid := map[string]interface{}{
		"title":       "Ful Medames",
		"category":    "VEG",
		"servings":    4,
		"ingredients": []map[string]string{{"name": "fava beans", "quantity": "500", "unit": "g"}},
		"steps":       []string{"Simmer until tender."},
	}

	drop := func(field string) map[string]interface{} {
		body := map[string]interface{}{}
		for k, v := range valid {
			if k != field {
				body[k] = v
			}
		}
		return body
	}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing title", drop("title")},
		{"missing category", drop("category")},
		{"missing servings", drop("servings")},
		{"missing ingredients", drop("ingredients")},
		{"missing steps", drop("steps")},
		{"title too short", func() map[string]interface{} {
			b := drop("")
			b["title"] = "ab"
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/recipes", tt.body)
			middleware.SetCurrentUser(c, &entity.User{ID: 7})

			h.CreateRecipe(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}
