package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyforge/wingen/export"
	"github.com/skyforge/wingen/generator"
	"github.com/skyforge/wingen/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	var (
		dir    = t.TempDir()
		gen    = generator.New(dir, export.FormatGLB, nil)
		assets = services.NewRemoteClient("", "http://127.0.0.1:8000", dir, 0, nil)
	)
	return New(gen, assets, nil, 2, nil)
}

func post(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateParametric(t *testing.T) {
	r := newTestServer(t).Router()
	w := post(t, r, "/generate-parametric", map[string]interface{}{
		"root_chord":      5,
		"semi_span":       10,
		"sweep_angle_deg": 25,
		"taper_ratio":     0.5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Source   string `json:"source"`
		Metadata struct {
			TotalSpan   float64 `json:"total_span"`
			WingArea    float64 `json:"wing_area"`
			AspectRatio float64 `json:"aspect_ratio"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "parametric", resp.Source)
	assert.Equal(t, 20.0, resp.Metadata.TotalSpan)
	assert.Equal(t, 75.0, resp.Metadata.WingArea)
	assert.InDelta(t, 400./75., resp.Metadata.AspectRatio, 1.e-12)
}

func TestGenerateParametricMissingField(t *testing.T) {
	r := newTestServer(t).Router()
	w := post(t, r, "/generate-parametric", map[string]interface{}{
		"root_chord": 5,
		"semi_span":  10,
		// sweep_angle_deg and taper_ratio missing
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sweep_angle_deg", resp["field"])
}

func TestGenerateParametricInvalidField(t *testing.T) {
	r := newTestServer(t).Router()
	w := post(t, r, "/generate-parametric", map[string]interface{}{
		"root_chord":      5,
		"semi_span":       -3,
		"sweep_angle_deg": 25,
		"taper_ratio":     0.5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "semi_span", resp["field"])
}

func TestGenerateParametricPromptText(t *testing.T) {
	r := newTestServer(t).Router()
	w := post(t, r, "/generate-parametric", map[string]interface{}{
		"prompt_text": "a wing with a root chord of 6 and taper ratio of 0.3",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Metadata struct {
			RootChord  float64 `json:"root_chord"`
			TaperRatio float64 `json:"taper_ratio"`
			SemiSpan   float64 `json:"semi_span"`
			Prompt     string  `json:"prompt"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6.0, resp.Metadata.RootChord)
	assert.Equal(t, 0.3, resp.Metadata.TaperRatio)
	assert.Equal(t, 10.0, resp.Metadata.SemiSpan)
	assert.NotEmpty(t, resp.Metadata.Prompt)
}

func TestGenerateFallsBackWithoutRemote(t *testing.T) {
	// No hosted generator configured: the prompt path goes straight to the
	// parametric core and always produces a mesh
	r := newTestServer(t).Router()
	w := post(t, r, "/generate", map[string]string{"text": "a sleek glider wing"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "parametric", resp["source"])
}

func TestGenerateRequiresText(t *testing.T) {
	r := newTestServer(t).Router()
	w := post(t, r, "/generate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestServer(t).Router()
	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
