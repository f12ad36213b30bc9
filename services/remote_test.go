package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteGenerate(t *testing.T) {
	glb := []byte("glTF-test-bytes")
	assets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(glb)
	}))
	defer assets.Close()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model_url": "` + assets.URL + `/wing.glb"}`))
	}))
	defer api.Close()

	var (
		dir = t.TempDir()
		rc  = NewRemoteClient(api.URL, "http://127.0.0.1:8000", dir, 0, nil)
	)
	path, viewerURL, err := rc.Generate(context.Background(), "a swept wing")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(viewerURL, "http://127.0.0.1:8000/models/"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, glb, data)
}

func TestRemoteGenerateFailureIsErrRemote(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer api.Close()

	rc := NewRemoteClient(api.URL, "http://localhost", t.TempDir(), 0, nil)
	_, _, err := rc.Generate(context.Background(), "a wing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))
}

func TestFetchAssetCopiesLocalFiles(t *testing.T) {
	var (
		srcDir = t.TempDir()
		dstDir = t.TempDir()
		src    = filepath.Join(srcDir, "model.glb")
	)
	require.NoError(t, os.WriteFile(src, []byte("local-model"), 0o644))

	rc := NewRemoteClient("", "http://localhost:8000/", dstDir, 0, nil)
	path, viewerURL, err := rc.FetchAsset(context.Background(), src, "generated_wing")
	require.NoError(t, err)
	assert.Equal(t, dstDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(viewerURL, "http://localhost:8000/models/generated_wing_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("local-model"), data)
}

func TestFetchAssetRejectsEmptyReference(t *testing.T) {
	rc := NewRemoteClient("", "http://localhost", t.TempDir(), 0, nil)
	_, _, err := rc.FetchAsset(context.Background(), "   ", "generated_wing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))
}

func TestViewerURLTrimsTrailingSlash(t *testing.T) {
	rc := NewRemoteClient("", "http://host/", "", 0, nil)
	assert.Equal(t, "http://host/models/x.glb", rc.ViewerURL("x.glb"))
}
