// Package services holds the external collaborators of the parametric core:
// the hosted wing-generator API, the hosted generative-3D model, and asset
// retrieval into the served models directory.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skyforge/wingen/generator"
)

// ErrRemote is raised when the hosted wing generator fails; callers fall back
// to the parametric core
var ErrRemote = errors.New("remote wing generator failed")

const DefaultRemoteTimeout = 120 * time.Second

// RemoteClient calls an externally hosted wing-generator endpoint and stores
// the returned asset locally
type RemoteClient struct {
	Endpoint  string // Hosted generator URL
	BaseURL   string // Public base URL the viewer URLs are derived from
	ModelsDir string // Local directory the served assets live in
	HTTP      *http.Client
	log       *zap.Logger
}

func NewRemoteClient(endpoint, baseURL, modelsDir string, timeout time.Duration, log *zap.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RemoteClient{
		Endpoint:  endpoint,
		BaseURL:   baseURL,
		ModelsDir: modelsDir,
		HTTP:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

// ViewerURL resolves the public URL for a stored model file
func (rc *RemoteClient) ViewerURL(filename string) string {
	return fmt.Sprintf("%s/models/%s", strings.TrimRight(rc.BaseURL, "/"), filename)
}

// Generate asks the hosted generator for a wing model and stores the
// referenced asset. Any failure is wrapped in ErrRemote so the caller can
// fall back to local generation
func (rc *RemoteClient) Generate(ctx context.Context, prompt string) (path, viewerURL string, err error) {
	body, _ := json.Marshal(map[string]string{"prompt": prompt})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := rc.HTTP.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: endpoint returned %s", ErrRemote, resp.Status)
	}
	var payload struct {
		ModelURL string `json:"model_url"`
		URL      string `json:"url"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("%w: decoding response: %s", ErrRemote, err.Error())
	}
	source := payload.ModelURL
	if source == "" {
		source = payload.URL
	}
	return rc.FetchAsset(ctx, source, "generated_wing")
}

// FetchAsset downloads (http/https) or copies (local path) a model asset into
// the models directory under a collision-resistant name and resolves its
// public viewer URL
func (rc *RemoteClient) FetchAsset(ctx context.Context, source, prefix string) (path, viewerURL string, err error) {
	if strings.TrimSpace(source) == "" {
		return "", "", fmt.Errorf("%w: no model asset reference provided", ErrRemote)
	}
	if err = os.MkdirAll(rc.ModelsDir, 0o755); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	var (
		filename = generator.ArtifactName(prefix, ".glb")
		dest     = filepath.Join(rc.ModelsDir, filename)
	)
	parsed, _ := url.Parse(source)
	if parsed != nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		err = rc.download(ctx, source, dest)
	} else {
		err = copyFile(source, dest)
	}
	if err != nil {
		return "", "", err
	}
	viewerURL = rc.ViewerURL(filename)
	rc.log.Info("stored generated model asset",
		zap.String("path", dest), zap.String("viewer_url", viewerURL))
	return dest, viewerURL, nil
}

func (rc *RemoteClient) download(ctx context.Context, source, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	resp, err := rc.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to download asset from %s: %s", ErrRemote, source, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: asset download returned %s", ErrRemote, resp.Status)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	defer out.Close()
	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	return nil
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("%w: model file not found at %s", ErrRemote, source)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	defer out.Close()
	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, err.Error())
	}
	return nil
}
