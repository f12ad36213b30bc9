// Package server exposes the wing generator as a network service. The
// parametric core stays synchronous and CPU-bound; handlers run it on a
// bounded set of worker slots so slow generations cannot stall unrelated
// requests.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skyforge/wingen/generator"
	"github.com/skyforge/wingen/params"
	"github.com/skyforge/wingen/services"
)

// DefaultWorkers bounds concurrent mesh generations
const DefaultWorkers = 4

type Server struct {
	Gen     *generator.Generator
	Assets  *services.RemoteClient // Asset store/viewer URLs; hosted generator when an endpoint is set
	Vertex  *services.VertexClient // Optional hosted generative-3D model
	Workers int
	slots   chan struct{}
	log     *zap.Logger
}

func New(gen *generator.Generator, assets *services.RemoteClient, vertex *services.VertexClient, workers int, log *zap.Logger) *Server {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Gen:     gen,
		Assets:  assets,
		Vertex:  vertex,
		Workers: workers,
		slots:   make(chan struct{}, workers),
		log:     log,
	}
}

// run executes fn on one of the bounded worker slots, honoring request
// cancellation while waiting for a slot
func (s *Server) run(ctx context.Context, fn func() (*generator.Result, error)) (*generator.Result, error) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.slots }()
	return fn()
}

// Router assembles the gin application
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())
	r.POST("/generate", s.Generate)
	r.POST("/generate-parametric", s.GenerateParametric)
	if s.Gen.OutputDir != "" {
		r.Static("/models", s.Gen.OutputDir)
	}
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Generate serves the prompt-driven path: the hosted generator is tried
// first, then the generative model, and the parametric core is the fallback
// when neither is configured or both fail
func (s *Server) Generate(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if s.Assets != nil && s.Assets.Endpoint != "" {
		path, viewerURL, err := s.Assets.Generate(c.Request.Context(), req.Text)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"message":    "Wing model generated by hosted generator.",
				"viewer_url": viewerURL,
				"public_url": viewerURL,
				"local_path": path,
				"source":     "remote",
			})
			return
		}
		s.log.Warn("hosted generator failed, trying next source", zap.Error(err))
	}
	if s.Vertex != nil && s.Assets != nil {
		uri, err := s.Vertex.GenerateModel(c.Request.Context(), req.Text)
		if err == nil {
			path, viewerURL, ferr := s.Assets.FetchAsset(c.Request.Context(), uri, "ai_wing")
			if ferr == nil {
				c.JSON(http.StatusOK, gin.H{
					"message":    "Wing model generated by generative model.",
					"viewer_url": viewerURL,
					"public_url": viewerURL,
					"local_path": path,
					"source":     "generative",
				})
				return
			}
			err = ferr
		}
		s.log.Warn("generative model failed, falling back to parametric core", zap.Error(err))
	}
	res, err := s.run(c.Request.Context(), func() (*generator.Result, error) {
		return s.Gen.FromPrompt(req.Text)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, res, "parametric")
}

// GenerateParametric serves the structured path: four required numeric
// fields, or a prompt_text the extractor derives them from
func (s *Server) GenerateParametric(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	promptText, _ := req["prompt_text"].(string)
	res, err := s.run(c.Request.Context(), func() (*generator.Result, error) {
		if promptText != "" {
			return s.Gen.FromPrompt(promptText)
		}
		wp, err := params.FromMap(req)
		if err != nil {
			return nil, err
		}
		return s.Gen.FromParameters(wp, "")
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, res, "parametric")
}

func (s *Server) respond(c *gin.Context, res *generator.Result, source string) {
	viewerURL := ""
	if s.Assets != nil {
		viewerURL = s.Assets.ViewerURL(res.Filename)
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Wing model generated using parametric wing generator.",
		"viewer_url": viewerURL,
		"public_url": viewerURL,
		"local_path": res.Path,
		"source":     source,
		"metadata":   res.Metadata,
	})
}

// fail maps core errors to client responses: parameter problems name the
// offending field with a 400, internal generation faults stay opaque 500s
func (s *Server) fail(c *gin.Context, err error) {
	var fe *params.FieldError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.Field})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request canceled"})
	default:
		s.log.Error("generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wing generation failed"})
	}
}
