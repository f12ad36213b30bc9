// Package generator sequences the wing pipeline: parameter resolution, loft,
// sanitation, property calculation and serialization.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skyforge/wingen/aero"
	"github.com/skyforge/wingen/export"
	"github.com/skyforge/wingen/geometry"
	"github.com/skyforge/wingen/mesh"
	"github.com/skyforge/wingen/params"
)

// ErrGeneration marks internal faults during lofting, sanitization or
// serialization. By the time lofting runs the input has been validated, so
// these are never tied to a specific input field
var ErrGeneration = errors.New("wing generation failed")

// Result is the serialized artifact plus its aerodynamic summary. Data is
// always populated; Path only when the generator has an output directory
type Result struct {
	Filename string
	Path     string
	Data     []byte
	Metadata aero.WingMetadata
}

// Generator is safe for concurrent use: each call operates on its own
// parameter and mesh values with no shared mutable state
type Generator struct {
	OutputDir string // Empty means in-memory only
	Format    export.Format
	lofter    *geometry.Lofter
	log       *zap.Logger
}

func New(outputDir string, format export.Format, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if format == "" {
		format = export.FormatGLB
	}
	return &Generator{
		OutputDir: outputDir,
		Format:    format,
		lofter:    geometry.NewLofter(nil),
		log:       log,
	}
}

// FromParameters runs the full pipeline on a validated parameter set. The
// prompt, when non-empty, is echoed into the metadata
func (g *Generator) FromParameters(wp params.WingParameters, prompt string) (*Result, error) {
	if err := wp.Validate(); err != nil {
		return nil, err
	}
	g.log.Info("generating parametric wing",
		zap.Float64("root_chord", wp.RootChord),
		zap.Float64("semi_span", wp.SemiSpan),
		zap.Float64("sweep_angle_deg", wp.SweepAngleDeg),
		zap.Float64("taper_ratio", wp.TaperRatio))

	wm := g.lofter.Build(wp)
	wm, err := mesh.Sanitize(wm)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGeneration, err.Error())
	}
	data, err := export.Encode(g.Format, wm)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGeneration, err.Error())
	}

	md := aero.Properties(wp)
	md.Prompt = prompt
	res := &Result{
		Filename: ArtifactName("parametric_wing", g.Format.Ext()),
		Data:     data,
		Metadata: md,
	}
	if g.OutputDir != "" {
		if err = os.MkdirAll(g.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrGeneration, err.Error())
		}
		res.Path = filepath.Join(g.OutputDir, res.Filename)
		if err = os.WriteFile(res.Path, data, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrGeneration, err.Error())
		}
		g.log.Info("wing saved", zap.String("path", res.Path),
			zap.Int("vertices", wm.NumVertices()), zap.Int("faces", wm.NumFaces()))
	}
	return res, nil
}

// FromPrompt extracts parameters from free text and generates from them.
// Extraction is best-effort: fields the text does not name keep their
// defaults, so text input always yields a mesh
func (g *Generator) FromPrompt(text string) (*Result, error) {
	wp := params.ExtractFromText(text, params.Defaults(), g.log)
	return g.FromParameters(wp, text)
}

// ArtifactName builds a collision-resistant output name. The timestamp keeps
// names human-sortable; the uuid suffix makes them unique when two
// generations land in the same second
func ArtifactName(prefix, ext string) string {
	var (
		stamp  = time.Now().UTC().Format("20060102_150405")
		suffix = uuid.NewString()[:8]
	)
	return fmt.Sprintf("%s_%s_%s%s", prefix, stamp, suffix, ext)
}
