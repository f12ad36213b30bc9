// Package params holds the wing planform parameter set consumed by both the
// lofting and aerodynamic property calculations, plus the free-text extractor
// that substitutes for missing structured input.
package params

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// FieldError names the offending field for validation failures detected
// before any mesh work begins
type FieldError struct {
	Field string
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("parameter %q: %s", fe.Field, fe.Err.Error())
}

func (fe *FieldError) Unwrap() error { return fe.Err }

// WingParameters is immutable once built - it is passed by value everywhere
type WingParameters struct {
	RootChord     float64 `yaml:"RootChord" json:"root_chord"`
	SemiSpan      float64 `yaml:"SemiSpan" json:"semi_span"`
	SweepAngleDeg float64 `yaml:"SweepAngleDeg" json:"sweep_angle_deg"`
	TaperRatio    float64 `yaml:"TaperRatio" json:"taper_ratio"`
}

// Defaults returns the fallback planform used when text extraction finds
// nothing to override
func Defaults() WingParameters {
	return WingParameters{
		RootChord:     5.0,
		SemiSpan:      10.0,
		SweepAngleDeg: 25.0,
		TaperRatio:    0.5,
	}
}

// Validate rejects out-of-domain values before any geometry is built.
// TaperRatio outside (0,1] is accepted - the chord floor in the lofter clamps
// pathological cases
func (wp WingParameters) Validate() error {
	if wp.RootChord <= 0 {
		return &FieldError{Field: "root_chord", Err: fmt.Errorf("%w: must be > 0, got %g", ErrInvalidParameter, wp.RootChord)}
	}
	if wp.SemiSpan <= 0 {
		return &FieldError{Field: "semi_span", Err: fmt.Errorf("%w: must be > 0, got %g", ErrInvalidParameter, wp.SemiSpan)}
	}
	return nil
}

// FromMap builds WingParameters from a loosely-typed request payload. Every
// field is required and must be numeric; JSON numbers arrive as float64
func FromMap(m map[string]interface{}) (wp WingParameters, err error) {
	var (
		fields = []struct {
			key string
			dst *float64
		}{
			{"root_chord", &wp.RootChord},
			{"semi_span", &wp.SemiSpan},
			{"sweep_angle_deg", &wp.SweepAngleDeg},
			{"taper_ratio", &wp.TaperRatio},
		}
	)
	for _, f := range fields {
		raw, present := m[f.key]
		if !present {
			err = &FieldError{Field: f.key, Err: ErrMissingParameter}
			return
		}
		switch v := raw.(type) {
		case float64:
			*f.dst = v
		case float32:
			*f.dst = float64(v)
		case int:
			*f.dst = float64(v)
		default:
			err = &FieldError{Field: f.key, Err: fmt.Errorf("%w: must be numeric, got %T", ErrInvalidParameter, raw)}
			return
		}
	}
	err = wp.Validate()
	return
}

// RunSpec is the YAML input file for a generation run
type RunSpec struct {
	Title         string             `yaml:"Title"`
	RootChord     float64            `yaml:"RootChord"`
	SemiSpan      float64            `yaml:"SemiSpan"`
	SweepAngleDeg float64            `yaml:"SweepAngleDeg"`
	TaperRatio    float64            `yaml:"TaperRatio"`
	Prompt        string             `yaml:"Prompt"` // Free text, used when the numeric fields are absent
	Format        string             `yaml:"Format"` // "glb" (default) or "stl"
	OutputDir     string             `yaml:"OutputDir"`
	Extra         map[string]float64 `yaml:"Extra"` // Passthrough values echoed into metadata logs
}

func (rs *RunSpec) Parse(data []byte) error {
	return yaml.Unmarshal(data, rs)
}

func (rs *RunSpec) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rs.Title)
	fmt.Printf("%8.5f\t\t= RootChord\n", rs.RootChord)
	fmt.Printf("%8.5f\t\t= SemiSpan\n", rs.SemiSpan)
	fmt.Printf("%8.5f\t\t= SweepAngleDeg\n", rs.SweepAngleDeg)
	fmt.Printf("%8.5f\t\t= TaperRatio\n", rs.TaperRatio)
	fmt.Printf("[%s]\t\t\t= Format\n", rs.Format)
	if len(rs.Prompt) != 0 {
		fmt.Printf("\"%s\"\t= Prompt\n", rs.Prompt)
	}
	keys := make([]string, len(rs.Extra))
	i := 0
	for k := range rs.Extra {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Extra[%s] = %v\n", key, rs.Extra[key])
	}
}

// Parameters assembles the planform from a RunSpec, filling unset numeric
// fields from the defaults
func (rs *RunSpec) Parameters() WingParameters {
	wp := Defaults()
	if rs.RootChord > 0 {
		wp.RootChord = rs.RootChord
	}
	if rs.SemiSpan > 0 {
		wp.SemiSpan = rs.SemiSpan
	}
	if rs.SweepAngleDeg != 0 {
		wp.SweepAngleDeg = rs.SweepAngleDeg
	}
	if rs.TaperRatio != 0 {
		wp.TaperRatio = rs.TaperRatio
	}
	return wp
}
