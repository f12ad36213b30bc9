// Package aero computes closed-form planform properties of a wing. These are
// pure functions of the input parameters, independent of the generated mesh.
package aero

import "github.com/skyforge/wingen/params"

// WingMetadata is the aerodynamic summary returned alongside a generated mesh
type WingMetadata struct {
	TotalSpan     float64 `json:"total_span"`
	WingArea      float64 `json:"wing_area"`
	AspectRatio   float64 `json:"aspect_ratio"`
	TipChord      float64 `json:"tip_chord"`
	RootChord     float64 `json:"root_chord"`
	SemiSpan      float64 `json:"semi_span"`
	SweepAngleDeg float64 `json:"sweep_angle_deg"`
	TaperRatio    float64 `json:"taper_ratio"`
	Prompt        string  `json:"prompt,omitempty"` // Echo of the originating text, when any
}

// Properties computes the trapezoidal planform summary:
//
//	total_span   = 2 * semi_span
//	tip_chord    = root_chord * taper_ratio
//	wing_area    = (root_chord + tip_chord)/2 * total_span
//	aspect_ratio = total_span^2 / wing_area, 0 when the area is degenerate
func Properties(wp params.WingParameters) (md WingMetadata) {
	md = WingMetadata{
		RootChord:     wp.RootChord,
		SemiSpan:      wp.SemiSpan,
		SweepAngleDeg: wp.SweepAngleDeg,
		TaperRatio:    wp.TaperRatio,
	}
	md.TotalSpan = 2. * wp.SemiSpan
	md.TipChord = wp.RootChord * wp.TaperRatio
	md.WingArea = 0.5 * (wp.RootChord + md.TipChord) * md.TotalSpan
	if md.WingArea > 0 {
		md.AspectRatio = md.TotalSpan * md.TotalSpan / md.WingArea
	}
	return
}
