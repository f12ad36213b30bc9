package params

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// Labeled numeric phrases of the form "<label> of <number>". Numbers must be
// plain decimal - no units, no scientific notation
var extractors = []struct {
	field string
	re    *regexp.Regexp
	set   func(*WingParameters, float64)
}{
	{"root_chord", regexp.MustCompile(`(?i)root chord\s*of\s*(\d+(?:\.\d+)?)`),
		func(wp *WingParameters, v float64) { wp.RootChord = v }},
	{"semi_span", regexp.MustCompile(`(?i)semi[- ]span\s*of\s*(\d+(?:\.\d+)?)`),
		func(wp *WingParameters, v float64) { wp.SemiSpan = v }},
	{"sweep_angle_deg", regexp.MustCompile(`(?i)sweep angle\s*of\s*(\d+(?:\.\d+)?)`),
		func(wp *WingParameters, v float64) { wp.SweepAngleDeg = v }},
	{"taper_ratio", regexp.MustCompile(`(?i)taper ratio\s*of\s*(\d+(?:\.\d+)?)`),
		func(wp *WingParameters, v float64) { wp.TaperRatio = v }},
}

// ExtractFromText scans free text for labeled wing parameters, overriding the
// defaults field by field. Each field is independently fallible: a value that
// fails to parse is logged and skipped without blocking the other fields, so
// text input always yields a usable parameter set
func ExtractFromText(text string, defaults WingParameters, log *zap.Logger) WingParameters {
	if log == nil {
		log = zap.NewNop()
	}
	wp := defaults
	for _, ex := range extractors {
		m := ex.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			log.Warn("prompt parameter did not parse, keeping default",
				zap.String("field", ex.field), zap.String("capture", m[1]), zap.Error(err))
			continue
		}
		ex.set(&wp, v)
	}
	return wp
}
