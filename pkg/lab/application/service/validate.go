package service

import (
	"fmt"
	"sort"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

// Hematocrit (%) tracks hemoglobin (g/L) at roughly a 0.3 ratio; pairs
// outside this band usually mean a transcription or analyzer fault.
const (
	hbHctRatioMin = 0.25
	hbHctRatioMax = 0.35
)

// Plausibility margins against the critical bounds.
const (
	suspiciousLowFactor  = 0.1
	suspiciousHighFactor = 10
)

// QualityCheck validates a result set before it is accepted. Errors block
// persistence, warnings are advisory.
func QualityCheck(
	catalog model.RangeCatalog,
	results map[model.Parameter]float64,
	requested []model.Parameter,
) (errs []string, warnings []string) {
	for _, param := range requested {
		if _, ok := results[param]; !ok {
			errs = append(errs, fmt.Sprintf("missing value for parameter %q", param))
		}
	}

	params := make([]model.Parameter, 0, len(results))
	for param := range results {
		params = append(params, param)
	}
	sort.Strings(params)

	for _, param := range params {
		value := results[param]
		r, ok := catalog.Lookup(param)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown parameter %q", param))
			continue
		}
		if r.CriticalLow > 0 && value < r.CriticalLow*suspiciousLowFactor {
			warnings = append(warnings, fmt.Sprintf("%v: value %.2f is suspiciously low", r.Name, value))
		}
		if r.CriticalHigh > 0 && value > r.CriticalHigh*suspiciousHighFactor {
			warnings = append(warnings, fmt.Sprintf("%v: value %.2f is suspiciously high", r.Name, value))
		}
	}

	hb, hasHb := results[model.ParamHemoglobin]
	hct, hasHct := results[model.ParamHematocrit]
	if hasHb && hasHct && hb > 0 {
		ratio := hct / hb
		if ratio < hbHctRatioMin || ratio > hbHctRatioMax {
			warnings = append(warnings, "unusual hemoglobin/hematocrit ratio")
		}
	}

	return errs, warnings
}
