package analyzer

import (
	"math/rand"
	"sort"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

// Deviation envelope for simulated abnormal values.
const (
	abnormalChance = 0.3
	lowFactorBase  = 0.7
	lowFactorSpan  = 0.2
	highFactorBase = 1.2
	highFactorSpan = 0.3
)

// Simulator produces result sets the way a biochemistry analyzer would
// report them.
type Simulator struct {
	catalog model.RangeCatalog
	rand    *rand.Rand
}

func NewSimulator(catalog model.RangeCatalog, seed int64) *Simulator {
	return &Simulator{
		catalog: catalog,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a full result set over the catalog. With abnormalities
// enabled roughly a third of the values deviate, half below the interval
// and half above it.
func (s *Simulator) Generate(gender model.Gender, includeAbnormal bool) map[model.Parameter]float64 {
	params := make([]model.Parameter, 0, len(s.catalog))
	for param := range s.catalog {
		params = append(params, param)
	}
	sort.Strings(params)

	results := make(map[model.Parameter]float64, len(s.catalog))
	for _, param := range params {
		bounds := s.catalog[param].BoundsFor(gender)
		if includeAbnormal && s.rand.Float64() < abnormalChance {
			if s.rand.Float64() < 0.5 {
				results[param] = bounds.Min * (lowFactorBase + s.rand.Float64()*lowFactorSpan)
			} else {
				results[param] = bounds.Max * (highFactorBase + s.rand.Float64()*highFactorSpan)
			}
			continue
		}
		results[param] = bounds.Min + (bounds.Max-bounds.Min)*s.rand.Float64()
	}
	return results
}
